package dto

// ClientCreateRequest attaches an existing account (UserID) or creates one
// from Email, FullName and Password.
type ClientCreateRequest struct {
	UserID *uint `json:"user_id"`

	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`

	// superadmin only; cosmetologists always assign themselves
	CosmetologistID *uint `json:"cosmetologist_id"`

	Phone     string  `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Address   string  `json:"address"`
	Notes     string  `json:"notes"`
}

type ClientUpdateRequest struct {
	CosmetologistID *uint   `json:"cosmetologist_id"`
	Phone           *string `json:"phone"`
	BirthDate       *string `json:"birth_date"`
	Address         *string `json:"address"`
	Notes           *string `json:"notes"`
}
