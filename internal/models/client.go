package models

import "time"

// Client is the profile of a client account, anchored to its assigned cosmetologist.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	CosmetologistID *uint `gorm:"index" json:"cosmetologist_id"`
	Cosmetologist   *User `gorm:"foreignKey:CosmetologistID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Phone     string     `gorm:"size:30" json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	Address   string     `gorm:"size:255" json:"address"`
	Notes     string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignedTo reports whether userID is the client's cosmetologist.
func (c *Client) AssignedTo(userID uint) bool {
	return c.CosmetologistID != nil && *c.CosmetologistID == userID
}
