package dto

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Ingredients string   `json:"ingredients"`
	ImageURL    string   `json:"image_url"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Ingredients *string  `json:"ingredients"`
	ImageURL    *string  `json:"image_url"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
}
