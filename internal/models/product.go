package models

import "time"

type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string   `gorm:"size:200;not null" json:"name"`
	Brand       string   `gorm:"size:100" json:"brand"`
	Category    string   `gorm:"size:50;index" json:"category"`
	Description string   `gorm:"type:text" json:"description"`
	Ingredients string   `gorm:"type:text" json:"ingredients"`
	ImageURL    string   `gorm:"size:500" json:"image_url"`
	Price       *float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
