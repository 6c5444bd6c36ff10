package models

import "time"

const (
	SkinTypeDry         = "dry"
	SkinTypeOily        = "oily"
	SkinTypeCombination = "combination"
	SkinTypeNormal      = "normal"
	SkinTypeSensitive   = "sensitive"
)

func IsValidSkinType(s string) bool {
	switch s {
	case SkinTypeDry, SkinTypeOily, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive:
		return true
	}
	return false
}

type Analysis struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	CreatedBy uint  `gorm:"not null" json:"created_by"`
	Creator   *User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	PerformedAt time.Time `gorm:"not null" json:"performed_at"`
	ImagePath   string    `gorm:"size:500" json:"image_path"`
	SkinType    string    `gorm:"size:20" json:"skin_type"`

	// percentages, nil until measured
	HydrationLevel *float64 `json:"hydration_level"`
	SebumLevel     *float64 `json:"sebum_level"`
	Pigmentation   *float64 `json:"pigmentation"`
	Wrinkles       *float64 `json:"wrinkles"`
	Pores          *float64 `json:"pores"`
	Sensitivity    *float64 `json:"sensitivity"`

	Notes             string `gorm:"type:text" json:"notes"`
	AIRecommendations string `gorm:"column:ai_recommendations;type:text" json:"ai_recommendations"`

	RecommendedProducts []Product `gorm:"many2many:analysis_product;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recommended_products,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
