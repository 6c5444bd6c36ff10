package models

import "time"

type CarePlan struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	AnalysisID uint      `gorm:"index;not null" json:"analysis_id"`
	Analysis   *Analysis `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"analysis,omitempty"`

	CreatedBy uint `gorm:"not null" json:"created_by"`

	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ValidUntil  *time.Time `json:"valid_until"`

	Items []CarePlanItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CarePlanItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CarePlanID uint `gorm:"index;not null" json:"care_plan_id"`

	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`

	UsageTime         string `gorm:"size:100" json:"usage_time"`
	UsageFrequency    string `gorm:"size:100" json:"usage_frequency"`
	UsageInstructions string `gorm:"type:text" json:"usage_instructions"`

	// duplicates within a plan are allowed
	Order int `gorm:"column:sort_order;not null" json:"order"`
}
