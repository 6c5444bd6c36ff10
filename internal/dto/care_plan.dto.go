package dto

import (
	"time"

	domain "github.com/beautyai/beautyai-api/internal/domain/careplan"
)

type CarePlanItemRequest struct {
	ProductID         uint   `json:"product_id" binding:"required"`
	UsageTime         string `json:"usage_time"`
	UsageFrequency    string `json:"usage_frequency"`
	UsageInstructions string `json:"usage_instructions"`
	Order             *int   `json:"order"`
}

type CarePlanCreateRequest struct {
	ClientID    uint                  `json:"client_id" binding:"required"`
	AnalysisID  uint                  `json:"analysis_id" binding:"required"`
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	ValidUntil  *time.Time            `json:"valid_until"`
	Items       []CarePlanItemRequest `json:"items" binding:"dive"`
}

type CarePlanUpdateRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description"`
	ValidUntil  *time.Time            `json:"valid_until"`
	Items       []CarePlanItemRequest `json:"items" binding:"dive"`
}

func ItemInputs(items []CarePlanItemRequest) []domain.ItemInput {
	out := make([]domain.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ItemInput{
			ProductID:         it.ProductID,
			UsageTime:         it.UsageTime,
			UsageFrequency:    it.UsageFrequency,
			UsageInstructions: it.UsageInstructions,
			Order:             it.Order,
		})
	}
	return out
}
