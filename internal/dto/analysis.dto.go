package dto

import domain "github.com/beautyai/beautyai-api/internal/domain/analysis"

type AnalysisUpdateRequest struct {
	SkinType          *string  `json:"skin_type"`
	HydrationLevel    *float64 `json:"hydration_level"`
	SebumLevel        *float64 `json:"sebum_level"`
	Pigmentation      *float64 `json:"pigmentation"`
	Wrinkles          *float64 `json:"wrinkles"`
	Pores             *float64 `json:"pores"`
	Sensitivity       *float64 `json:"sensitivity"`
	Notes             *string  `json:"notes"`
	AIRecommendations *string  `json:"ai_recommendations"`
}

func (r AnalysisUpdateRequest) Patch() domain.Patch {
	return domain.Patch{
		SkinType:          r.SkinType,
		HydrationLevel:    r.HydrationLevel,
		SebumLevel:        r.SebumLevel,
		Pigmentation:      r.Pigmentation,
		Wrinkles:          r.Wrinkles,
		Pores:             r.Pores,
		Sensitivity:       r.Sensitivity,
		Notes:             r.Notes,
		AIRecommendations: r.AIRecommendations,
	}
}

type RecommendedProductsRequest struct {
	ProductIDs []uint `json:"product_ids"`
}
