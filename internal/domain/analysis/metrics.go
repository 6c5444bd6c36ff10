package analysis

import (
	"github.com/beautyai/beautyai-api/internal/models"
)

// Patch is a partial update; nil fields are left as they are.
type Patch struct {
	SkinType          *string
	HydrationLevel    *float64
	SebumLevel        *float64
	Pigmentation      *float64
	Wrinkles          *float64
	Pores             *float64
	Sensitivity       *float64
	Notes             *string
	AIRecommendations *string
}

// ValidMetric accepts percentages in [0, 100].
func ValidMetric(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100)
}

func (p Patch) Valid() bool {
	if p.SkinType != nil && *p.SkinType != "" && !models.IsValidSkinType(*p.SkinType) {
		return false
	}
	for _, m := range []*float64{p.HydrationLevel, p.SebumLevel, p.Pigmentation, p.Wrinkles, p.Pores, p.Sensitivity} {
		if !ValidMetric(m) {
			return false
		}
	}
	return true
}

func (p Patch) Apply(a *models.Analysis) {
	if p.SkinType != nil {
		a.SkinType = *p.SkinType
	}
	setIf(&a.HydrationLevel, p.HydrationLevel)
	setIf(&a.SebumLevel, p.SebumLevel)
	setIf(&a.Pigmentation, p.Pigmentation)
	setIf(&a.Wrinkles, p.Wrinkles)
	setIf(&a.Pores, p.Pores)
	setIf(&a.Sensitivity, p.Sensitivity)
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.AIRecommendations != nil {
		a.AIRecommendations = *p.AIRecommendations
	}
}

func setIf(dst **float64, v *float64) {
	if v != nil {
		val := *v
		*dst = &val
	}
}

// UniqueIDs drops duplicates, keeping first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
