package careplan

import (
	"sort"

	"github.com/beautyai/beautyai-api/internal/models"
)

type ItemInput struct {
	ProductID         uint
	UsageTime         string
	UsageFrequency    string
	UsageInstructions string
	Order             *int
}

// ResolveOrder returns the explicit order, or index when it is absent or zero.
// Duplicate orders are kept as given.
func ResolveOrder(order *int, index int) int {
	if order == nil || *order == 0 {
		return index
	}
	return *order
}

func BuildItems(carePlanID uint, in []ItemInput) []models.CarePlanItem {
	items := make([]models.CarePlanItem, 0, len(in))
	for i, it := range in {
		items = append(items, models.CarePlanItem{
			CarePlanID:        carePlanID,
			ProductID:         it.ProductID,
			UsageTime:         it.UsageTime,
			UsageFrequency:    it.UsageFrequency,
			UsageInstructions: it.UsageInstructions,
			Order:             ResolveOrder(it.Order, i),
		})
	}
	return items
}

// SortItems orders items ascending by Order; ties keep insertion order.
func SortItems(items []models.CarePlanItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
}
