// Package document composes the exportable care plan and renders it.
package document

import (
	"strconv"

	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/timezone"
)

const (
	NotSpecified     = "Nie określono"
	NoInstructions   = "Brak szczegółowych instrukcji"
	NoRecommendation = "Brak rekomendacji AI"
	Footer           = "BeautyAI - System wspierający kosmetologów w analizie skóry"
)

type ProductLine struct {
	Name           string
	Brand          string
	UsageTime      string
	UsageFrequency string
	Instructions   string
}

type Metric struct {
	Label string
	Value string
}

// Document is the export content. Renderers must emit fields in declaration order.
type Document struct {
	Title       string
	ClientName  string
	CreatedAt   string
	ValidUntil  string
	Description string

	Products []ProductLine

	SkinType string
	Metrics  []Metric

	Recommendations string
	Footer          string
}

// Compose expects plan loaded with Client.User, Analysis and Items.Product, items already ordered.
func Compose(plan *models.CarePlan, tz string) Document {
	doc := Document{
		Title:       plan.Title,
		CreatedAt:   timezone.Format(&plan.CreatedAt, tz),
		ValidUntil:  orDefault(timezone.Format(plan.ValidUntil, tz), NotSpecified),
		Description: plan.Description,
		Footer:      Footer,
	}

	if plan.Client != nil && plan.Client.User != nil {
		doc.ClientName = plan.Client.User.FullName
	}

	for _, it := range plan.Items {
		line := ProductLine{
			UsageTime:      orDefault(it.UsageTime, NotSpecified),
			UsageFrequency: orDefault(it.UsageFrequency, NotSpecified),
			Instructions:   orDefault(it.UsageInstructions, NoInstructions),
		}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.Brand = it.Product.Brand
		}
		doc.Products = append(doc.Products, line)
	}

	a := plan.Analysis
	if a == nil {
		a = &models.Analysis{}
	}

	doc.SkinType = orDefault(a.SkinType, NotSpecified)
	doc.Metrics = []Metric{
		{"Poziom nawilżenia", percent(a.HydrationLevel)},
		{"Poziom sebum", percent(a.SebumLevel)},
		{"Przebarwienia", percent(a.Pigmentation)},
		{"Zmarszczki", percent(a.Wrinkles)},
		{"Pory", percent(a.Pores)},
		{"Wrażliwość", percent(a.Sensitivity)},
	}
	doc.Recommendations = orDefault(a.AIRecommendations, NoRecommendation)

	return doc
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func percent(v *float64) string {
	if v == nil {
		return NotSpecified
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}
