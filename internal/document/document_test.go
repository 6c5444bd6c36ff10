package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/beautyai/beautyai-api/internal/models"
)

func fptr(v float64) *float64 { return &v }

func samplePlan() *models.CarePlan {
	return &models.CarePlan{
		ID:          12,
		Title:       "Spring Plan",
		Description: "Gentle routine",
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Client:      &models.Client{User: &models.User{FullName: "Anna Nowak"}},
		Analysis: &models.Analysis{
			SkinType:       models.SkinTypeDry,
			HydrationLevel: fptr(42.5),
			Wrinkles:       fptr(10),
		},
		Items: []models.CarePlanItem{
			{Order: 0, Product: &models.Product{Name: "Serum", Brand: "Lumi"}, UsageTime: "morning"},
			{Order: 5, Product: &models.Product{Name: "Cream", Brand: "Derm"}, UsageInstructions: "Thin layer"},
		},
	}
}

func TestCompose(t *testing.T) {
	doc := Compose(samplePlan(), "UTC")

	assert.Equal(t, "Spring Plan", doc.Title)
	assert.Equal(t, "Anna Nowak", doc.ClientName)
	assert.Equal(t, "2026-03-01 09:30", doc.CreatedAt)
	assert.Equal(t, NotSpecified, doc.ValidUntil)

	require.Len(t, doc.Products, 2)
	assert.Equal(t, ProductLine{"Serum", "Lumi", "morning", NotSpecified, NoInstructions}, doc.Products[0])
	assert.Equal(t, ProductLine{"Cream", "Derm", NotSpecified, NotSpecified, "Thin layer"}, doc.Products[1])

	assert.Equal(t, "dry", doc.SkinType)
	assert.Equal(t, "42.5%", doc.Metrics[0].Value)
	assert.Equal(t, NotSpecified, doc.Metrics[1].Value)
	assert.Equal(t, "10%", doc.Metrics[3].Value)
	assert.Equal(t, NoRecommendation, doc.Recommendations)
}

func TestTextRenderer_FieldOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, Compose(samplePlan(), "UTC")))
	out := buf.String()

	order := []string{
		"Plan pielęgnacyjny: Spring Plan",
		"Klientka: Anna Nowak",
		"Data utworzenia:",
		"Ważny do:",
		"Opis planu:",
		"- Serum (Lumi)",
		"- Cream (Derm)",
		"Typ skóry: dry",
		"Poziom nawilżenia: 42.5%",
		"Rekomendacje AI:",
		NoRecommendation,
		Footer,
	}

	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		require.GreaterOrEqual(t, idx, 0, s)
		assert.Greater(t, idx, last, s)
		last = idx
	}
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXRenderer{}.Render(&buf, Compose(samplePlan(), "UTC")))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	assert.Equal(t, []string{labelTitle, "Spring Plan"}, rows[0])
	assert.Equal(t, []string{labelClient, "Anna Nowak"}, rows[1])
	assert.Equal(t, labelProducts, rows[5][0])
	assert.Equal(t, []string{"Serum", "Lumi", "morning", NotSpecified, NoInstructions}, rows[6])
	assert.Equal(t, []string{Footer}, rows[len(rows)-1])
}

func TestForFormat(t *testing.T) {
	assert.Equal(t, "xlsx", ForFormat("xlsx").Extension())
	assert.Equal(t, "application/pdf", ForFormat("").ContentType())
	assert.Equal(t, "pdf", ForFormat("docx").Extension())
}
