package document

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type Renderer interface {
	Render(w io.Writer, doc Document) error
	ContentType() string
	Extension() string
}

// Field labels, in output order.
const (
	labelTitle       = "Plan pielęgnacyjny"
	labelClient      = "Klientka"
	labelCreatedAt   = "Data utworzenia"
	labelValidUntil  = "Ważny do"
	labelDescription = "Opis planu"
	labelProducts    = "Produkty"
	labelUsageTime   = "Czas stosowania"
	labelFrequency   = "Częstotliwość"
	labelInstruction = "Instrukcje"
	labelAnalysis    = "Analiza skóry"
	labelSkinType    = "Typ skóry"
	labelAIRecs      = "Rekomendacje AI"
)

// ======================================================
// TEXT
// ======================================================

// TextRenderer emits plain text under a PDF content type, matching what
// existing clients download as care_plan_{id}.pdf.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "application/pdf" }
func (TextRenderer) Extension() string   { return "pdf" }

func (TextRenderer) Render(w io.Writer, doc Document) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "%s: %s\n\n", labelTitle, doc.Title)
	fmt.Fprintf(b, "%s: %s\n", labelClient, doc.ClientName)
	fmt.Fprintf(b, "%s: %s\n", labelCreatedAt, doc.CreatedAt)
	fmt.Fprintf(b, "%s: %s\n\n", labelValidUntil, doc.ValidUntil)
	fmt.Fprintf(b, "%s:\n%s\n\n", labelDescription, doc.Description)

	fmt.Fprintf(b, "%s:\n", labelProducts)
	for _, p := range doc.Products {
		fmt.Fprintf(b, "- %s (%s)\n", p.Name, p.Brand)
		fmt.Fprintf(b, "  %s: %s\n", labelUsageTime, p.UsageTime)
		fmt.Fprintf(b, "  %s: %s\n", labelFrequency, p.UsageFrequency)
		fmt.Fprintf(b, "  %s: %s\n", labelInstruction, p.Instructions)
	}

	fmt.Fprintf(b, "\n%s:\n", labelAnalysis)
	fmt.Fprintf(b, "%s: %s\n", labelSkinType, doc.SkinType)
	for _, m := range doc.Metrics {
		fmt.Fprintf(b, "%s: %s\n", m.Label, m.Value)
	}

	fmt.Fprintf(b, "\n%s:\n%s\n\n", labelAIRecs, doc.Recommendations)
	fmt.Fprintf(b, "---\n%s\n", doc.Footer)

	return b.Flush()
}

// ======================================================
// XLSX
// ======================================================

const sheetName = "Plan"

type XLSXRenderer struct{}

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Extension() string { return "xlsx" }

func (XLSXRenderer) Render(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	row := 0
	put := func(values ...any) error {
		row++
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	heading := func(values ...any) error {
		if err := put(values...); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		return f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), last, bold)
	}

	steps := []func() error{
		func() error { return put(labelTitle, doc.Title) },
		func() error { return put(labelClient, doc.ClientName) },
		func() error { return put(labelCreatedAt, doc.CreatedAt) },
		func() error { return put(labelValidUntil, doc.ValidUntil) },
		func() error { return put(labelDescription, doc.Description) },
		func() error {
			return heading(labelProducts, "Marka", labelUsageTime, labelFrequency, labelInstruction)
		},
	}
	for _, p := range doc.Products {
		p := p
		steps = append(steps, func() error {
			return put(p.Name, p.Brand, p.UsageTime, p.UsageFrequency, p.Instructions)
		})
	}
	steps = append(steps,
		func() error { return heading(labelAnalysis) },
		func() error { return put(labelSkinType, doc.SkinType) },
	)
	for _, m := range doc.Metrics {
		m := m
		steps = append(steps, func() error { return put(m.Label, m.Value) })
	}
	steps = append(steps,
		func() error { return put(labelAIRecs, doc.Recommendations) },
		func() error { return put(doc.Footer) },
	)

	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "E", 28); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ForFormat picks a renderer by query value; anything unknown gets the text export.
func ForFormat(format string) Renderer {
	if format == "xlsx" {
		return XLSXRenderer{}
	}
	return TextRenderer{}
}
