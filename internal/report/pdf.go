// Package report renders heat maps for people: a PDF handout and a
// colored terminal table.
package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"scheduler/internal/analysis"
	"scheduler/internal/capacity"
)

type rgb struct{ r, g, b int }

var levelFill = map[string]rgb{
	capacity.LevelIdle:      {243, 244, 246},
	capacity.LevelLight:     {209, 250, 229},
	capacity.LevelBalanced:  {167, 243, 208},
	capacity.LevelFull:      {253, 230, 138},
	capacity.LevelOver:      {252, 165, 165},
	capacity.LevelUnbounded: {239, 68, 68},
}

// PDFInput is everything printed in the capacity report.
type PDFInput struct {
	Title     string
	HeatMap   capacity.HeatMap
	Conflicts []capacity.Conflict
	Delays    *analysis.DelayReport
}

// WriteHeatMapPDF writes a landscape A4 capacity report to w.
func WriteHeatMapPDF(w io.Writer, in PDFInput) error {
	hm := in.HeatMap
	title := in.Title
	if title == "" {
		title = "Capacity Report"
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s: week of %s", title, hm.Anchor))
	pdf.Ln(12)

	weeks := 0
	if len(hm.Rows) > 0 {
		weeks = len(hm.Rows[0].Weeks)
	}
	const nameWidth, rowHeight = 40.0, 8.0
	cellWidth := (277 - nameWidth) / float64(weeks+1)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(229, 231, 235)
	pdf.CellFormat(nameWidth, rowHeight, "Person", "1", 0, "L", true, 0, "")
	for w := 0; w < weeks; w++ {
		label := hm.Anchor.AddDays(7 * w).Time().Format("Jan 02")
		pdf.CellFormat(cellWidth, rowHeight, label, "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(cellWidth, rowHeight, "Later", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, row := range hm.Rows {
		name := row.Person
		if row.IsProjectReady {
			name += " *"
		}
		pdf.SetFillColor(255, 255, 255)
		pdf.CellFormat(nameWidth, rowHeight, name, "1", 0, "L", true, 0, "")
		for _, b := range row.Weeks {
			fillCell(pdf, cellWidth, rowHeight, b, 0)
		}
		pdf.SetFillColor(255, 255, 255)
		pdf.CellFormat(cellWidth, rowHeight, beyondText(row.Beyond), "1", 1, "C", true, 0, "")
	}

	if totals := hm.TeamTotals(); len(totals) > 0 {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(229, 231, 235)
		pdf.CellFormat(nameWidth, rowHeight, "Project-ready team", "1", 0, "L", true, 0, "")
		for _, b := range totals {
			fillCell(pdf, cellWidth, rowHeight, b, 0)
		}
		pdf.Ln(rowHeight)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "P1 Conflicts")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	if len(in.Conflicts) == 0 {
		pdf.Cell(0, 6, "  - None.")
		pdf.Ln(6)
	}
	for _, c := range in.Conflicts {
		pdf.Cell(0, 6, fmt.Sprintf("  #%d and #%d overlap for %v", c.First, c.Second, c.People))
		pdf.Ln(6)
	}

	if d := in.Delays; d != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Delivery")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("Completed: %d   On time: %d   Late: %d   Average delay: %.1f business days",
			d.Summary.Completed, d.Summary.OnTime, d.Summary.Late, d.Summary.AverageDelay), "", "", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func fillCell(pdf *fpdf.Fpdf, width, height float64, b capacity.Bucket, ln int) {
	c := levelFill[b.Level()]
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.CellFormat(width, height, cellText(b), "1", ln, "C", true, 0, "")
}

// cellText is the label of one heat map cell, shared by both renderers.
func cellText(b capacity.Bucket) string {
	switch {
	case b.Unbounded:
		return fmt.Sprintf("%.0fh/0h", b.AssignedHours)
	case b.AvailableHours == 0:
		return "-"
	default:
		return fmt.Sprintf("%.0f%%", b.UtilizationPercent)
	}
}

func beyondText(b capacity.Bucket) string {
	if b.AssignedHours == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0fh", b.AssignedHours)
}
