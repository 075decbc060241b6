package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"taskbook/storage"
)

const pdfTitle = "Tasks"

// WritePDF renders tasks as an A4 report: a title line, then one block per
// task with its status, priority, category, due date and note.
func WritePDF(w io.Writer, tasks []storage.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfTitle, false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// Core fonts are cp1252; task text arrives as UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, pdfTitle)
	pdf.Ln(12)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(40, 8, tr("No tasks."))
	}

	for i, t := range tasks {
		status := "[ ]"
		if t.Done {
			status = "[X]"
		}

		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%d. %s %s", i+1, status, t.Description)), "", "L", false)

		details := fmt.Sprintf("%s | %s | %s", t.StatusLabel(), t.Priority.Label(), t.Category)
		if t.DueDate != nil {
			details += " | " + storage.FormatDueDate(t.DueDate)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(details), "", "L", false)

		if t.Note != "" {
			pdf.SetFont("Arial", "I", 10)
			pdf.MultiCell(0, 6, tr(t.Note), "", "L", false)
		}
		pdf.Ln(3)
	}

	return pdf.Output(w)
}
