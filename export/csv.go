package export

import (
	"io"
	"strings"

	"taskbook/storage"
)

// CSVHeader is the first line of every CSV export
const CSVHeader = "Descrição;Status;Observação;Prioridade;Categoria;Data Vencimento"

const csvDelimiter = ";"

// WriteCSV writes tasks as semicolon-delimited text: a header line, then one
// line per task. Description, note and category are always quoted; status,
// priority label and the dd/mm/yyyy due date are written bare.
func WriteCSV(w io.Writer, tasks []storage.Task) error {
	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteString("\n")

	for _, t := range tasks {
		fields := []string{
			quoteCSV(t.Description),
			t.StatusLabel(),
			quoteCSV(t.Note),
			t.Priority.Label(),
			quoteCSV(t.Category),
			storage.FormatDueDate(t.DueDate),
		}
		b.WriteString(strings.Join(fields, csvDelimiter))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// quoteCSV wraps s in double quotes, doubling any embedded quote
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
