package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbook/storage"
)

type sliceSource []storage.Task

func (s sliceSource) List() []storage.Task { return s }

func sampleTasks() []storage.Task {
	due := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	return []storage.Task{
		{
			Description: `Task "A"`,
			Done:        false,
			Note:        "line1\nline2",
			Priority:    storage.PriorityHigh,
			Category:    "Work; urgent",
			DueDate:     &due,
		},
		{
			Description: `back\slash	tab`,
			Done:        true,
			Note:        "",
			Priority:    storage.PriorityLow,
			Category:    "General",
		},
	}
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()

	r := csv.NewReader(strings.NewReader(data))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTasks()))

	out := buf.String()
	lines := strings.SplitN(out, "\n", 2)
	assert.Equal(t, "Descrição;Status;Observação;Prioridade;Categoria;Data Vencimento", lines[0])
	assert.Contains(t, out, `"Task ""A"""`)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, []string{`Task "A"`, "Pending", "line1\nline2", "High", "Work; urgent", "31/12/2026"}, records[1])
	assert.Equal(t, []string{"back\\slash\ttab", "Completed", "", "Low", "General", ""}, records[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, CSVHeader+"\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTasks()))

	out := buf.String()
	assert.Contains(t, out, `"note": "line1\nline2"`)
	assert.Contains(t, out, `"dueDate": null`)
	assert.Contains(t, out, `"dueDate": "2026-12-31"`)
	assert.Contains(t, out, `"description": "back\\slash\ttab"`)

	var doc struct {
		Tasks []map[string]any `json:"tarefas"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tasks, 2)

	first := doc.Tasks[0]
	assert.Equal(t, `Task "A"`, first["description"])
	assert.Equal(t, false, first["done"])
	assert.Equal(t, "line1\nline2", first["note"])
	assert.Equal(t, "High", first["priority"])
	assert.Equal(t, "Work; urgent", first["category"])
	assert.Equal(t, "2026-12-31", first["dueDate"])

	second := doc.Tasks[1]
	assert.Equal(t, "back\\slash\ttab", second["description"])
	assert.Equal(t, true, second["done"])
	assert.Nil(t, second["dueDate"])
	assert.Contains(t, second, "dueDate")
}

func TestWriteJSONKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTasks()[:1]))

	out := buf.String()
	keys := []string{`"description"`, `"done"`, `"note"`, `"priority"`, `"category"`, `"dueDate"`}
	last := -1
	for _, k := range keys {
		pos := strings.Index(out, k)
		require.NotEqual(t, -1, pos, "missing key %s", k)
		assert.Greater(t, pos, last, "key %s out of order", k)
		last = pos
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))

	var doc map[string][]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotNil(t, doc["tarefas"])
	assert.Empty(t, doc["tarefas"])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	tasks := sampleTasks()
	tasks[0].Note = "Observação com acentos"
	require.NoError(t, WritePDF(&buf, tasks))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/Title (Tasks)")
	assert.NotContains(t, buf.String(), "Tarefas")
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	src := sliceSource(sampleTasks())

	for _, format := range ValidFormats {
		path := filepath.Join(dir, "tasks"+format.Extension())
		require.NoError(t, ToFile(format, path, src), "format %s", format)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	data, err := os.ReadFile(filepath.Join(dir, "tasks.csv"))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, string(data)), 3)
}

func TestExportOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0644))

	require.NoError(t, CSV(path, sliceSource(nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, CSVHeader+"\n", string(data))
}

func TestExportReportsIOErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out")
	src := sliceSource(sampleTasks())

	assert.Error(t, CSV(path+".csv", src))
	assert.Error(t, JSON(path+".json", src))
	assert.Error(t, PDF(path+".pdf", src))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" pdf ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Error(t, ToFile(Format("xml"), filepath.Join(t.TempDir(), "x"), sliceSource(nil)))
}
