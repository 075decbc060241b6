package export

import (
	"encoding/json"
	"io"

	"taskbook/storage"
)

type jsonDocument struct {
	Tasks []jsonTask `json:"tarefas"`
}

// jsonTask fixes the key order of each exported task
type jsonTask struct {
	Description string  `json:"description"`
	Done        bool    `json:"done"`
	Note        string  `json:"note"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	DueDate     *string `json:"dueDate"`
}

// WriteJSON writes tasks as {"tarefas": [...]} with two-space indentation.
// A missing due date is written as null, a present one as yyyy-mm-dd.
func WriteJSON(w io.Writer, tasks []storage.Task) error {
	doc := jsonDocument{Tasks: make([]jsonTask, 0, len(tasks))}
	for _, t := range tasks {
		jt := jsonTask{
			Description: t.Description,
			Done:        t.Done,
			Note:        t.Note,
			Priority:    t.Priority.Label(),
			Category:    t.Category,
		}
		if t.DueDate != nil {
			iso := t.DueDate.Format(storage.ISODateLayout)
			jt.DueDate = &iso
		}
		doc.Tasks = append(doc.Tasks, jt)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
