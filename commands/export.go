package commands

import (
	"strings"

	"taskbook/export"
)

func init() {
	Register(&Command{
		Name:        "/export",
		Description: "Export all tasks to a csv, json or pdf file",
		Params: []Param{
			{Name: "format", Type: ParamTypeString, Description: "csv, json or pdf", Required: true},
			{Name: "path", Type: ParamTypeString, Description: "Destination file (default tarefas.<format> in the export directory)", Rest: true},
		},
		Handler: func(args []string) bool {
			if len(args) == 0 {
				printLine("Usage: /export <csv|json|pdf> [path]")
				return false
			}

			format, err := export.ParseFormat(args[0])
			if err != nil {
				printf("Error: %v\n", err)
				return false
			}

			n := GetStore().Len()
			if n == 0 {
				printLine("No tasks to export.")
				return false
			}

			path := "tarefas" + format.Extension()
			if len(args) > 1 {
				path = strings.TrimSpace(strings.Join(args[1:], " "))
			}
			path = exportPath(path)

			if err := export.ToFile(format, path, GetStore()); err != nil {
				printf("Error exporting: %v\n", err)
				return false
			}

			printf("Exported %s to %s\n", formatTaskCount(n), path)
			return false
		},
	})
}
