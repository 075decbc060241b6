// Package export renders a task list to interchange files (CSV, JSON, PDF).
//
// Every format has a writer form (WriteCSV, WriteJSON, WritePDF) and a path
// form (CSV, JSON, PDF) that writes the full current list of a Source to a
// destination file. Unlike snapshot persistence, export errors are always
// returned to the caller.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"taskbook/storage"
)

// Source provides the tasks to export, in order. *storage.TaskStore satisfies it.
type Source interface {
	List() []storage.Task
}

// Format identifies an export format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ValidFormats lists all supported export formats
var ValidFormats = []Format{FormatCSV, FormatJSON, FormatPDF}

// ParseFormat converts a format name (case-insensitive) to a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidFormats {
		if f == valid {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format: %s (use csv, json or pdf)", s)
}

// Extension returns the conventional file extension, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ToFile writes src in the given format to path
func ToFile(format Format, path string, src Source) error {
	switch format {
	case FormatCSV:
		return CSV(path, src)
	case FormatJSON:
		return JSON(path, src)
	case FormatPDF:
		return PDF(path, src)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// CSV writes the tasks of src to path as semicolon-delimited text
func CSV(path string, src Source) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, src.List())
	})
}

// JSON writes the tasks of src to path as a JSON document
func JSON(path string, src Source) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, src.List())
	})
}

// PDF writes the tasks of src to path as a printable report
func PDF(path string, src Source) error {
	return writeFile(path, func(w io.Writer) error {
		return WritePDF(w, src.List())
	})
}

// writeFile creates (or truncates) path and streams render into it
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		f.Close()
		return fmt.Errorf("failed to export to %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
