// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/service"
	"tasktrack/internal/tasks"
)

// NoTasksMessage is printed for an empty list.
const NoTasksMessage = "no tasks yet"

// FormatTask formats one task line.
// Format: "{N:>4}  [x] {TEXT}\n"; tasks known only locally get a " (local)" suffix.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	suffix := ""
	if tasks.IsProvisional(task.ID) {
		suffix = " (local)"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, mark, normalizeText(task.Text), suffix)
}

// FormatTasks formats a whole list, or NoTasksMessage when it is empty
// and quiet is false.
func FormatTasks(w io.Writer, list []service.Task, quiet bool) {
	if len(list) == 0 {
		if !quiet {
			fmt.Fprintln(w, NoTasksMessage)
		}
		return
	}
	for i, task := range list {
		FormatTask(w, i+1, task)
	}
}

// FormatTaskID formats a task's number and id, for `list --ids`.
func FormatTaskID(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", num, task.ID)
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
