// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskclient/internal/service"
)

const (
	// ListSeparator is the separator line for view sections.
	ListSeparator = "------------"

	// NoTasks is printed for an empty task list.
	NoTasks = "no tasks found"
)

// FormatTask formats a task line, followed by its description when set.
// Format: "{N:>4}  {TITLE}\n" and "      {DESCRIPTION}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	title := normalizeTitle(task.Title)
	if task.Completed {
		title += " [done]"
	}
	fmt.Fprintf(w, "%4d  %s\n", num, title)
	if desc := normalizeDescription(task.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// FormatTasks formats every task in order, numbering from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeDescription(desc string) string {
	return strings.TrimSpace(flatten(desc))
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
