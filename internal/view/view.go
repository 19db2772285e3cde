// Package view formats tasks for terminal output.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/todo/internal/models"
)

// DateLayout is the layout used for due dates.
const DateLayout = "2006-01-02"

// Block renders one task as a labelled multi-line block.
func Block(t models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Description: %s\n", t.Description)
	fmt.Fprintf(&b, "Category: %s\n", t.Category)
	fmt.Fprintf(&b, "Due Date: %s\n", t.Due().Format(DateLayout))
	fmt.Fprintf(&b, "Priority: %d\n", t.Priority)
	fmt.Fprintf(&b, "Status: %s\n", t.Status())
	return b.String()
}

// Blocks writes a heading and each task as a Block, or empty when there are
// none.
func Blocks(w io.Writer, heading, empty string, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	fmt.Fprintf(w, "=== %s ===\n", heading)
	for _, t := range tasks {
		fmt.Fprintln(w, Block(t))
	}
}

// Table writes tasks as aligned columns.
func Table(w io.Writer, tasks []models.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRI\tDUE\tCATEGORY\tSTATUS\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			t.ID, t.Priority, t.Due().Format(DateLayout),
			Truncate(t.Category, 16), strings.ToLower(t.Status()), Truncate(t.Description, 48))
	}
	return tw.Flush()
}

// Relative describes the due date relative to now, e.g. "in 3d" or "2d overdue".
func Relative(t models.Task, now time.Time) string {
	days := int(t.Due().Sub(now).Hours() / 24)
	switch {
	case t.DueDate < now.Unix():
		if days == 0 {
			return "overdue"
		}
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "today"
	default:
		return fmt.Sprintf("in %dd", days)
	}
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
