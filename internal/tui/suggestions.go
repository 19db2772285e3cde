package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Suggestions provides autocomplete for the command line
type Suggestions struct {
	items        []SuggestionItem
	filtered     []SuggestionItem
	selectedIdx  int
	visible      bool
	prefix       string // "/", "#", or "@"
	currentInput string
	categories   []string
	taskIDs      []string
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
	Type        string // "command", "category", "task"
}

var commandSuggestions = []SuggestionItem{
	{Text: "/add", Description: "Add a task: add <desc> #cat !prio +days", Type: "command"},
	{Text: "/done", Description: "Complete the selected task", Type: "command"},
	{Text: "/rm", Description: "Remove the selected task", Type: "command"},
	{Text: "/all", Description: "View all tasks", Type: "command"},
	{Text: "/priority", Description: "View tasks by priority", Type: "command"},
	{Text: "/pending", Description: "View pending tasks", Type: "command"},
	{Text: "/cat", Description: "View one category", Type: "command"},
	{Text: "/save", Description: "Save tasks, optionally to a path", Type: "command"},
	{Text: "/quit", Description: "Save and exit", Type: "command"},
}

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{}
}

// SetCategories updates the labels offered after "#"
func (s *Suggestions) SetCategories(categories []string) {
	s.categories = categories
}

// SetTasks updates the task ids offered after "@"
func (s *Suggestions) SetTasks(ids []string) {
	s.taskIDs = ids
}

// Update updates suggestions based on current input
func (s *Suggestions) Update(input string) {
	s.currentInput = input
	// Only the first word is completed.
	if input == "" || strings.ContainsRune(input, ' ') {
		s.hide()
		return
	}

	switch input[0] {
	case '/':
		s.items = commandSuggestions
	case '#':
		s.items = make([]SuggestionItem, len(s.categories))
		for i, c := range s.categories {
			s.items[i] = SuggestionItem{Text: "#" + c, Description: "Show this category", Type: "category"}
		}
	case '@':
		s.items = make([]SuggestionItem, len(s.taskIDs))
		for i, id := range s.taskIDs {
			s.items[i] = SuggestionItem{Text: "@" + id, Description: "Open this task", Type: "task"}
		}
	default:
		s.hide()
		return
	}
	s.prefix = input[:1]
	s.visible = true
	s.filter(strings.ToLower(input))
}

func (s *Suggestions) hide() {
	s.visible = false
	s.filtered = nil
	s.prefix = ""
}

func (s *Suggestions) filter(query string) {
	s.filtered = s.filtered[:0]
	for _, item := range s.items {
		if strings.HasPrefix(strings.ToLower(item.Text), query) {
			s.filtered = append(s.filtered, item)
		}
	}
	s.selectedIdx = 0
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(width-4, 20))

	selected := lipgloss.NewStyle().
		Background(primaryColor).
		Foreground(fgColor).
		Bold(true)

	itemStyle := lipgloss.NewStyle().Foreground(fgColor)
	descStyle := lipgloss.NewStyle().Foreground(mutedColor).Italic(true)

	var header string
	switch s.prefix {
	case "/":
		header = "Commands"
	case "#":
		header = "Categories"
	case "@":
		header = "Tasks"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(header))
	b.WriteString("\n")

	const maxVisible = 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", len(s.filtered)-maxVisible)))
			break
		}

		var line string
		if i == s.selectedIdx {
			line = selected.Render("▶ " + item.Text)
			if item.Description != "" {
				line += " " + selected.Render(item.Description)
			}
		} else {
			line = itemStyle.Render("  " + item.Text)
			if item.Description != "" {
				line += " " + descStyle.Render(item.Description)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return boxStyle.Render(b.String())
}
