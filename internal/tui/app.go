// Package tui provides the interactive terminal UI for todo.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/tracker"
	"github.com/fentz26/todo/internal/view"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#6366F1")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	fgColor        = lipgloss.Color("#F9FAFB")
	cyanColor      = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	// Priority colors, index 1 is the most urgent.
	priorityStyles = []lipgloss.Style{
		{},
		lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		lipgloss.NewStyle().Foreground(warningColor),
		lipgloss.NewStyle().Foreground(cyanColor),
		lipgloss.NewStyle().Foreground(secondaryColor),
		lipgloss.NewStyle().Foreground(mutedColor),
	}
)

// Views a list can show. Tab cycles through the first three.
const (
	viewAll      = "all"
	viewPriority = "priority"
	viewPending  = "pending"
	viewCategory = "category"
)

var cycleViews = []string{viewAll, viewPriority, viewPending}

// App is the main TUI application model.
type App struct {
	svc         *tracker.Service
	defaults    AddDefaults
	tasks       []models.Task
	selectedIdx int
	input       textinput.Model
	width       int
	height      int
	mode        string // "list" or "detail"
	view        string
	category    string
	currentTask *models.Task
	message     string
	suggestions *Suggestions
	saveErr     error
}

// New creates a new TUI application over svc.
func New(svc *tracker.Service, defaults AddDefaults) *App {
	ti := textinput.New()
	ti.Placeholder = "Type: add <desc> #cat !prio +days | done | rm | save | /  #  @"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	return &App{
		svc:         svc,
		defaults:    defaults,
		input:       ti,
		mode:        "list",
		view:        viewAll,
		suggestions: NewSuggestions(),
	}
}

// Run starts the TUI application. Tasks are saved when it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return a.saveErr
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.fetchTasks(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, a.quit()

		case "esc":
			if a.mode == "detail" {
				a.mode = "list"
				a.currentTask = nil
				return a, a.fetchTasks()
			}
			a.input.SetValue("")

		case "up":
			if a.suggestions.IsVisible() {
				a.suggestions.Prev()
			} else if a.mode == "list" && a.selectedIdx > 0 {
				a.selectedIdx--
			}
			return a, nil

		case "down":
			if a.suggestions.IsVisible() {
				a.suggestions.Next()
			} else if a.mode == "list" && a.selectedIdx < len(a.tasks)-1 {
				a.selectedIdx++
			}
			return a, nil

		case "tab":
			if a.suggestions.IsVisible() {
				if selected := a.suggestions.Selected(); selected != nil {
					a.input.SetValue(selected.Text + " ")
					a.input.CursorEnd()
					a.suggestions.Update("")
				}
				return a, nil
			}
			a.cycleView()
			return a, a.fetchTasks()

		case "enter":
			line := strings.TrimSpace(a.input.Value())
			if line != "" {
				a.input.SetValue("")
				a.suggestions.Update("")
				return a, a.executeCommand(line)
			}
			if a.mode == "list" && len(a.tasks) > 0 {
				task := a.tasks[a.selectedIdx]
				a.currentTask = &task
				a.mode = "detail"
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 4

	case tasksLoadedMsg:
		a.tasks = msg.tasks
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = max(0, len(a.tasks)-1)
		}
		a.refreshSuggestions()

	case commandResultMsg:
		a.message = msg.message
		if msg.view != "" {
			a.view = msg.view
			a.category = msg.category
			a.selectedIdx = 0
		}
		if msg.detail != nil {
			a.currentTask = msg.detail
			a.mode = "detail"
		}
		return a, a.fetchTasks()

	case quitMsg:
		return a, a.quit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	a.suggestions.Update(a.input.Value())

	return a, tea.Batch(cmds...)
}

func (a *App) cycleView() {
	next := 0
	for i, v := range cycleViews {
		if v == a.view {
			next = (i + 1) % len(cycleViews)
		}
	}
	a.view = cycleViews[next]
	a.selectedIdx = 0
}

// quit saves the session and stops the program. A save failure is
// returned from Run.
func (a *App) quit() tea.Cmd {
	if err := a.svc.Save(context.Background()); err != nil {
		a.saveErr = err
	}
	return tea.Quit
}

func (a *App) refreshSuggestions() {
	a.suggestions.SetCategories(a.svc.Categories())
	ids := make([]string, 0, len(a.tasks))
	for _, t := range a.tasks {
		ids = append(ids, strconv.Itoa(t.ID))
	}
	a.suggestions.SetTasks(ids)
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("TODO")
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("[%d tasks]", a.svc.Len()))
	header += "  " + mutedStyle.Render(a.svc.DataFile())
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", a.width) + "\n")

	contentHeight := a.height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case "list":
		b.WriteString(mutedStyle.Render(" View: ["+a.viewLabel()+"]") + "\n")
		b.WriteString(a.renderTaskList(contentHeight - 1))
	case "detail":
		b.WriteString(a.renderTaskDetail())
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(a.input.View()))

	if a.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(a.suggestions.Render(a.width))
	}
	b.WriteString("\n")

	var status string
	switch a.mode {
	case "list":
		status = fmt.Sprintf(" Tasks: %d | ↑↓:nav | Enter:detail | Tab:view | Ctrl+C:save & quit", len(a.tasks))
	default:
		status = " Esc:back | Enter:command | Ctrl+C:save & quit"
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) viewLabel() string {
	switch a.view {
	case viewPriority:
		return "BY PRIORITY"
	case viewPending:
		return "PENDING"
	case viewCategory:
		return "CATEGORY " + a.category
	default:
		return "ALL"
	}
}

func (a *App) renderTaskList(height int) string {
	if len(a.tasks) == 0 {
		if a.view == viewCategory {
			return "\n  No tasks found in category: " + a.category + "\n"
		}
		return "\n  No tasks found. Type: add <description> to create one.\n"
	}

	now := a.svc.Now()
	var lines []string
	for i, task := range a.tasks {
		text := fmt.Sprintf("%s %3d  P%d  %-10s  %-12s  %s",
			checkbox(task), task.ID, task.Priority,
			view.Relative(task, now), view.Truncate(task.Category, 12), task.Description)

		if i == a.selectedIdx {
			lines = append(lines, selectedStyle.Render("▶ "+text))
		} else {
			lines = append(lines, taskItemStyle.Render(a.styleRow(task, text)))
		}
	}

	// Limit visible lines
	if len(lines) > height {
		start := a.selectedIdx - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func (a *App) styleRow(task models.Task, text string) string {
	if task.Completed {
		return mutedStyle.Strikethrough(true).Render("  " + text)
	}
	if !models.ValidPriority(task.Priority) {
		return "  " + text
	}
	return "  " + priorityStyles[task.Priority].Render(text)
}

func checkbox(t models.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func (a *App) renderTaskDetail() string {
	if a.currentTask == nil {
		return "\n  Loading...\n"
	}

	var b strings.Builder
	t := a.currentTask
	label := lipgloss.NewStyle().Bold(true)

	b.WriteString("\n  " + label.Render(t.Description) + "\n\n")
	for _, line := range strings.Split(strings.TrimRight(view.Block(*t), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + mutedStyle.Render("Due "+view.Relative(*t, a.svc.Now())) + "\n")
	return b.String()
}

func (a *App) fetchTasks() tea.Cmd {
	viewName, category := a.view, a.category
	return func() tea.Msg {
		return tasksLoadedMsg{a.load(viewName, category)}
	}
}

func (a *App) load(viewName, category string) []models.Task {
	switch viewName {
	case viewPriority:
		return a.svc.ByPriority()
	case viewPending:
		var out []models.Task
		for t := range a.svc.Pending() {
			out = append(out, t)
		}
		return out
	case viewCategory:
		return a.svc.ByCategory(category)
	default:
		return a.svc.All()
	}
}

func (a *App) selectedID() int {
	if a.mode == "detail" && a.currentTask != nil {
		return a.currentTask.ID
	}
	if len(a.tasks) == 0 {
		return 0
	}
	return a.tasks[a.selectedIdx].ID
}

func (a *App) executeCommand(input string) tea.Cmd {
	input = strings.TrimPrefix(input, "/")
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := parts[0]
	args := parts[1:]
	// rest keeps the spacing of everything after the command word.
	rest := strings.TrimSpace(strings.TrimPrefix(input, cmd))
	selected := a.selectedID()
	inDetail := a.mode == "detail"
	ctx := context.Background()

	// #label and @id are shortcuts for "cat label" and "show id".
	switch {
	case strings.HasPrefix(cmd, "#") && len(cmd) > 1:
		rest = strings.TrimSpace(input[1:])
		cmd = "cat"
	case strings.HasPrefix(cmd, "@") && len(cmd) > 1:
		args = []string{cmd}
		cmd = "show"
	}

	return func() tea.Msg {
		switch cmd {
		case "add":
			req, err := ParseAdd(args, a.defaults)
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			msg := ""
			if !models.ValidPriority(req.Priority) {
				msg = "Priority must be between 1 and 5, set to 3. "
			}
			task := a.svc.AddTask(ctx, req.Description, req.Category, models.DueIn(a.svc.Now(), req.Days), req.Priority)
			return commandResultMsg{message: fmt.Sprintf("%s✓ Added task %d", msg, task.ID)}

		case "done", "complete":
			id, err := parseID(args, selected)
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			if err := a.svc.CompleteTask(ctx, id); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			res := commandResultMsg{message: fmt.Sprintf("✓ Task %d completed", id)}
			if inDetail {
				if task, err := a.svc.GetTask(id); err == nil {
					res.detail = &task
				}
			}
			return res

		case "rm", "remove":
			id, err := parseID(args, selected)
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			if err := a.svc.RemoveTask(ctx, id); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Task %d removed", id)}

		case "show":
			id, err := parseID(args, selected)
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			task, err := a.svc.GetTask(id)
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{detail: &task}

		case "all":
			return commandResultMsg{view: viewAll}
		case "priority":
			return commandResultMsg{view: viewPriority}
		case "pending":
			return commandResultMsg{view: viewPending}
		case "cat":
			if rest == "" {
				return commandResultMsg{message: "Usage: cat <category>"}
			}
			return commandResultMsg{view: viewCategory, category: rest}

		case "save":
			path := a.svc.DataFile()
			if rest != "" {
				path = rest
			}
			if err := a.svc.SaveAs(ctx, path); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: "✓ Tasks saved to " + path}

		case "q", "quit", "exit":
			return quitMsg{}

		default:
			return commandResultMsg{message: fmt.Sprintf("Unknown: %s (try: add, done, rm, cat, save, quit)", cmd)}
		}
	}
}

type commandResultMsg struct {
	message  string
	view     string
	category string
	detail   *models.Task
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type quitMsg struct{}
