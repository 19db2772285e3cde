package tui

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fentz26/todo/internal/flatfile"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/tracker"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dataFile := filepath.Join(t.TempDir(), "tasks.txt")
	svc, err := tracker.Open(context.Background(), tracker.Options{
		DataFile: dataFile,
		Now:      func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	svc.Seed(context.Background())

	a := New(svc, AddDefaults{Category: "General", Days: 7, Priority: 3})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	a.Update(a.fetchTasks()())
	return a, dataFile
}

// run executes a command line the way enter does and reloads the list.
func run(a *App, line string) tea.Msg {
	msg := a.executeCommand(line)()
	_, cmd := a.Update(msg)
	if _, ok := msg.(commandResultMsg); ok && cmd != nil {
		a.Update(cmd())
	}
	return msg
}

func TestAppAdd(t *testing.T) {
	a, _ := newTestApp(t)

	run(a, "add Buy milk #Home !1 +2")
	if !strings.Contains(a.message, "Added task 5") {
		t.Errorf("Expected add confirmation, got %q", a.message)
	}
	task, err := a.svc.GetTask(5)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	want := models.Task{ID: 5, Description: "Buy milk", Category: "Home", DueDate: models.DueIn(fixedNow, 2), Priority: 1}
	if task != want {
		t.Errorf("Expected %+v, got %+v", want, task)
	}
	if len(a.tasks) != 5 {
		t.Errorf("Expected list reload with 5 tasks, got %d", len(a.tasks))
	}

	run(a, "/add Clamp !9")
	if !strings.Contains(a.message, "set to 3") {
		t.Errorf("Expected clamp notice, got %q", a.message)
	}
	if task, _ := a.svc.GetTask(6); task.Priority != models.PriorityDefault {
		t.Errorf("Expected default priority, got %d", task.Priority)
	}

	run(a, "add")
	if !strings.HasPrefix(a.message, "Error") {
		t.Errorf("Expected usage error, got %q", a.message)
	}
}

func TestAppDoneAndRemoveSelected(t *testing.T) {
	a, _ := newTestApp(t)

	a.Update(tea.KeyMsg{Type: tea.KeyDown})
	if a.selectedIdx != 1 {
		t.Fatalf("Expected selection 1, got %d", a.selectedIdx)
	}

	run(a, "done")
	if task, _ := a.svc.GetTask(2); !task.Completed {
		t.Error("Expected selected task 2 to be completed")
	}

	run(a, "rm")
	if _, err := a.svc.GetTask(2); err == nil {
		t.Error("Expected task 2 removed")
	}
	if len(a.tasks) != 3 {
		t.Errorf("Expected 3 tasks listed, got %d", len(a.tasks))
	}

	run(a, "rm 99")
	if !strings.HasPrefix(a.message, "Error") {
		t.Errorf("Expected not found error, got %q", a.message)
	}
}

func TestAppViews(t *testing.T) {
	a, _ := newTestApp(t)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a.Update(cmd())
	if a.view != viewPriority {
		t.Fatalf("Expected priority view, got %s", a.view)
	}
	var ids []int
	for _, task := range a.tasks {
		ids = append(ids, task.ID)
	}
	if want := []int{3, 1, 2, 4}; !slices.Equal(ids, want) {
		t.Errorf("Expected order %v, got %v", want, ids)
	}

	run(a, "done 3")
	run(a, "pending")
	if a.view != viewPending || len(a.tasks) != 3 {
		t.Errorf("Expected 3 pending tasks, got %d in %s", len(a.tasks), a.view)
	}

	run(a, "#Personal")
	if a.view != viewCategory || a.category != "Personal" || len(a.tasks) != 2 {
		t.Errorf("Expected 2 Personal tasks, got %d in %s/%s", len(a.tasks), a.view, a.category)
	}
	if !strings.Contains(a.View(), "CATEGORY Personal") {
		t.Error("Expected category label in view")
	}

	run(a, "cat Nowhere")
	if !strings.Contains(a.View(), "No tasks found in category: Nowhere") {
		t.Error("Expected empty category notice")
	}

	run(a, "all")
	if len(a.tasks) != 4 {
		t.Errorf("Expected 4 tasks, got %d", len(a.tasks))
	}
}

func TestAppDetail(t *testing.T) {
	a, _ := newTestApp(t)

	run(a, "@3")
	if a.mode != "detail" || a.currentTask == nil || a.currentTask.ID != 3 {
		t.Fatalf("Expected detail of task 3, got mode %s", a.mode)
	}
	if !strings.Contains(a.View(), "Pay phone bill") {
		t.Error("Expected task description in detail view")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.mode != "list" {
		t.Errorf("Expected list mode after esc, got %s", a.mode)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.mode != "detail" || a.currentTask.ID != 1 {
		t.Error("Expected enter on empty input to open the selected task")
	}
}

func TestAppSaveAndQuit(t *testing.T) {
	a, dataFile := newTestApp(t)

	other := filepath.Join(t.TempDir(), "other.txt")
	run(a, "save "+other)
	if saved, err := flatfile.ReadFile(other); err != nil || len(saved) != 4 {
		t.Errorf("Expected 4 tasks in %s, got %d (%v)", other, len(saved), err)
	}

	run(a, "done 1")
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected quit after ctrl+c")
	}
	saved, err := flatfile.ReadFile(dataFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(saved) != 4 || !saved[0].Completed {
		t.Errorf("Expected autosaved tasks, got %+v", saved)
	}
}

func TestAppQuitCommand(t *testing.T) {
	a, dataFile := newTestApp(t)

	msg := a.executeCommand("q")()
	if _, ok := msg.(quitMsg); !ok {
		t.Fatalf("Expected quitMsg, got %T", msg)
	}
	a.Update(msg)
	if saved, _ := flatfile.ReadFile(dataFile); len(saved) != 4 {
		t.Errorf("Expected 4 saved tasks, got %d", len(saved))
	}
	if a.saveErr != nil {
		t.Errorf("Unexpected save error: %v", a.saveErr)
	}
}

func TestAppSuggestionAccept(t *testing.T) {
	a, _ := newTestApp(t)

	a.input.SetValue("#Fi")
	a.suggestions.Update(a.input.Value())
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := a.input.Value(); got != "#Finance " {
		t.Errorf("Expected accepted suggestion, got %q", got)
	}
	if a.view != viewAll {
		t.Error("Tab with suggestions must not cycle views")
	}
}

func TestAppDoneRefreshesDetail(t *testing.T) {
	a, _ := newTestApp(t)

	run(a, "@2")
	if a.mode != "detail" || a.currentTask.ID != 2 {
		t.Fatalf("Expected detail of task 2, got mode %s", a.mode)
	}

	run(a, "done")
	if !a.currentTask.Completed {
		t.Error("Expected the open task to show as completed")
	}
	if !strings.Contains(a.View(), "Status: Completed") {
		t.Error("Expected detail view to show the new status")
	}
}

func TestAppCategoryWithSpaces(t *testing.T) {
	a, _ := newTestApp(t)
	a.svc.AddTask(context.Background(), "Plan trip", "My  Trips", 0, 2)
	a.Update(a.fetchTasks()())

	a.input.SetValue("#My")
	a.suggestions.Update(a.input.Value())
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := a.input.Value(); got != "#My  Trips " {
		t.Fatalf("Expected accepted suggestion, got %q", got)
	}

	run(a, strings.TrimSpace(a.input.Value()))
	if a.view != viewCategory || a.category != "My  Trips" {
		t.Fatalf("Expected category view of %q, got %s/%q", "My  Trips", a.view, a.category)
	}
	if len(a.tasks) != 1 || a.tasks[0].Description != "Plan trip" {
		t.Errorf("Expected the one task in the category, got %+v", a.tasks)
	}

	run(a, "cat My  Trips")
	if a.category != "My  Trips" {
		t.Errorf("Expected cat to keep the label spacing, got %q", a.category)
	}
}
