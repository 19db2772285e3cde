package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/todo/internal/flatfile"
	"github.com/fentz26/todo/internal/tracker"
)

func TestMenuSession(t *testing.T) {
	svc := newTestService(t)
	savePath := filepath.Join(t.TempDir(), "out.txt")

	input := strings.Join([]string{
		"1", "A", "Work", "3", "2",
		"1", "B", "Work", "1", "1",
		"1", "C", "Home", "2", "9",
		"3", "2",
		"2", "1",
		"2", "1",
		"8", savePath,
		"0",
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := New(svc, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Task added with ID: 1",
		"Task added with ID: 3",
		"Priority must be between 1 and 5. Setting to default (3).",
		"Task with ID 2 marked as completed.",
		"Task with ID 1 removed successfully.",
		"Task not found!",
		"Tasks saved to " + savePath,
		"Exiting program. Goodbye!",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q", want)
		}
	}

	saved, err := flatfile.ReadFile(savePath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("Expected 2 saved tasks, got %d", len(saved))
	}
	if !saved[0].Completed || saved[1].Priority != 3 {
		t.Errorf("Unexpected saved tasks %+v", saved)
	}
}

func TestMenuViews(t *testing.T) {
	svc := newTestService(t)
	svc.Seed(context.Background())

	input := "4\n5\nPersonal\n5\nNowhere\n6\n3\n1\n7\n0\n"
	var out bytes.Buffer
	if err := New(svc, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"=== ALL TASKS ===",
		"=== TASKS IN CATEGORY 'Personal' ===",
		"No tasks found in category: Nowhere",
		"=== TASKS BY PRIORITY ===",
		"=== PENDING TASKS ===",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q", want)
		}
	}

	// Task 1 was completed before the pending view, so it must not follow it.
	pending := text[strings.LastIndex(text, "=== PENDING TASKS ==="):]
	if strings.Contains(pending, "ID: 1\n") {
		t.Error("Completed task listed as pending")
	}

	// By priority, task 3 (priority 1) precedes task 1 (priority 2).
	byPri := text[strings.Index(text, "=== TASKS BY PRIORITY ==="):]
	if strings.Index(byPri, "ID: 3\n") > strings.Index(byPri, "ID: 1\n") {
		t.Error("Priority view out of order")
	}
}

func TestMenuInvalidInput(t *testing.T) {
	svc := newTestService(t)
	input := "abc\n42\n2\nnope\n7\n"

	var out bytes.Buffer
	if err := New(svc, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	if strings.Count(text, "Invalid choice. Please try again.") != 2 {
		t.Errorf("Expected two invalid choice notices in %q", text)
	}
	if !strings.Contains(text, "Please enter a whole number.") {
		t.Error("Expected a number re-prompt")
	}
	if !strings.Contains(text, "Task not found!") {
		t.Error("Expected not-found message for id 7")
	}
}

func TestMenuEOF(t *testing.T) {
	svc := newTestService(t)
	var out bytes.Buffer
	if err := New(svc, strings.NewReader("1\nhalf a task\n"), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run should end cleanly at EOF, got %v", err)
	}
	if svc.Len() != 0 {
		t.Errorf("Incomplete add must not create a task, got %d", svc.Len())
	}
}

func TestMenuSaveFailure(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	input := "8\n" + dir + "\n0\n"
	if err := New(svc, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Error writing file") {
		t.Errorf("Expected save error, got %q", out.String())
	}
}

func newTestService(t *testing.T) *tracker.Service {
	t.Helper()
	svc, err := tracker.Open(context.Background(), tracker.Options{
		Now: func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestMenuCancelWhileWaiting(t *testing.T) {
	svc := newTestService(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- New(svc, pr, io.Discard).Run(ctx)
	}()

	if _, err := io.WriteString(pw, "1\nA\nWork\n1\n2\n"); err != nil {
		t.Fatalf("write input: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for svc.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("Task was never added")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The menu is now blocked waiting for the next choice.
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if svc.Len() != 1 {
		t.Errorf("Expected the added task to survive, got %d tasks", svc.Len())
	}
}
