// Package menu runs the numbered, prompt-driven task menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/tracker"
	"github.com/fentz26/todo/internal/view"
)

const banner = `
=== TODO LIST MENU ===
1. Add Task
2. Remove Task
3. Mark Task as Completed
4. View All Tasks
5. View Tasks by Category
6. View Tasks by Priority
7. View Pending Tasks
8. Save Tasks to File
0. Exit
Enter your choice: `

// Menu reads choices from in and writes prompts and results to out.
type Menu struct {
	svc   *tracker.Service
	in    io.Reader
	out   io.Writer
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// New creates a Menu for svc.
func New(svc *tracker.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{svc: svc, in: in, out: out}
}

// errEOF ends the loop when input runs out.
var errEOF = errors.New("end of input")

// Run loops until the user chooses 0, input ends or ctx is cancelled.
// Cancellation returns ctx.Err() without waiting for the pending read.
func (m *Menu) Run(ctx context.Context) error {
	m.lines = make(chan inputLine)
	done := make(chan struct{})
	defer close(done)
	go m.scan(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(m.out, banner)
		line, err := m.readLine(ctx)
		if err != nil {
			if errors.Is(err, errEOF) {
				fmt.Fprintln(m.out)
				return nil
			}
			return err
		}

		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			fmt.Fprintln(m.out, "Invalid choice. Please try again.")
			continue
		}
		if choice == 0 {
			fmt.Fprintln(m.out, "Exiting program. Goodbye!")
			return nil
		}
		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, errEOF) {
				fmt.Fprintln(m.out)
				return nil
			}
			return err
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case 1:
		return m.add(ctx)
	case 2:
		id, err := m.promptInt(ctx, "Enter task ID to remove: ")
		if err != nil {
			return err
		}
		if err := m.svc.RemoveTask(ctx, id); err != nil {
			fmt.Fprintln(m.out, "Task not found!")
			return nil
		}
		fmt.Fprintf(m.out, "Task with ID %d removed successfully.\n", id)
	case 3:
		id, err := m.promptInt(ctx, "Enter task ID to mark as completed: ")
		if err != nil {
			return err
		}
		if err := m.svc.CompleteTask(ctx, id); err != nil {
			fmt.Fprintln(m.out, "Task not found!")
			return nil
		}
		fmt.Fprintf(m.out, "Task with ID %d marked as completed.\n", id)
	case 4:
		view.Blocks(m.out, "ALL TASKS", "No tasks found.", m.svc.All())
	case 5:
		category, err := m.prompt(ctx, "Enter category to view: ")
		if err != nil {
			return err
		}
		view.Blocks(m.out, fmt.Sprintf("TASKS IN CATEGORY '%s'", category),
			"No tasks found in category: "+category, m.svc.ByCategory(category))
	case 6:
		view.Blocks(m.out, "TASKS BY PRIORITY", "No tasks found.", m.svc.ByPriority())
	case 7:
		m.pending()
	case 8:
		path, err := m.prompt(ctx, "Enter filename to save tasks: ")
		if err != nil {
			return err
		}
		if err := m.svc.SaveAs(ctx, strings.TrimSpace(path)); err != nil {
			fmt.Fprintf(m.out, "Error writing file: %v\n", err)
			return nil
		}
		fmt.Fprintf(m.out, "Tasks saved to %s\n", strings.TrimSpace(path))
	default:
		fmt.Fprintln(m.out, "Invalid choice. Please try again.")
	}
	return nil
}

func (m *Menu) add(ctx context.Context) error {
	desc, err := m.prompt(ctx, "Enter task description: ")
	if err != nil {
		return err
	}
	category, err := m.prompt(ctx, "Enter category: ")
	if err != nil {
		return err
	}
	days, err := m.promptInt(ctx, "Enter days until due: ")
	if err != nil {
		return err
	}
	priority, err := m.promptInt(ctx, "Enter priority (1-5, where 1 is highest): ")
	if err != nil {
		return err
	}

	if !models.ValidPriority(priority) {
		fmt.Fprintln(m.out, "Priority must be between 1 and 5. Setting to default (3).")
	}
	task := m.svc.AddTask(ctx, desc, category, models.DueIn(m.svc.Now(), days), priority)
	fmt.Fprintf(m.out, "Task added with ID: %d\n", task.ID)
	return nil
}

func (m *Menu) pending() {
	fmt.Fprintln(m.out, "=== PENDING TASKS ===")
	found := false
	for t := range m.svc.Pending() {
		fmt.Fprintln(m.out, view.Block(t))
		found = true
	}
	if !found {
		fmt.Fprintln(m.out, "No pending tasks found.")
	}
}

func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readLine(ctx)
}

// promptInt asks until the answer parses as an integer.
func (m *Menu) promptInt(ctx context.Context, label string) (int, error) {
	for {
		line, err := m.prompt(ctx, label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(m.out, "Please enter a whole number.")
	}
}

// scan feeds lines from in to readLine. A read blocked on in outlives Run
// until in returns.
func (m *Menu) scan(done <-chan struct{}) {
	sc := bufio.NewScanner(m.in)
	for sc.Scan() {
		select {
		case m.lines <- inputLine{text: sc.Text()}:
		case <-done:
			return
		}
	}

	err := errEOF
	if scanErr := sc.Err(); scanErr != nil {
		err = fmt.Errorf("read input: %w", scanErr)
	}
	select {
	case m.lines <- inputLine{err: err}:
	case <-done:
	}
}

func (m *Menu) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-m.lines:
		return l.text, l.err
	}
}
