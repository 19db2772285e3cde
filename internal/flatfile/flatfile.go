// Package flatfile reads and writes the pipe-delimited task file.
//
// Each line holds one task:
//
//	id|description|category|due_date_epoch_seconds|priority|completed_as_0_or_1
//
// Lines appear in insertion order. Field values are written verbatim, so a
// description or category containing '|' or a newline cannot be read back.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fentz26/todo/internal/models"
)

const (
	separator = "|"
	numFields = 6
)

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Encode writes tasks to w, one line per task.
func Encode(w io.Writer, tasks []models.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		_, err := fmt.Fprintf(bw, "%d|%s|%s|%d|%d|%d\n",
			t.ID, t.Description, t.Category, t.DueDate, t.Priority, completed)
		if err != nil {
			return fmt.Errorf("write task %d: %w", t.ID, err)
		}
	}
	return bw.Flush()
}

// Decode reads tasks from r. Blank lines are skipped.
func Decode(r io.Reader) ([]models.Task, error) {
	var tasks []models.Task
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		t, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

func parseLine(text string) (models.Task, error) {
	fields := strings.Split(text, separator)
	if len(fields) != numFields {
		return models.Task{}, fmt.Errorf("expected %d fields, got %d", numFields, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return models.Task{}, fmt.Errorf("id: %w", err)
	}
	due, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return models.Task{}, fmt.Errorf("due date: %w", err)
	}
	priority, err := strconv.Atoi(fields[4])
	if err != nil {
		return models.Task{}, fmt.Errorf("priority: %w", err)
	}

	var completed bool
	switch fields[5] {
	case "0":
	case "1":
		completed = true
	default:
		return models.Task{}, fmt.Errorf("completed flag %q is not 0 or 1", fields[5])
	}

	return models.Task{
		ID:          id,
		Description: fields[1],
		Category:    fields[2],
		DueDate:     due,
		Priority:    priority,
		Completed:   completed,
	}, nil
}

// WriteFile replaces path with the encoded tasks. The data goes to a
// temporary file in the same directory first, so path ends up either fully
// written or untouched.
func WriteFile(path string, tasks []models.Task) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, tasks); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the task file at path. A missing file yields no tasks
// and no error.
func ReadFile(path string) ([]models.Task, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tasks, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}
