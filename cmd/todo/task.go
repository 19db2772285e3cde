package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/tracker"
	"github.com/fentz26/todo/internal/view"
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <task-id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var saveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Write all tasks to another file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

var (
	addCategory string
	addDays     int
	addDue      string
	addPriority int

	listCategory   string
	listByPriority bool
	listPending    bool
)

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category label (default from config)")
	addCmd.Flags().IntVarP(&addDays, "days", "d", 0, "Days until due (default from config)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date as YYYY-MM-DD")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 0, "Priority 1-5, 1 is highest (default from config)")
	addCmd.MarkFlagsMutuallyExclusive("days", "due")

	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only tasks in this category")
	listCmd.Flags().BoolVar(&listByPriority, "by-priority", false, "Order by priority, then due date")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only tasks not yet completed")
	listCmd.MarkFlagsMutuallyExclusive("category", "by-priority", "pending")
}

func runAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	description := strings.Join(args, " ")

	category := cfg.DefaultCategory
	if flags.Changed("category") {
		category = addCategory
	}
	priority := cfg.DefaultPriority
	if flags.Changed("priority") {
		priority = addPriority
	}

	return withSession(cmd.Context(), true, func(svc *tracker.Service) error {
		due := models.DueIn(svc.Now(), cfg.DefaultDueDays)
		switch {
		case flags.Changed("due"):
			d, err := parseDue(addDue)
			if err != nil {
				return err
			}
			due = d
		case flags.Changed("days"):
			due = models.DueIn(svc.Now(), addDays)
		}

		task := svc.AddTask(cmd.Context(), description, category, due, priority)
		fmt.Fprintf(cmd.OutOrStdout(), "Task added with ID: %d\n", task.ID)
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd.Context(), true, func(svc *tracker.Service) error {
		if err := svc.RemoveTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task with ID %d removed successfully.\n", id)
		return nil
	})
}

func runComplete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd.Context(), true, func(svc *tracker.Service) error {
		if err := svc.CompleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task with ID %d marked as completed.\n", id)
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), false, func(svc *tracker.Service) error {
		var tasks []models.Task
		switch {
		case cmd.Flags().Changed("category"):
			tasks = svc.ByCategory(listCategory)
		case listByPriority:
			tasks = svc.ByPriority()
		case listPending:
			for t := range svc.Pending() {
				tasks = append(tasks, t)
			}
		default:
			tasks = svc.All()
		}

		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
			return nil
		}
		return view.Table(cmd.OutOrStdout(), tasks)
	})
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd.Context(), false, func(svc *tracker.Service) error {
		task, err := svc.GetTask(id)
		if err != nil {
			return err
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
		fmt.Fprintln(cmd.OutOrStdout(), box.Render(strings.TrimRight(view.Block(task), "\n")))
		fmt.Fprintln(cmd.OutOrStdout(), "Due", view.Relative(task, svc.Now()))
		return nil
	})
}

func runSave(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), false, func(svc *tracker.Service) error {
		if err := svc.SaveAs(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tasks saved to %s\n", args[0])
		return nil
	})
}

// --- Helpers ---

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// parseDue parses a YYYY-MM-DD date as midnight UTC.
func parseDue(s string) (int64, error) {
	t, err := time.Parse(view.DateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid --due %q, want YYYY-MM-DD", s)
	}
	return t.Unix(), nil
}
