package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/todo/internal/config"
	"github.com/fentz26/todo/internal/tracker"
	"github.com/fentz26/todo/internal/view"
)

var historyCmd = &cobra.Command{
	Use:   "history <task-id>",
	Short: "Show the journal events for a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Copy tasks to and from the SQLite database",
}

var dbPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Store the current tasks as the database snapshot",
	Args:  cobra.NoArgs,
	RunE:  runDBPush,
}

var dbPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the data file with the database snapshot",
	Args:  cobra.NoArgs,
	RunE:  runDBPull,
}

func init() {
	dbCmd.AddCommand(dbPushCmd, dbPullCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd.Context(), false, func(svc *tracker.Service) error {
		events, err := svc.History(cmd.Context(), id)
		if err != nil {
			return journalErr(err)
		}
		if len(events) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No events for task %d\n", id)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tOUTCOME\tDETAILS\tEVENT")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Local().Format(time.DateTime), e.Action, e.Outcome,
				view.Truncate(e.Details, 32), e.ID[:8])
		}
		return w.Flush()
	})
}

func runDBPush(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), false, func(svc *tracker.Service) error {
		n, err := svc.PushSnapshot(cmd.Context())
		if err != nil {
			return journalErr(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d tasks to %s\n", n, cfg.DBPath)
		return nil
	})
}

func runDBPull(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), true, func(svc *tracker.Service) error {
		n, err := svc.PullSnapshot(cmd.Context())
		if err != nil {
			return journalErr(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d tasks from %s\n", n, cfg.DBPath)
		return nil
	})
}

func journalErr(err error) error {
	if errors.Is(err, tracker.ErrNoJournal) {
		return fmt.Errorf("%w (set --db, db_path or %s)", err, config.EnvDBPath)
	}
	return err
}
