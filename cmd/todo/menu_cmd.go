package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/todo/internal/menu"
	"github.com/fentz26/todo/internal/tracker"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the numbered interactive menu",
	Long: `Runs the numbered task menu on stdin. Tasks are saved to the data file
on exit, including when the menu is interrupted with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

var demo bool

func init() {
	menuCmd.Flags().BoolVar(&demo, "demo", false, "Start with sample tasks when the task list is empty")
}

func runMenu(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), true, func(svc *tracker.Service) error {
		if demo && svc.Len() == 0 {
			svc.Seed(cmd.Context())
		}
		err := menu.New(svc, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.OutOrStdout(), "\nInterrupted. Saving tasks.")
			return nil
		}
		return err
	})
}
