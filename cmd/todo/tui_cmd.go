package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/todo/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	app := tui.New(svc, tui.AddDefaults{
		Category: cfg.DefaultCategory,
		Days:     cfg.DefaultDueDays,
		Priority: cfg.DefaultPriority,
	})
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
