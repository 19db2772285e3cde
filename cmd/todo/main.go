package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fentz26/todo/internal/config"
	"github.com/fentz26/todo/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - a personal task tracker",
	Long: `todo tracks tasks with a category, a due date and a priority from 1
(highest) to 5. Tasks live in a plain pipe-delimited file; an optional
SQLite database keeps a journal of every change.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	dataFile   string
	dbPath     string
	logLevel   string

	cfg    *config.Config
	logger *log.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.todo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "Task data file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite journal database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, fatal)")

	// Add subcommands
	rootCmd.AddCommand(addCmd, removeCmd, completeCmd, listCmd, showCmd, saveCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd, dbCmd)
}

// loadConfig reads the config file and environment, then applies any
// flags given on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		c.DataFile = dataFile
	}
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		c.LogLevel = logLevel
	}

	cfg = c
	logger = logging.FromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	logger.Debug("config loaded", "file", cfg.DataFile, "db", cfg.DBPath)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
