// Package cmd provides the studytrackr command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sadopc/studytrackr/internal/config"
	"github.com/sadopc/studytrackr/internal/logging"
	"github.com/sadopc/studytrackr/internal/store"
	"github.com/sadopc/studytrackr/internal/tui"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagDB     string
	flagConfig string
	flagDebug  bool
)

// env is what PersistentPreRunE opens for the command being run.
type env struct {
	cfg   *config.Config
	store *store.Store
	logs  io.Closer
}

var app *env

var errNoTerminal = errors.New("the interactive tracker needs a terminal; use 'studytrackr export' for scripted use")

var rootCmd = &cobra.Command{
	Use:   "studytrackr",
	Short: "Plan study tasks, time them, and review what you finished",
	Long: `studytrackr is a terminal study planner.

Add tasks with a topic, a planned duration and a due date, tick them off as
you finish, run a countdown for the task you are working on, take timed
breaks, and browse your completed work grouped by day.

Examples:
  studytrackr
  studytrackr --db ~/notes/study.db
  studytrackr export --format csv --out tasks.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsSetup(cmd) {
			return nil
		}
		var err error
		app, err = openEnv()
		return err
	},
	RunE: runTUI,
}

// skipsSetup reports whether cmd runs without a database or log file.
func skipsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", "config":
			return true
		}
	}
	return false
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

func openEnv() (*env, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagDebug {
		cfg.Log.Level = "debug"
	}

	logger, logs, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		File:  cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("open database", logging.KeyOp, "open", logging.KeyError, err)
		logs.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger.Debug("environment ready", "db", cfg.DBPath, "version", Version)
	return &env{cfg: cfg, store: s, logs: logs}, nil
}

func (e *env) close() error {
	err := e.store.Close()
	if cerr := e.logs.Close(); err == nil {
		err = cerr
	}
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNoTerminal
	}

	dir, err := app.cfg.ResolveExportDir()
	if err != nil {
		return err
	}

	slog.Info("starting tui", "version", Version)
	p := tea.NewProgram(tui.NewApp(app.store, dir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("tui exited", logging.KeyError, err)
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// Execute runs the root command and releases whatever setup opened, also
// when the command failed.
func Execute() error {
	err := rootCmd.Execute()
	if app != nil {
		if cerr := app.close(); err == nil {
			err = cerr
		}
		app = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "",
		"Path to the SQLite database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Path to config.yaml (default $XDG_CONFIG_HOME/studytrackr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Log at debug level")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("studytrackr %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
