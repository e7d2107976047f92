package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/studytrackr/internal/export"
	"github.com/sadopc/studytrackr/internal/logging"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task to a CSV or JSON file",
	Long: `Export all tasks, pending and completed, to a file.

Without --out the file is named studytrackr-export-<date>.<format> and placed
in export_dir from the config (your home directory by default).

Examples:
  studytrackr export
  studytrackr export --format json --out backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", string(export.FormatCSV),
		"Output format: csv, json")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "",
		"Output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	path := flagExportOut
	if path == "" {
		dir, err := app.cfg.ResolveExportDir()
		if err != nil {
			return err
		}
		path = export.DefaultPath(dir, f, time.Now())
	}

	tasks, err := app.store.ListTasks()
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if err := export.Tasks(tasks, f, path); err != nil {
		slog.Error("export failed", logging.KeyOp, "export "+string(f), logging.KeyError, err)
		return err
	}

	slog.Info("exported tasks", "path", path, "count", len(tasks))
	cmd.Printf("Exported %d tasks to %s\n", len(tasks), path)
	return nil
}
