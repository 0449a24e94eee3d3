package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/DataLens/internal/core"
	"github.com/JonMunkholm/DataLens/internal/logging"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	output   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "datalens",
		Short:         "Preview, analyze and report on CSV datasets",
		Long:          `DataLens reads a CSV file with a header row and prints a preview, a per-column statistic, or writes a PDF/XLSX report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
			default:
				return fmt.Errorf("unsupported --output %q (use json|yaml)", opts.output)
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "O", "json", "output format: json or yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newPreviewCmd(opts),
		newAnalyzeCmd(opts),
		newReportCmd(),
	)
	return cmd
}

// loadTable parses the CSV file at path.
func loadTable(path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := core.ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	slog.Debug("dataset parsed", "file", path, "rows", table.NumRows(), "columns", table.NumCols())
	return table, nil
}

// encode writes v to w as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
