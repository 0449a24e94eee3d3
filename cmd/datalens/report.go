package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/DataLens/internal/report"
)

func newReportCmd() *cobra.Command {
	var (
		format   string
		outPath  string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "report <file.csv>",
		Short: "Write a PDF or XLSX report",
		Long:  `Writes the dataset report. Without -o the file is named report_<YYYYMMDD_HHMMSS>.<ext> in the current directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := report.ForFormat(format, compress)
			if err != nil {
				return err
			}

			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			doc := report.Build(table)
			doc.Created = time.Now()

			data, err := report.Render(renderer, doc)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = report.FileName(doc.Created, renderer.Extension())
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, report %s)\n", outPath, len(data), doc.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "report format: pdf or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path")
	cmd.Flags().BoolVar(&compress, "compress", true, "compress PDF content streams")
	return cmd
}
