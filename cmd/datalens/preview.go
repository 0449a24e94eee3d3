package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/DataLens/internal/core"
)

func newPreviewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.csv>",
		Short: "Print the columns and first rows of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), root.output, core.BuildPreview(table))
		},
	}
}
