package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/DataLens/internal/core"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var option string

	names := make([]string, len(core.Options))
	for i, o := range core.Options {
		names[i] = string(o)
	}

	cmd := &cobra.Command{
		Use:   "analyze <file.csv> --option <" + strings.Join(names, "|") + ">",
		Short: "Compute a per-column statistic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			result := core.Analyze(table, option)
			if msg := result.Err(); msg != "" {
				return fmt.Errorf("%s %q (use %s)", msg, option, strings.Join(names, ", "))
			}
			return encode(cmd.OutOrStdout(), root.output, map[string]any{"result": result})
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "statistic: "+strings.Join(names, ", "))
	cmd.MarkFlagRequired("option")
	return cmd
}
