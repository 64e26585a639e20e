package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/synmerge/pkg/semimerge"
)

func newMergeRevCmd() *cobra.Command {
	var output string
	var concurrencyFlag int

	cmd := &cobra.Command{
		Use:   "merge-rev <revisions-file>",
		Short: "Three-way merge the directory trees named in a revisions file (left/base/right paths, one per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, concurrency, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if concurrencyFlag > 0 {
				concurrency = concurrencyFlag
			}

			scenario, err := semimerge.MergeRevisions(args[0], output, cfg, concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "merging %s + %s -> %s\n", scenario.LeftDir, scenario.RightDir, scenario.BaseDir)
			conflicted := printDirectoryResults(out, scenario.Results)
			if conflicted > 0 {
				fmt.Fprintf(out, "merge completed with conflicts in %d file", conflicted)
				if conflicted != 1 {
					fmt.Fprint(out, "s")
				}
				fmt.Fprintln(out)
				os.Exit(1)
			}
			fmt.Fprintln(out, "merge completed cleanly")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write merged files into")
	cmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "j", 0, "bounded fan-out across files (overrides config)")
	return cmd
}
