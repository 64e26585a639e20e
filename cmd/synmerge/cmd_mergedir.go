package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/odvcencio/synmerge/pkg/semimerge"
)

func newMergeDirCmd() *cobra.Command {
	var output string
	var concurrencyFlag int

	cmd := &cobra.Command{
		Use:   "merge-dir <left-dir> <base-dir> <right-dir>",
		Short: "Three-way merge every file across three directory trees",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, concurrency, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if concurrencyFlag > 0 {
				concurrency = concurrencyFlag
			}

			results, err := semimerge.MergeDirectories(args[0], args[1], args[2], output, cfg, concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			conflicted := printDirectoryResults(out, results)
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

func printDirectoryResults(out io.Writer, results []semimerge.DirectoryResult) int {
	conflicted := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "  %s: ERROR — %v\n", r.RelPath, r.Err)
			logrus.Errorf("%s: %v", r.RelPath, r.Err)
		case r.Context.FastForward:
			fmt.Fprintf(out, "  %s: clean (fast-forward)\n", r.RelPath)
		case r.Context.HasConflicts:
			fmt.Fprintf(out, "  %s: CONFLICT\n", r.RelPath)
			conflicted++
		default:
			fmt.Fprintf(out, "  %s: clean\n", r.RelPath)
		}
		if r.Context != nil && r.Context.ParseFallback {
			logrus.Warnf("%s: parse error, fell back to unstructured merge: %v", r.RelPath, r.Context.ParseErr)
		}
	}
	return conflicted
}
