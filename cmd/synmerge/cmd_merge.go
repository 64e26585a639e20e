package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/odvcencio/synmerge/pkg/semimerge"
)

func newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <left> <base> <right>",
		Short: "Three-way merge a single file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			ctx, err := semimerge.MergeFiles(args[0], args[1], args[2], output, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "" {
				fmt.Fprint(out, string(ctx.Output))
			}

			if ctx.ParseFallback {
				logrus.Warnf("%s: parse error, fell back to unstructured merge: %v", args[0], ctx.ParseErr)
			}

			if ctx.HasConflicts {
				fmt.Fprintln(cmd.ErrOrStderr(), "merge produced conflicts")
				os.Exit(1)
			}
			logrus.Debugf("merge completed cleanly: %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write merged result to this path instead of stdout")
	return cmd
}
