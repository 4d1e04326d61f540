package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCwdCmd builds `jestpath cwd <file>`.
func newCwdCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cwd <file>",
		Short: "Print the directory Jest should be started from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.newSession()
			if err != nil {
				return err
			}
			res, err := sess.resolve(args[0])
			if err != nil {
				return err
			}
			res.printWarnings(cmd.ErrOrStderr())
			fmt.Fprintln(cmd.OutOrStdout(), res.WorkingDir)
			return nil
		},
	}
}
