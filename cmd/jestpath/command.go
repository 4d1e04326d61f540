package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ThandieOps/jestpath/internal/command"
)

// newCommandCmd builds `jestpath command <file>`.
func newCommandCmd(opts *rootOptions) *cobra.Command {
	var (
		testName string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "command <file>",
		Short: "Print the Jest command line for a test file",
		Long: `Print a shell line that changes to the resolved working directory and runs
Jest on the file, using jestrunner.jestCommand and jestrunner.runOptions.
--config is only passed when a config file was resolved.`,
		Args: cobra.ExactArgs(1),
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

			argv, err := command.Build(command.Invocation{
				JestCommand: res.snapshot.JestCommand,
				TargetFile:  res.Target,
				Paths:       res.ResolvedPaths,
				TestName:    testName,
				RunOptions:  res.snapshot.RunOptions,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Dir  string   `json:"dir"`
					Argv []string `json:"argv"`
				}{res.WorkingDir, argv})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s && %s\n",
				command.Preview([]string{"cd", res.WorkingDir}), command.Preview(argv))
			return nil
		},
	}

	cmd.Flags().StringVarP(&testName, "test-name", "t", "", "Only run tests matching this name")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the directory and argv as JSON")
	return cmd
}
