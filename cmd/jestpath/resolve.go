package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// newResolveCmd builds `jestpath resolve <file>...`.
func newResolveCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Print the working directory and Jest config for test files",
		Long: `Resolve each test file to the directory Jest should run in and the path to
pass as --config. When no config can be found the project directory is reported
and a warning is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := resolveAll(opts, cmd.ErrOrStderr(), args)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			printResolutions(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// resolveAll resolves targets concurrently. Results and their warnings keep the
// order of targets.
func resolveAll(opts *rootOptions, errOut io.Writer, targets []string) ([]*resolution, error) {
	sess, err := opts.newSession()
	if err != nil {
		return nil, err
	}

	results := make([]*resolution, len(targets))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, target := range targets {
		g.Go(func() error {
			res, err := sess.resolve(target)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, res := range results {
		res.printWarnings(errOut)
	}
	return results, nil
}

func printResolutions(w io.Writer, results []*resolution) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "target:      %s\n", res.Target)
		fmt.Fprintf(w, "workspace:   %s (%s)\n", res.Workspace, res.WorkspaceSource)
		fmt.Fprintf(w, "working dir: %s\n", res.WorkingDir)
		if res.Resolved {
			fmt.Fprintf(w, "config:      %s (%s)\n", res.ConfigPath, describeSource(res))
		} else {
			fmt.Fprintf(w, "config:      none, Jest will search from %s\n", res.ConfigPath)
		}
	}
}

func describeSource(res *resolution) string {
	if res.Pattern != "" {
		return fmt.Sprintf("%s %s", res.Source, res.Pattern)
	}
	return string(res.Source)
}
