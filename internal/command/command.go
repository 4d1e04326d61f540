// Package command assembles the Jest command line for a resolved target.
package command

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"

	"github.com/ThandieOps/jestpath/internal/resolver"
)

// DefaultJestCommand is used when the jestCommand setting is empty.
const DefaultJestCommand = "npx --no-install jest"

// Invocation describes one Jest run.
type Invocation struct {
	// JestCommand is split with shell quoting rules. Empty means DefaultJestCommand.
	JestCommand string
	TargetFile  string
	Paths       resolver.ResolvedPaths
	// TestName becomes -t when set.
	TestName   string
	RunOptions []string
}

// Build returns the argv for inv. --config is only added when the config path was
// resolved; otherwise Jest does its own lookup from the working directory.
func Build(inv Invocation) ([]string, error) {
	jestCommand := inv.JestCommand
	if jestCommand == "" {
		jestCommand = DefaultJestCommand
	}
	argv, err := shellquote.Split(jestCommand)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jest command %q: %w", jestCommand, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("jest command is empty")
	}

	if inv.TargetFile != "" {
		argv = append(argv, inv.TargetFile)
	}
	if inv.Paths.Resolved && inv.Paths.ConfigPath != "" {
		argv = append(argv, "--config", inv.Paths.ConfigPath)
	}
	if inv.TestName != "" {
		argv = append(argv, "-t", inv.TestName)
	}
	argv = append(argv, inv.RunOptions...)
	return argv, nil
}

// Preview renders argv as a single shell-quoted line.
func Preview(argv []string) string {
	return shellquote.Join(argv...)
}
