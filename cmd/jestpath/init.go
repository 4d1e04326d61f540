package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThandieOps/jestpath/internal/config"
	"github.com/ThandieOps/jestpath/internal/logger"
)

// newInitCmd builds `jestpath init`.
func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the jestpath configuration file",
		Long: `Initialize jestpath by creating a configuration file with your preferences.
This command will prompt you for configuration values with sensible defaults.`,
		Args: cobra.NoArgs,
		// An unreadable config file must not stop init from replacing it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Options{Level: opts.logLevel, JSON: opts.logJSON, Output: cmd.ErrOrStderr()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInit(cmd.InOrStdin(), cmd.OutOrStdout(), opts.configFile); err != nil {
				return fmt.Errorf("error initializing config: %w", err)
			}
			return nil
		},
	}
}

// runInit handles the interactive initialization process
func runInit(in io.Reader, out io.Writer, configFile string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	defaultConfigPath := configFile
	if defaultConfigPath == "" {
		if defaultConfigPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	defaults := config.Default()

	reader := bufio.NewReader(in)
	prompt := func(label, def string) string {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			return def
		}
		return input
	}
	expand := func(p string) string {
		if strings.HasPrefix(p, "~/") {
			return filepath.Join(homeDir, p[2:])
		}
		return p
	}

	configPath := expand(prompt("Config file location", defaultConfigPath))
	workspaceInput := prompt("Default workspace for files outside git (empty for none)", "")
	settingsFile := prompt("Editor settings file, relative to the workspace", defaults.Settings.File)
	logLevel := prompt("Log level", defaults.Logging.Level)

	cfg := defaults
	cfg.Workspace.Default = expand(workspaceInput)
	cfg.Settings.File = settingsFile
	cfg.Logging.Level = logLevel

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "\nConfig file already exists at %s\n", configPath)
		fmt.Fprint(out, "Overwrite? (y/N): ")
		overwriteInput, _ := reader.ReadString('\n')
		overwriteInput = strings.TrimSpace(strings.ToLower(overwriteInput))
		if overwriteInput != "y" && overwriteInput != "yes" {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}
	logger.Info("config file written", "path", configPath)

	fmt.Fprintf(out, "\n✓ Configuration file created at %s\n", configPath)
	return nil
}
