package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ThandieOps/jestpath/internal/config"
	"github.com/ThandieOps/jestpath/internal/logger"
)

// rootOptions holds the global flags and the configuration loaded from them.
type rootOptions struct {
	workspace    string
	settingsFile string
	configFile   string
	projectPath  string
	configPath   string
	platform     string
	logLevel     string
	logJSON      bool

	cfg *config.Config
}

// newRootCmd builds the `jestpath` command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jestpath",
		Short: "Jestpath finds the Jest config and working directory for a test file",
		Long: `Jestpath resolves which Jest configuration file applies to a test file and
which directory Jest should be started from. It reads the jestrunner.* editor
settings of the workspace (projectPath, configPath) and falls back to searching
upward for jest.config.* files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.workspace, "workspace", "w", "", "Workspace root (default: git worktree of the target)")
	flags.StringVar(&opts.settingsFile, "settings", "", "Editor settings file (default: <workspace>/.vscode/settings.json)")
	flags.StringVar(&opts.configFile, "config-file", "", "Jestpath config file (default: ~/.config/jestpath/config.yml)")
	flags.StringVar(&opts.projectPath, "project-path", "", "Override jestrunner.projectPath")
	flags.StringVar(&opts.configPath, "config-path", "", "Override jestrunner.configPath with a single path")
	flags.StringVar(&opts.platform, "platform", "", "Path rules to apply: posix or windows")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	_ = flags.MarkHidden("platform")

	cmd.AddCommand(
		newResolveCmd(opts),
		newCwdCmd(opts),
		newCommandCmd(opts),
		newInitCmd(opts),
	)
	return cmd
}

// setup loads the config file, applies flag overrides and initializes the logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logJSON {
		cfg.Logging.JSON = true
	}
	if o.platform != "" {
		cfg.Settings.Platform = o.platform
	}

	if err := logger.Init(logger.Options{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		ToFile: cfg.Logging.ToFile,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Logging.ToFile {
		if logPath, pathErr := logger.GetLogFilePath(); pathErr == nil {
			logger.Debug("logging configuration", "level", cfg.Logging.Level, "json", cfg.Logging.JSON, "log_path", logPath)
		}
	}

	o.cfg = cfg
	return nil
}

// Execute is called by main.main()
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		_ = logger.Close()
		os.Exit(1)
	}
}
