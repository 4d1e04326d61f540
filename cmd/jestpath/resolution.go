package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ThandieOps/jestpath/internal/logger"
	"github.com/ThandieOps/jestpath/internal/pathutil"
	"github.com/ThandieOps/jestpath/internal/resolver"
	"github.com/ThandieOps/jestpath/internal/settings"
	"github.com/ThandieOps/jestpath/internal/workspace"
)

// resolution is what the CLI reports for one target file.
type resolution struct {
	Target          string           `json:"target"`
	Workspace       string           `json:"workspace"`
	WorkspaceSource workspace.Source `json:"workspaceSource"`
	SettingsFile    string           `json:"settingsFile"`
	resolver.ResolvedPaths

	snapshot settings.Snapshot
	warnings []string
}

// printWarnings writes the warnings raised while resolving r.
func (r *resolution) printWarnings(w io.Writer) {
	for _, message := range r.warnings {
		fmt.Fprintln(w, "warning:", message)
	}
}

// session resolves targets with one filesystem and one set of path rules.
type session struct {
	opts     *rootOptions
	platform pathutil.Platform
	fs       afero.Fs
}

// newSession checks the path rules to apply and prepares a session.
func (o *rootOptions) newSession() (*session, error) {
	platform, err := pathutil.Parse(o.cfg.Settings.Platform)
	if err != nil {
		return nil, err
	}
	if platform != pathutil.Current() && o.workspace == "" {
		return nil, fmt.Errorf("--workspace is required when applying %s path rules on this host", platform)
	}
	return &session{opts: o, platform: platform, fs: afero.NewOsFs()}, nil
}

// absolute makes p absolute under the session's path rules. Paths for the host are
// resolved against the current directory; foreign paths must already be absolute.
func (s *session) absolute(p string) (string, error) {
	if s.platform.IsAbs(p) {
		return s.platform.Normalize(p), nil
	}
	if s.platform != pathutil.Current() {
		return "", fmt.Errorf("%s is not an absolute %s path", p, s.platform)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	return abs, nil
}

// resolve takes a fresh settings snapshot and resolves target against it.
func (s *session) resolve(target string) (*resolution, error) {
	abs, err := s.absolute(target)
	if err != nil {
		return nil, err
	}

	wsOpts := workspace.Options{Default: s.opts.cfg.Workspace.Default}
	if s.opts.workspace != "" {
		if wsOpts.Explicit, err = s.absolute(s.opts.workspace); err != nil {
			return nil, err
		}
	}
	ws, err := workspace.Detect(abs, wsOpts)
	if err != nil {
		return nil, err
	}

	settingsFile := s.opts.settingsFile
	if settingsFile == "" {
		settingsFile = s.opts.cfg.SettingsPath(ws.Root)
	}
	snap, err := settings.Load(s.fs, settingsFile)
	if err != nil {
		return nil, err
	}
	snap = snap.WithOverrides(s.opts.projectPath, s.opts.configPath)

	logger.Debug("resolving target",
		"target", abs,
		"workspace", ws.Root,
		"workspace_source", ws.Source,
		"settings", settingsFile,
		"config_path_kind", snap.ConfigPath.Kind)

	res := &resolution{
		Target:          abs,
		Workspace:       ws.Root,
		WorkspaceSource: ws.Source,
		SettingsFile:    settingsFile,
		snapshot:        snap,
	}
	// Warnings are kept per target and printed by the caller.
	notifier := resolver.NotifierFunc(func(message string) {
		logger.Warn("jest config not found", "target", abs, "detail", message)
		res.warnings = append(res.warnings, message)
	})
	r := resolver.New(
		resolver.WithFs(s.fs),
		resolver.WithPlatform(s.platform),
		resolver.WithNotifier(notifier),
	)
	res.ResolvedPaths = r.Resolve(ws, snap, abs)
	return res, nil
}
