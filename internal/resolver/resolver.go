package resolver

import (
	"github.com/spf13/afero"

	"github.com/ThandieOps/jestpath/internal/logger"
	"github.com/ThandieOps/jestpath/internal/pathutil"
	"github.com/ThandieOps/jestpath/internal/settings"
	"github.com/ThandieOps/jestpath/internal/workspace"
)

// Source tells which rule produced a config path.
type Source string

const (
	// SourceSetting: configPath was a single path.
	SourceSetting Source = "setting"
	// SourceGlob: a configPath glob entry matched the target.
	SourceGlob Source = "glob"
	// SourceSearch: a conventional config file was found on disk.
	SourceSearch Source = "search"
	// SourceFallback: nothing was found; ConfigPath is the project directory.
	SourceFallback Source = "fallback"
)

// ResolvedPaths is the outcome of one resolution.
type ResolvedPaths struct {
	// WorkingDir is the directory to start Jest in.
	WorkingDir string `json:"workingDir"`
	// ConfigPath is the value for --config, or the project directory when nothing
	// was resolved.
	ConfigPath string `json:"configPath"`
	// Resolved is false when ConfigPath is only the fallback directory and --config
	// should be omitted.
	Resolved bool   `json:"resolved"`
	Source   Source `json:"source"`
	// Pattern is the glob entry that matched, for SourceGlob.
	Pattern string `json:"pattern,omitempty"`
}

// ConfigResolver resolves Jest config paths. It holds no per-call state; every
// call works from the Snapshot and filesystem it is given.
type ConfigResolver struct {
	fs       afero.Fs
	matcher  Matcher
	notifier Notifier
	platform pathutil.Platform
}

// Option configures a ConfigResolver.
type Option func(*ConfigResolver)

// WithFs sets the filesystem probed by the upward search.
func WithFs(fs afero.Fs) Option {
	return func(r *ConfigResolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithMatcher replaces the glob matcher.
func WithMatcher(m Matcher) Option {
	return func(r *ConfigResolver) {
		if m != nil {
			r.matcher = m
		}
	}
}

// WithNotifier sets where the "no config found" warning goes.
func WithNotifier(n Notifier) Option {
	return func(r *ConfigResolver) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithPlatform forces a set of path rules instead of the host's.
func WithPlatform(p pathutil.Platform) Option {
	return func(r *ConfigResolver) {
		r.platform = p
	}
}

// New returns a ConfigResolver backed by the OS filesystem, doublestar globbing,
// the global logger for warnings, and the host's path rules.
func New(opts ...Option) *ConfigResolver {
	r := &ConfigResolver{
		fs:       afero.NewOsFs(),
		matcher:  GlobMatcher{},
		notifier: logNotifier{},
		platform: pathutil.Current(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveWorkingDirectory returns the project directory: the workspace root when
// projectPath is unset, projectPath itself when absolute, or projectPath joined
// onto the workspace root.
func (r *ConfigResolver) ResolveWorkingDirectory(ws workspace.Context, snap settings.Snapshot) string {
	switch {
	case snap.ProjectPath == "":
		return ws.Root
	case r.platform.IsAbs(snap.ProjectPath):
		return r.platform.Normalize(snap.ProjectPath)
	default:
		return r.platform.Join(ws.Root, snap.ProjectPath)
	}
}

// GetJestConfigPath returns the config path for targetFile. When nothing can be
// resolved it returns the project directory.
func (r *ConfigResolver) GetJestConfigPath(ws workspace.Context, snap settings.Snapshot, targetFile string) string {
	return r.Resolve(ws, snap, targetFile).ConfigPath
}

// Resolve computes the working directory and config path for targetFile. Without a
// usable configPath it searches upward from the directory holding targetFile.
func (r *ConfigResolver) Resolve(ws workspace.Context, snap settings.Snapshot, targetFile string) ResolvedPaths {
	projectDir := r.ResolveWorkingDirectory(ws, snap)
	res := ResolvedPaths{WorkingDir: projectDir}

	switch cp := snap.ConfigPath; {
	case cp.IsAbsent():
		logger.Debug("configPath not set", "project", projectDir)

	case cp.Kind == settings.ConfigPathSingle:
		res.ConfigPath = r.resolveSingle(projectDir, snap.ConfigPath.Path)
		res.Resolved = true
		res.Source = SourceSetting
		logger.Debug("config path from setting", "path", res.ConfigPath)
		return res

	case cp.Kind == settings.ConfigPathGlobMap:
		target := r.platform.ToSlash(targetFile)
		for _, entry := range snap.ConfigPath.Globs {
			if !r.matcher.Match(entry.Pattern, target) {
				continue
			}
			res.ConfigPath = r.resolveGlobValue(projectDir, entry.Path)
			res.Resolved = true
			res.Source = SourceGlob
			res.Pattern = entry.Pattern
			logger.Debug("config path from glob", "pattern", entry.Pattern, "path", res.ConfigPath)
			return res
		}
		logger.Debug("no configPath glob matched", "target", target, "patterns", len(snap.ConfigPath.Globs))
	}

	start := r.platform.Dir(r.platform.Normalize(targetFile))
	if found, ok := r.FindConfigPath(ws, start); ok {
		res.ConfigPath = found
		res.Resolved = true
		res.Source = SourceSearch
		return res
	}

	r.notifier.Warn("No Jest config file found between " + start + " and the workspace root; " +
		"running Jest without --config")
	res.ConfigPath = projectDir
	res.Source = SourceFallback
	return res
}

// resolveSingle renders a single configPath with native separators. Absolute paths
// are taken as-is, even outside the workspace.
func (r *ConfigResolver) resolveSingle(projectDir, configPath string) string {
	if r.platform.IsAbs(configPath) {
		return r.platform.Normalize(configPath)
	}
	return r.platform.Join(projectDir, configPath)
}

// resolveGlobValue renders a glob-map value with forward slashes.
func (r *ConfigResolver) resolveGlobValue(projectDir, configPath string) string {
	if r.platform.IsAbs(configPath) {
		return r.platform.ToSlash(configPath)
	}
	return r.platform.ToSlash(r.platform.Join(projectDir, configPath))
}
