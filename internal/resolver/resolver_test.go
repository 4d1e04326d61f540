package resolver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThandieOps/jestpath/internal/pathutil"
	"github.com/ThandieOps/jestpath/internal/settings"
	"github.com/ThandieOps/jestpath/internal/workspace"
)

// recorder collects warnings shown to the user.
type recorder struct {
	messages []string
}

func (r *recorder) Warn(message string) {
	r.messages = append(r.messages, message)
}

func newTestResolver(platform pathutil.Platform, fs afero.Fs, n Notifier) *ConfigResolver {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return New(WithPlatform(platform), WithFs(fs), WithNotifier(n))
}

func TestResolveWorkingDirectory(t *testing.T) {
	tests := []struct {
		name        string
		platform    pathutil.Platform
		root        string
		projectPath string
		want        string
	}{
		{"windows absolute with backslash", pathutil.Windows, `C:\project`, `C:\project\jestProject`, `C:\project\jestProject`},
		{"windows absolute with slash", pathutil.Windows, `C:\project`, "C:/project/jestProject", `C:\project\jestProject`},
		{"windows relative", pathutil.Windows, `C:\project`, "./jestProject", `C:\project\jestProject`},
		{"linux absolute", pathutil.POSIX, "/home/user/project", "/home/user/project/jestProject", "/home/user/project/jestProject"},
		{"linux relative", pathutil.POSIX, "/home/user/project", "./jestProject", "/home/user/project/jestProject"},
		{"linux absolute ignores workspace", pathutil.POSIX, "/home/user/project", "/opt/elsewhere/./app", "/opt/elsewhere/app"},
		{"unset", pathutil.POSIX, "/home/user/project", "", "/home/user/project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.platform, nil, nil)
			ws := workspace.Context{Root: tt.root}
			got := r.ResolveWorkingDirectory(ws, settings.Snapshot{ProjectPath: tt.projectPath})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetJestConfigPath_single(t *testing.T) {
	tests := []struct {
		name        string
		platform    pathutil.Platform
		root        string
		projectPath string
		configPath  string
		target      string
		want        string
	}{
		{
			"configPath is an absolute path", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			"/home/user/workspace/jestProject/jest.config.js",
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jestProject/jest.config.js",
		},
		{
			"configPath is a relative path", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			"./jest.config.js",
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jestProject/jest.config.js",
		},
		{
			"configPath is a relative path, projectPath is not set", pathutil.POSIX,
			"/home/user/workspace", "",
			"./jest.config.js",
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jest.config.js",
		},
		{
			"absolute configPath outside the workspace is kept", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			"/etc/jest/shared.config.js",
			"/home/user/workspace/jestProject/src/index.test.js",
			"/etc/jest/shared.config.js",
		},
		{
			"windows absolute path (with \\)", pathutil.Windows,
			`C:\workspace`, "./jestProject",
			`C:\workspace\jestProject\jest.config.js`,
			`C:\workspace\jestProject\src\index.test.js`,
			`C:\workspace\jestProject\jest.config.js`,
		},
		{
			"windows absolute path (with /)", pathutil.Windows,
			`C:\workspace`, "./jestProject",
			"C:/workspace/jestProject/jest.config.js",
			`C:\workspace\jestProject\src\index.test.js`,
			`C:\workspace\jestProject\jest.config.js`,
		},
		{
			"windows relative path", pathutil.Windows,
			`C:\workspace`, "./jestProject",
			"./jest.config.js",
			`C:\workspace\jestProject\src\index.test.js`,
			`C:\workspace\jestProject\jest.config.js`,
		},
		{
			"windows relative path, projectPath is not set", pathutil.Windows,
			`C:\workspace`, "",
			"./jest.config.js",
			`C:\workspace\jestProject\src\index.test.js`,
			`C:\workspace\jest.config.js`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := &recorder{}
			r := newTestResolver(tt.platform, nil, warnings)
			snap := settings.Snapshot{
				ProjectPath: tt.projectPath,
				ConfigPath:  settings.Single(tt.configPath),
			}

			res := r.Resolve(workspace.Context{Root: tt.root}, snap, tt.target)
			assert.Equal(t, tt.want, res.ConfigPath)
			assert.True(t, res.Resolved)
			assert.Equal(t, SourceSetting, res.Source)
			assert.Empty(t, warnings.messages)
			assert.Equal(t, tt.want, r.GetJestConfigPath(workspace.Context{Root: tt.root}, snap, tt.target))
		})
	}
}

func TestGetJestConfigPath_globMap(t *testing.T) {
	firstWins := settings.GlobMap(
		settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"},
		settings.GlobEntry{Pattern: "**/*.spec.js", Path: "./jest.unit-config.js"},
		settings.GlobEntry{Pattern: "**/*.it.spec.js", Path: "./jest.it-config.js"},
	)

	tests := []struct {
		name        string
		platform    pathutil.Platform
		root        string
		projectPath string
		configPath  settings.ConfigPathSetting
		target      string
		want        string
		pattern     string
	}{
		{
			"matched glob specifies an absolute path", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: "/home/user/workspace/jestProject/jest.config.js"}),
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jestProject/jest.config.js",
			"**/*.test.js",
		},
		{
			"matched glob specifies a relative path", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"}),
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jestProject/jest.config.js",
			"**/*.test.js",
		},
		{
			"matched glob specifies a relative path, projectPath is not set", pathutil.POSIX,
			"/home/user/workspace", "",
			settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"}),
			"/home/user/workspace/jestProject/src/index.test.js",
			"/home/user/workspace/jest.config.js",
			"**/*.test.js",
		},
		{
			"first matched glob takes precedence", pathutil.POSIX,
			"/home/user/workspace", "./jestProject",
			firstWins,
			"/home/user/workspace/jestProject/src/index.it.spec.js",
			"/home/user/workspace/jestProject/jest.unit-config.js",
			"**/*.spec.js",
		},
		{
			"earlier overlapping pattern wins", pathutil.POSIX,
			"/home/user/workspace", "",
			settings.GlobMap(
				settings.GlobEntry{Pattern: "**/*.spec.js", Path: "./unit.config.js"},
				settings.GlobEntry{Pattern: "**/*.it.spec.js", Path: "./it.config.js"},
			),
			"/home/user/workspace/src/a.it.spec.js",
			"/home/user/workspace/unit.config.js",
			"**/*.spec.js",
		},
		{
			"windows absolute value rendered with slashes", pathutil.Windows,
			`C:\workspace`, "./jestProject",
			settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: `C:\workspace\jestProject\jest.config.js`}),
			`C:\workspace\jestProject\src\index.test.js`,
			"C:/workspace/jestProject/jest.config.js",
			"**/*.test.js",
		},
		{
			"windows relative value rendered with slashes", pathutil.Windows,
			`C:\workspace`, "./jestProject",
			settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"}),
			`C:\workspace\jestProject\src\index.test.js`,
			"C:/workspace/jestProject/jest.config.js",
			"**/*.test.js",
		},
		{
			"windows pattern matches a slash-rooted path", pathutil.Windows,
			`C:\workspace`, "",
			settings.GlobMap(settings.GlobEntry{Pattern: "C:/workspace/packages/*/src/**/*.test.js", Path: "C:/workspace/jest.packages.js"}),
			`C:\workspace\packages\core\src\deep\a.test.js`,
			"C:/workspace/jest.packages.js",
			"C:/workspace/packages/*/src/**/*.test.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := &recorder{}
			r := newTestResolver(tt.platform, nil, warnings)
			snap := settings.Snapshot{ProjectPath: tt.projectPath, ConfigPath: tt.configPath}

			res := r.Resolve(workspace.Context{Root: tt.root}, snap, tt.target)
			assert.Equal(t, tt.want, res.ConfigPath)
			assert.True(t, res.Resolved)
			assert.Equal(t, SourceGlob, res.Source)
			assert.Equal(t, tt.pattern, res.Pattern)
			assert.Empty(t, warnings.messages)
		})
	}
}

func TestResolve_globOrderStopsAtFirstMatch(t *testing.T) {
	var seen []string
	matcher := MatcherFunc(func(pattern, path string) bool {
		seen = append(seen, pattern)
		return pattern != "a"
	})
	r := New(WithPlatform(pathutil.POSIX), WithFs(afero.NewMemMapFs()), WithMatcher(matcher))
	snap := settings.Snapshot{ConfigPath: settings.GlobMap(
		settings.GlobEntry{Pattern: "a", Path: "./a.js"},
		settings.GlobEntry{Pattern: "b", Path: "./b.js"},
		settings.GlobEntry{Pattern: "c", Path: "./c.js"},
	)}

	res := r.Resolve(workspace.Context{Root: "/ws"}, snap, "/ws/x.test.js")
	assert.Equal(t, "/ws/b.js", res.ConfigPath)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestResolve_globNoMatchFallsBackToSearch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/user/workspace/jestProject/jest.config.ts", []byte("export default {}"), 0o644))
	warnings := &recorder{}
	r := newTestResolver(pathutil.POSIX, fs, warnings)
	snap := settings.Snapshot{
		ProjectPath: "./jestProject",
		ConfigPath: settings.GlobMap(
			settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"},
			settings.GlobEntry{Pattern: "**/*.it.spec.js", Path: "./jest.it-config.js"},
		),
	}

	res := r.Resolve(workspace.Context{Root: "/home/user/workspace"}, snap, "/home/user/workspace/jestProject/src/index.unit.spec.js")
	assert.Equal(t, "/home/user/workspace/jestProject/jest.config.ts", res.ConfigPath)
	assert.Equal(t, SourceSearch, res.Source)
	assert.True(t, res.Resolved)
	assert.Empty(t, warnings.messages)
}

func TestResolve_fallbackWarnsAndReturnsProjectDir(t *testing.T) {
	warnings := &recorder{}
	r := newTestResolver(pathutil.POSIX, afero.NewMemMapFs(), warnings)
	snap := settings.Snapshot{ProjectPath: "./projectPath"}

	res := r.Resolve(workspace.Context{Root: "/home/user/workspace"}, snap, "/home/user/workspace/projectPath/src/a.test.js")
	assert.Equal(t, "/home/user/workspace/projectPath", res.ConfigPath)
	assert.Equal(t, "/home/user/workspace/projectPath", res.WorkingDir)
	assert.False(t, res.Resolved)
	assert.Equal(t, SourceFallback, res.Source)
	require.Len(t, warnings.messages, 1)
	assert.Contains(t, warnings.messages[0], "/home/user/workspace/projectPath")
}

func TestResolve_searchStartsAtTargetDirectory(t *testing.T) {
	tests := []struct {
		name     string
		platform pathutil.Platform
		root     string
		files    []string
		target   string
		want     string
		resolved bool
	}{
		{
			name:     "package config below an unset project path",
			platform: pathutil.POSIX,
			root:     "/ws",
			files:    []string{"/ws/packages/a/jest.config.js"},
			target:   "/ws/packages/a/src/x.test.js",
			want:     "/ws/packages/a/jest.config.js",
			resolved: true,
		},
		{
			name:     "nearest config wins over the workspace root",
			platform: pathutil.POSIX,
			root:     "/ws",
			files:    []string{"/ws/jest.config.js", "/ws/packages/a/jest.config.ts"},
			target:   "/ws/packages/a/src/deep/x.test.ts",
			want:     "/ws/packages/a/jest.config.ts",
			resolved: true,
		},
		{
			name:     "sibling package config is not used",
			platform: pathutil.POSIX,
			root:     "/ws",
			files:    []string{"/ws/packages/b/jest.config.js", "/ws/jest.config.cjs"},
			target:   "/ws/packages/a/src/x.test.js",
			want:     "/ws/jest.config.cjs",
			resolved: true,
		},
		{
			name:     "config above the workspace root is ignored",
			platform: pathutil.POSIX,
			root:     "/ws",
			files:    []string{"/jest.config.js"},
			target:   "/ws/packages/a/src/x.test.js",
			want:     "/ws",
		},
		{
			name:     "windows package config",
			platform: pathutil.Windows,
			root:     `C:\ws`,
			files:    []string{`C:\ws\packages\a\jest.config.js`},
			target:   `C:\ws\packages\a\src\x.test.js`,
			want:     `C:\ws\packages\a\jest.config.js`,
			resolved: true,
		},
		{
			name:     "windows stops at a differently cased workspace root",
			platform: pathutil.Windows,
			root:     `C:\WS`,
			files:    []string{`C:\jest.config.js`},
			target:   `C:/ws/pkg/x.test.js`,
			want:     `C:\WS`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for _, f := range tt.files {
				require.NoError(t, afero.WriteFile(fs, f, []byte("module.exports = {}"), 0o644))
			}
			warnings := &recorder{}
			r := newTestResolver(tt.platform, fs, warnings)

			res := r.Resolve(workspace.Context{Root: tt.root}, settings.Snapshot{}, tt.target)
			assert.Equal(t, tt.want, res.ConfigPath)
			assert.Equal(t, tt.root, res.WorkingDir)
			assert.Equal(t, tt.resolved, res.Resolved)
			if tt.resolved {
				assert.Equal(t, SourceSearch, res.Source)
				assert.Empty(t, warnings.messages)
			} else {
				assert.Equal(t, SourceFallback, res.Source)
				assert.Len(t, warnings.messages, 1)
			}
		})
	}
}

func TestResolve_endToEnd(t *testing.T) {
	t.Run("glob map with project path", func(t *testing.T) {
		r := newTestResolver(pathutil.POSIX, nil, nil)
		snap := settings.Snapshot{
			ProjectPath: "./jestProject",
			ConfigPath:  settings.GlobMap(settings.GlobEntry{Pattern: "**/*.test.js", Path: "./jest.config.js"}),
		}
		res := r.Resolve(workspace.Context{Root: "/home/user/workspace"}, snap, "/home/user/workspace/jestProject/src/index.test.js")
		assert.Equal(t, "/home/user/workspace/jestProject/jest.config.js", res.ConfigPath)
		assert.Equal(t, "/home/user/workspace/jestProject", res.WorkingDir)
	})

	t.Run("search finds mjs", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/home/user/workspace/jestProject/jest.config.mjs", []byte("export default {}"), 0o644))
		r := newTestResolver(pathutil.POSIX, fs, nil)
		snap := settings.Snapshot{ProjectPath: "./jestProject"}
		res := r.Resolve(workspace.Context{Root: "/home/user/workspace"}, snap, "/home/user/workspace/jestProject/src/index.test.js")
		assert.Equal(t, "/home/user/workspace/jestProject/jest.config.mjs", res.ConfigPath)
		assert.Equal(t, SourceSearch, res.Source)
	})
}

func TestNew_defaults(t *testing.T) {
	r := New(WithFs(nil), WithMatcher(nil), WithNotifier(nil))
	assert.NotNil(t, r.fs)
	assert.IsType(t, GlobMatcher{}, r.matcher)
	assert.IsType(t, logNotifier{}, r.notifier)
	assert.Equal(t, pathutil.Current(), r.platform)
}
