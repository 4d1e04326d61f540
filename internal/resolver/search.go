package resolver

import (
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/ThandieOps/jestpath/internal/logger"
	"github.com/ThandieOps/jestpath/internal/workspace"
)

// ConfigFileNames are probed in this order in every directory.
var ConfigFileNames = []string{
	"jest.config.js",
	"jest.config.mjs",
	"jest.config.cjs",
	"jest.config.ts",
	"jest.config.json",
}

// PackageJSON is probed last, and only counts when it has a "jest" key.
const PackageJSON = "package.json"

// FindConfigPath walks from start, normally the target file's directory, up to the
// workspace root (inclusive), or the filesystem root when start lies outside the
// workspace, and returns the first Jest config file found.
func (r *ConfigResolver) FindConfigPath(ws workspace.Context, start string) (string, bool) {
	dir := r.platform.Normalize(start)
	bounded := ws.Root != "" && r.platform.Within(ws.Root, dir)
	for {
		if found, ok := r.findConfigInDir(dir); ok {
			logger.Debug("found Jest config", "path", found)
			return found, true
		}

		if bounded && r.platform.Equal(dir, ws.Root) {
			break
		}
		parent := r.platform.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	logger.Debug("no Jest config found", "start", start, "workspace", ws.Root)
	return "", false
}

func (r *ConfigResolver) findConfigInDir(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		candidate := r.platform.Join(dir, name)
		if r.isFile(candidate) {
			return candidate, true
		}
	}

	candidate := r.platform.Join(dir, PackageJSON)
	if !r.isFile(candidate) {
		return "", false
	}
	data, err := afero.ReadFile(r.fs, candidate)
	if err != nil {
		logger.Debug("failed to read package.json", "path", candidate, "error", err)
		return "", false
	}
	if gjson.GetBytes(data, "jest").Exists() {
		return candidate, true
	}
	return "", false
}

func (r *ConfigResolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}
