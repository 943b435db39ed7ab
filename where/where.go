// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tapedeck-cli/tapedeck/constant"
	"github.com/tapedeck-cli/tapedeck/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "TAPEDECK_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// App resolves the directory holding the running executable.
// Relative download folders and the cookie file are anchored here so that
// behavior does not depend on the working directory of the invoking shell.
func App() string {
	exe, err := os.Executable()
	if err != nil {
		return lo.Must(os.Getwd())
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}

// Downloads resolves the output directory for a run. Absolute folders are used
// as-is, relative ones are joined to App and an empty folder means App itself.
// The directory is not created here; the pipeline does that.
func Downloads(folder string) string {
	if folder == "" {
		return App()
	}

	if filepath.IsAbs(folder) {
		return filepath.Clean(folder)
	}

	return filepath.Join(App(), folder)
}

// Cookies resolves the Netscape-format cookie file stored beside the program.
func Cookies() string {
	return filepath.Join(App(), constant.CookieFilename)
}

// Ledger resolves the resumption ledger kept inside an output directory.
func Ledger(dir string) string {
	return filepath.Join(dir, constant.LedgerFilename)
}

// Lock resolves the lock file serializing renames inside an output directory.
func Lock(dir string) string {
	return filepath.Join(dir, constant.LockFilename)
}

// Config resolves the absolute path to the primary application configuration directory.
// Direct override: The path resolution can be explicitly specified via the TAPEDECK_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Tapedeck))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}
