package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/filedb/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigFile points at the configuration document
	EnvConfigFile = "FILEDB_CONFIG"

	// EnvLogFile overrides the log file location
	EnvLogFile = "FILEDB_LOG_FILE"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name used under each XDG base directory
	AppDirName = "filedb"

	// ConfigFileName is the default configuration file name
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "filedb.log"

	// DefaultRootDir is the archive root used when none is configured
	DefaultRootDir = "output"
)

// ConfigFile returns the configuration file path. An explicit path wins over
// FILEDB_CONFIG, which wins over $XDG_CONFIG_HOME/filedb/config.toml.
func ConfigFile(explicit string) string {
	if explicit != "" {
		return ExpandHome(explicit)
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return ExpandHome(env)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// LogFile returns the log file path.
func LogFile() string {
	if env := os.Getenv(EnvLogFile); env != "" {
		return ExpandHome(env)
	}
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return filepath.Join(stateDir, AppDirName, LogFileName)
	}
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// DefaultRoot returns the absolute archive root used when the configuration has none.
func DefaultRoot() (string, error) {
	abs, err := filepath.Abs(DefaultRootDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to resolve default archive root")
	}
	return abs, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := os.Getenv(EnvHome)
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return path
		}
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
