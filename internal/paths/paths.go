// Package paths resolves where asciipinyin keeps its configuration file and
// its dictionary data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "asciipinyin"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ASCIIPINYIN_CONFIG_DIR"
	EnvDataDir   = "ASCIIPINYIN_DATA_DIR"
)

// platformDir holds platform-detection functions that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $env/asciipinyin, or ~/<fallback...>/asciipinyin when env
// is unset.
func xdgDir(env string, fallback ...string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
//	Linux:   $XDG_CONFIG_HOME/asciipinyin (fallback ~/.config/asciipinyin)
//	macOS:   ~/Library/Application Support/asciipinyin
//	Windows: %APPDATA%/asciipinyin
func DefaultConfigDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// DefaultDataDir returns the platform-specific data directory. Outside
// Linux it shares the configuration directory.
//
//	Linux:   $XDG_DATA_HOME/asciipinyin (fallback ~/.local/share/asciipinyin)
func DefaultDataDir() (string, error) {
	if platformDir.goos == "linux" {
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	}
	return DefaultConfigDir()
}

// ResolveConfigDir applies flag > ASCIIPINYIN_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > ASCIIPINYIN_DATA_DIR > data_dir from the
// config file > DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, os.Getenv(EnvDataDir), configValue} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	return DefaultDataDir()
}

// ConfigFile returns the path of the configuration file in configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
