package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pmachovec/asciipinyin/internal/paths"
	"github.com/pmachovec/asciipinyin/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "ASCIIPINYIN"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeySyncStrategy = "sync_strategy"
	cfgKeyLang         = "lang"
	cfgKeyLogLevel     = "log_level"
	cfgKeyLogFormat    = "log_format"
)

// configFile is the layout of config.yaml written on first run.
type configFile struct {
	Backend      string `yaml:"backend"`
	DataDir      string `yaml:"data_dir,omitempty"`
	SyncStrategy string `yaml:"sync_strategy"`
	Lang         string `yaml:"lang,omitempty"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:      types.BackendSQLite,
		SyncStrategy: types.SyncImmediate,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. ASCIIPINYIN_<KEY> environment variables
// override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}

	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogFormat, def.LogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	def := defaultConfigFile()
	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// dictionaryConfig builds the backend config. The data directory follows
// flag > ASCIIPINYIN_DATA_DIR > data_dir > platform default.
func (a *app) dictionaryConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:      a.config.GetString(cfgKeyBackend),
		DataDir:      dataDir,
		SyncStrategy: a.config.GetString(cfgKeySyncStrategy),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
