package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/census/internal/paths"
	"github.com/mesh-intelligence/census/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CENSUS"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyLogLevel    = "log_level"
	cfgKeyMetricsFile = "metrics_file"

	// Read from CENSUS_BACKUP_PASSPHRASE; never written to config.yaml.
	cfgKeyBackupPassphrase = "backup_passphrase"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# census configuration

# Storage backend
backend: sqlite

# Survey database directory (overridden by --data-dir and CENSUS_DATA_DIR).
# A relative path is taken relative to this directory.
# data_dir:

# debug, info, warn or error
log_level: warn

# Write operation metrics here in Prometheus text format after each command.
# metrics_file:
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Every key can also be set through a CENSUS_
// environment variable, e.g. CENSUS_LOG_LEVEL.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
