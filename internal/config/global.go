package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bridge/config.yml.
type GlobalConfig struct {
	RepoPath string `yaml:"repo_path,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bridge"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// EnvRepoPath overrides repo_path from the global config.
	EnvRepoPath = "BRIDGE_REPO"
	// EnvLogLevel overrides log_level from the global config.
	EnvLogLevel = "BRIDGE_LOG"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bridge/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file and applies environment overrides.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg := &GlobalConfig{}
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	if v := os.Getenv(EnvRepoPath); v != "" {
		cfg.RepoPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.RepoPath = ExpandPath(cfg.RepoPath)

	globalConfigCache = cfg
	return cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetRepoPath returns the configured default repository path.
func GetRepoPath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.RepoPath
}

// GetLogLevel returns the configured log level.
func GetLogLevel() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.LogLevel
}

// HelpfulConfigMessage returns a helpful message when no repository can be found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No crossdomain repository found.

Run 'bridge init' in a directory to create one, or create %s to set a default:
  mkdir -p %s
  echo 'repo_path: /path/to/your/repo' > %s

The %s environment variable overrides repo_path.`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		EnvRepoPath)
}
