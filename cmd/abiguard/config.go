// Config loading for the abiguard CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyCatalog = "catalog"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# abiguard CLI configuration

# Path to the local shape catalog database.
# catalog: ~/.abiguard/catalog.db
`

type config struct {
	// CatalogPath is the SQLite database holding saved shapes.
	CatalogPath string
}

// loadConfig reads config.yaml from the abiguard config directory using
// Viper, creating the directory and a default file on first run. A
// missing config.yaml is not an error.
func loadConfig(path string) (*config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyCatalog, filepath.Join(configDir, "catalog.db"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := ensureConfigDir(configDir); err != nil {
			return nil, fmt.Errorf("ensure config dir: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return nil, fmt.Errorf("ensure default config: %w", err)
		}

		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &config{CatalogPath: expandHome(v.GetString(cfgKeyCatalog))}, nil
}

func resolveConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".abiguard"), nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
