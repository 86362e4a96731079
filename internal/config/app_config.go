// Package config loads application configuration defaults for the vomit CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/vomit/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds dump command defaults merged from the
// global and local configuration files. Explicit CLI flags override both.
type ApplicationConfiguration struct {
	Dump DumpConfiguration `mapstructure:"dump"`
}

// DumpConfiguration defines defaults for a dump invocation.
type DumpConfiguration struct {
	Tree         *bool              `mapstructure:"tree"`
	Clipboard    *bool              `mapstructure:"clipboard"`
	Tokens       TokenConfiguration `mapstructure:"tokens"`
	IgnoreFile   string             `mapstructure:"ignore_file"`
	ContainsFile string             `mapstructure:"contains_file"`
}

// TokenConfiguration controls token reporting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global file in
// the user's home directory and the local file in the working directory,
// local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfig, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Dump = result.Dump.merge(override.Dump)
	return result
}

func (configuration DumpConfiguration) merge(override DumpConfiguration) DumpConfiguration {
	result := configuration
	if override.Tree != nil {
		result.Tree = cloneBool(override.Tree)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.IgnoreFile != "" {
		result.IgnoreFile = override.IgnoreFile
	}
	if override.ContainsFile != "" {
		result.ContainsFile = override.ContainsFile
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
