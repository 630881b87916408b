// Package config loads projtree configuration files and writes the default template.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/projtree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults a run starts from before flags are applied.
type ApplicationConfiguration struct {
	Output    string                 `mapstructure:"output"`
	Exclude   []string               `mapstructure:"exclude"`
	Copy      *bool                  `mapstructure:"copy"`
	Gitignore GitignoreConfiguration `mapstructure:"gitignore"`
}

// GitignoreConfiguration controls the .gitignore update step.
type GitignoreConfiguration struct {
	Update   *bool    `mapstructure:"update"`
	Patterns []string `mapstructure:"patterns"`
}

// OutputOrDefault returns the configured output file name or the built-in default.
func (config ApplicationConfiguration) OutputOrDefault() string {
	if config.Output == "" {
		return utils.DefaultOutputFileName
	}
	return config.Output
}

// CopyEnabled reports whether the rendered tree should be copied to the clipboard.
func (config ApplicationConfiguration) CopyEnabled() bool {
	return config.Copy != nil && *config.Copy
}

// GitignoreUpdateEnabled reports whether .gitignore should be updated. Defaults to true.
func (config ApplicationConfiguration) GitignoreUpdateEnabled() bool {
	return config.Gitignore.Update == nil || *config.Gitignore.Update
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones; missing files are not an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, explicit := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, explicit)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	merged.Gitignore.Patterns = utils.DeduplicatePatterns(merged.Gitignore.Patterns)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		return utils.ResolveAgainst(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), false
}

// loadConfigurationFromPath reads one configuration file. A missing file yields an
// empty configuration unless the path was requested explicitly.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	result.Gitignore = result.Gitignore.merge(override.Gitignore)
	return result
}

func (config GitignoreConfiguration) merge(override GitignoreConfiguration) GitignoreConfiguration {
	result := config
	if override.Update != nil {
		result.Update = cloneBool(override.Update)
	}
	if len(override.Patterns) > 0 {
		result.Patterns = append([]string{}, override.Patterns...)
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
