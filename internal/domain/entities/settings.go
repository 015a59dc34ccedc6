package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the top-level configuration for automigrate.
type Settings struct {
	Providers []ProviderConfig `yaml:"providers"`
	Migration MigrationConfig  `yaml:"migration"`
}

// ProviderConfig describes a single Git hosting provider instance.
type ProviderConfig struct {
	Type          string   `yaml:"type"`          // "github"
	Token         string   `yaml:"token"`         // Inline, ${ENV_VAR}, or file path
	Organizations []string `yaml:"organizations"` // Org or user names
}

// MigrationConfig holds the migration runtime settings.
type MigrationConfig struct {
	CLIVersion   string `yaml:"cli_version"`
	Concurrency  int    `yaml:"concurrency"`
	SkipExisting bool   `yaml:"skip_existing"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables, resolving token file paths and applying defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for i := range settings.Providers {
		settings.Providers[i].Token = resolveToken(settings.Providers[i].Token)
	}
	applyDefaults(&settings)

	if validateErr := validateSettings(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".automigrate.yaml",
		".automigrate.yml",
		"automigrate.yaml",
		"automigrate.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func applyDefaults(settings *Settings) {
	if settings.Migration.CLIVersion == "" {
		settings.Migration.CLIVersion = DefaultCLIVersion
	}
	if settings.Migration.Concurrency == 0 {
		settings.Migration.Concurrency = 1
	}
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if resolved == "" {
		return resolved
	}

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func validateSettings(settings *Settings) error {
	if len(settings.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	for i, p := range settings.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if p.Token == "" {
			return fmt.Errorf(
				"providers[%d].token is required (set inline, via ${ENV_VAR}, or as file path)",
				i,
			)
		}
		if len(p.Organizations) == 0 {
			return fmt.Errorf(
				"providers[%d].organizations must have at least one entry",
				i,
			)
		}
	}

	if _, err := CLIVersionRange(settings.Migration.CLIVersion); err != nil {
		return fmt.Errorf("migration.cli_version: %w", err)
	}
	if settings.Migration.Concurrency < 0 {
		return errors.New("migration.concurrency must not be negative")
	}

	return nil
}
