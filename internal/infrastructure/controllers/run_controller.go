package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

// RunController handles the "run" subcommand (batch mode).
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Migrate every script repository of the configured organizations",
		Long: `Discover repositories and open a "feat: CLI" pull request on every
script repository (named "script-*") that has not been migrated yet.

It reads the configuration file, discovers repositories from each
configured provider and organization, then migrates them with the
configured concurrency. The shared lockfile is fetched only once.`,
	}
}

// Execute runs the batch migration.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	providerFilter, _ := cmd.Flags().GetString("provider")
	orgOverride, _ := cmd.Flags().GetString("org")

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			return fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create automigrate.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("Starting automigrate run...")

	return it.command.Execute(ctx, settings, commands.RunOptions{
		DryRun:       dryRun,
		Verbose:      verbose,
		ProviderName: providerFilter,
		OrgOverride:  orgOverride,
	})
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Only process this provider (github)")
	cmd.Flags().String("org", "", "Only process this organization/user")
}
