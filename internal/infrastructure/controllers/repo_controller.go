package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/automigrate/internal/domain/commands"
	"github.com/rios0rios0/automigrate/internal/domain/entities"
)

// RepoController handles the "repo" subcommand (single repository mode).
type RepoController struct {
	command commands.Repo
}

// NewRepoController creates a new RepoController.
func NewRepoController(command commands.Repo) *RepoController {
	return &RepoController{command: command}
}

// GetBind returns the Cobra command metadata for the repo controller.
func (it *RepoController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "repo <owner/name | url>",
		Short: "Migrate a single script repository",
		Long: `Migrate one repository to the built-in @octoherd/cli entrypoint.
The repository can be given as owner/name or as an HTTPS/SSH GitHub URL.`,
	}
}

// Execute runs the single repository migration.
func (it *RepoController) Execute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	token, _ := cmd.Flags().GetString("token")
	cliVersion, _ := cmd.Flags().GetString("cli-version")

	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	result, err := it.command.Execute(ctx, commands.RepoOptions{
		Target:     target,
		DryRun:     dryRun,
		Verbose:    verbose,
		Token:      token,
		CLIVersion: cliVersion,
	})
	if err != nil {
		return err
	}

	logger.Debugf("Migration of %s finished with status %q", target, result.Status)
	return nil
}

// AddFlags adds the repo-specific flags to the given Cobra command.
func (it *RepoController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("cli-version", entities.DefaultCLIVersion, "@octoherd/cli version pinned in package.json")
}
