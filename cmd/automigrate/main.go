package main

import (
	"os"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/automigrate/internal"
)

// flagged is implemented by controllers with their own flags.
type flagged interface {
	AddFlags(cmd *cobra.Command)
}

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "automigrate",
		Short: "Fleet migration of octoherd scripts to the built-in CLI",
		Long: `Migrates script repositories (named "script-*") to run directly via
"npx @octoherd/<repo>". For every eligible repository it opens a pull request
with four commits: the cli.js entrypoint, the package.json dependencies,
a lock file stamped from a shared one, and the script/README adaptations.

Usage modes:
  automigrate repo owner/script-name   Migrate a single repository
  automigrate run                      Batch mode using a config file (cronjob)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"Auth token for the Git provider (overrides env var detection)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without making changes")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			RunE: func(command *cobra.Command, arguments []string) error {
				return controller.Execute(command, arguments)
			},
		}

		if withFlags, ok := controller.(flagged); ok {
			withFlags.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	// tokens may live in a .env file in the working directory
	_ = godotenv.Load()

	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	appContext, err := injectAppContext()
	if err != nil {
		logger.Fatalf("Error starting 'automigrate': %s", err)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, appContext)

	if err = cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'automigrate': %s", err)
	}
}
