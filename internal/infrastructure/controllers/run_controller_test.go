//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/automigrate/internal/infrastructure/controllers"
	"github.com/rios0rios0/automigrate/test/domain/commanddoubles"
)

func newCobraCommand(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("token", "", "")
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("verbose", false, "")
	_ = cmd.Flags().Parse(args)
	return cmd
}

func TestRunController(t *testing.T) {
	t.Parallel()

	t.Run("should load the config file and forward the flags", func(t *testing.T) {
		t.Parallel()

		// given
		configPath := filepath.Join(t.TempDir(), "automigrate.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(`
providers:
  - type: github
    token: ghp_inline
    organizations: [octoherd]
`), 0o600))
		stub := &commanddoubles.StubRunCommand{}
		controller := controllers.NewRunController(stub)
		cmd := newCobraCommand("--config", configPath, "--dry-run")
		controller.AddFlags(cmd)
		require.NoError(t, cmd.Flags().Parse([]string{"--org", "octoherd"}))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.True(t, stub.LastOpts.DryRun)
		assert.Equal(t, "octoherd", stub.LastOpts.OrgOverride)
		assert.Equal(t, "ghp_inline", stub.LastSettings.Providers[0].Token)
	})

	t.Run("should return error for invalid config files", func(t *testing.T) {
		t.Parallel()

		// given
		configPath := filepath.Join(t.TempDir(), "automigrate.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("providers: []\n"), 0o600))
		stub := &commanddoubles.StubRunCommand{}
		controller := controllers.NewRunController(stub)
		cmd := newCobraCommand("--config", configPath)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should propagate command errors", func(t *testing.T) {
		t.Parallel()

		// given
		configPath := filepath.Join(t.TempDir(), "automigrate.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(`
providers:
  - type: github
    token: ghp_inline
    organizations: [octoherd]
`), 0o600))
		stub := &commanddoubles.StubRunCommand{ExecuteErr: errors.New("2 errors during run")}
		controller := controllers.NewRunController(stub)
		cmd := newCobraCommand("--config", configPath)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.EqualError(t, err, "2 errors during run")
	})
}

func TestRepoController(t *testing.T) {
	t.Parallel()

	t.Run("should forward the target and flags", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubRepoCommand{}
		controller := controllers.NewRepoController(stub)
		cmd := newCobraCommand("--token", "ghp_test", "--dry-run")
		controller.AddFlags(cmd)
		require.NoError(t, cmd.Flags().Parse([]string{"--cli-version", "3.0.0"}))

		// when
		err := controller.Execute(cmd, []string{"octoherd/script-foo"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "octoherd/script-foo", stub.LastOpts.Target)
		assert.Equal(t, "ghp_test", stub.LastOpts.Token)
		assert.Equal(t, "3.0.0", stub.LastOpts.CLIVersion)
		assert.True(t, stub.LastOpts.DryRun)
	})

	t.Run("should default the CLI version", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubRepoCommand{}
		controller := controllers.NewRepoController(stub)
		cmd := newCobraCommand()
		controller.AddFlags(cmd)

		// when
		err := controller.Execute(cmd, []string{"octoherd/script-foo"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.7.1", stub.LastOpts.CLIVersion)
	})
}
