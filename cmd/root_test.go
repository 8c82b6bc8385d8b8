// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/internal/config"
	"github.com/wheelhouse-ai/wheelhouse/internal/controller"
	"github.com/wheelhouse-ai/wheelhouse/internal/observability"
)

// newTestRootCmd returns a pristine command with logging kept quiet and
// out of the working tree.
func newTestRootCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cfgFile = ""
	observability.ResetForTest()
	t.Setenv("WHEELHOUSE_LOGGER_LEVEL", "error")
	t.Setenv("WHEELHOUSE_LOGGER_LOG_FILE", filepath.Join(t.TempDir(), "wheelhouse.log"))
	return newRootCmd()
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmdVersionFlag(t *testing.T) {
	cmd := newTestRootCmd(t)

	out, err := runCommand(t, cmd, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestRootCmdNoArgsShowsHelp(t *testing.T) {
	cmd := newTestRootCmd(t)

	out, err := runCommand(t, cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Wheelhouse dispatches browser actions")
	assert.Contains(t, out, "actions")
	assert.Contains(t, out, "invoke")
}

func TestActionsCommand(t *testing.T) {
	cmd := newTestRootCmd(t)

	out, err := runCommand(t, cmd, "actions")
	require.NoError(t, err)

	// Verification: the table carries the built-in action set.
	assert.Contains(t, out, "ACTION")
	assert.Contains(t, out, "navigate")
	assert.Contains(t, out, "extract")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "upload_file")
}

func TestActionsCommandJSON(t *testing.T) {
	cmd := newTestRootCmd(t)

	out, err := runCommand(t, cmd, "actions", "--json")
	require.NoError(t, err)

	var listings []controller.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	require.NotEmpty(t, listings)

	// The printed listing must be exactly what the registry describes.
	// Normalize the expectation through the same codec so schema maps
	// compare on wire shape rather than Go literal types.
	wire, err := json.Marshal(controller.NewDefaultRegistry(zap.NewNop()).Describe())
	require.NoError(t, err)
	var want []controller.Listing
	require.NoError(t, json.Unmarshal(wire, &want))

	if diff := cmp.Diff(want, listings); diff != "" {
		t.Errorf("action listing drifted from the registry. Diff:\n%s", diff)
	}
}

func TestActionsCommandHonorsConfigExclusions(t *testing.T) {
	cmd := newTestRootCmd(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("controller:\n  excluded_actions:\n    - screenshot\n"), 0o644))

	out, err := runCommand(t, cmd, "--config", cfgPath, "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "navigate")
	assert.NotContains(t, out, "screenshot")
}

func TestInvokeRejectsUnknownActionBeforeBoot(t *testing.T) {
	cmd := newTestRootCmd(t)

	_, err := runCommand(t, cmd, "invoke", "definitely_not_an_action")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	cfgFile = ""
	t.Setenv("WHEELHOUSE_BROWSER_HEADLESS", "false")

	v := viper.New()
	config.SetDefaults(v)
	require.NoError(t, initializeConfig(v))

	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
}

func TestInitializeConfigExplicitFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("browser:\n  agent_frame_width: 640\n"), 0o644))
	cfgFile = cfgPath
	defer func() { cfgFile = "" }()

	v := viper.New()
	config.SetDefaults(v)
	require.NoError(t, initializeConfig(v))

	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Browser.AgentFrameWidth)
}

func TestConfigFromContextMissing(t *testing.T) {
	_, err := configFromContext(context.Background())
	require.Error(t, err)
}
