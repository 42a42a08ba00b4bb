package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shini4i/netspeedbar/internal/config"
)

// execute runs the root command with the given arguments and context.
func execute(ctx context.Context, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := writeConfig(t, `{"nrefresh": 4, "refresh_interval_ms": 500, "up_icon": "U"}`)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "-r", "200", "--interface", "eth0,wlan0"}))

	global := &globalFlags{configPath: path}
	overrides := config.DefaultConfig()
	overrides.RefreshIntervalMs = 200
	overrides.Interfaces = []string{"eth0", "wlan0"}

	cfg, err := resolveConfig(cmd, global, overrides)
	require.NoError(t, err)

	// From the file.
	assert.Equal(t, uint32(4), cfg.NRefresh)
	assert.Equal(t, "U", cfg.UpIcon)
	// From explicitly set flags.
	assert.Equal(t, uint64(200), cfg.RefreshIntervalMs)
	assert.Equal(t, []string{"eth0", "wlan0"}, cfg.Interfaces)
	// Defaults.
	assert.Equal(t, "↓", cfg.DownIcon)
	assert.Equal(t, config.DefaultIconList, cfg.AnimatedIconList)
}

func TestResolveConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, `{"animated_icons": true, "combine_icons": true}`)

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	cfg, err := resolveConfig(cmd, &globalFlags{configPath: path}, config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, cfg.AnimatedIcons)
	assert.True(t, cfg.CombineIcons)
}

func TestRoot_RejectsEmptyIconList(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := execute(context.Background(), "--config", path, "--animatediconlist", "")
	assert.ErrorIs(t, err, config.ErrEmptyIconList)
}

func TestRoot_RejectsSingleAnimatedIcon(t *testing.T) {
	path := writeConfig(t, `{}`)

	out, err := execute(context.Background(), "--config", path, "-a", "--animatediconlist", "█")
	assert.ErrorIs(t, err, config.ErrSingleIconAnimated)
	assert.Empty(t, out)
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	_, err := execute(context.Background(), "--config", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRoot_InvalidConfigFile(t *testing.T) {
	path := writeConfig(t, `{"nrefresh": 0}`)

	_, err := execute(context.Background(), "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRoot_CanceledContextExitsCleanly(t *testing.T) {
	path := writeConfig(t, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := execute(ctx, "--config", path, "-a", "-c")
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netspeedbar", "config.json")

	out, err := execute(context.Background(), "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = execute(context.Background(), "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(context.Background(), "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")

	out, err := execute(context.Background(), "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestConfigShow(t *testing.T) {
	path := writeConfig(t, `{"nrefresh": 7}`)

	out, err := execute(context.Background(), "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"nrefresh": 7`)
	assert.Contains(t, out, `"refresh_interval_ms": 1000`)
}

func TestVersion(t *testing.T) {
	out, err := execute(context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, "netspeedbar dev\n", out)
}

func TestRoot_IconListHelpStatesMinimum(t *testing.T) {
	flag := newRootCmd().Flags().Lookup("animatediconlist")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "must not be empty")
	assert.Contains(t, flag.Usage, "at least two glyphs with --animatedicons")
}
