package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineclamp/pkg/clamp"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clampit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.NativeClamp())
}

func TestLoadProfile(t *testing.T) {
	t.Setenv("CLAMP_LINES", "4")
	path := writeProfile(t, `
viewport:
  width: 320
log_level: debug
native_line_clamp: false
fonts:
  regular: /fonts/Regular.ttf
clamp:
  clamp: "${CLAMP_LINES}"
  animate: ${CLAMP_ANIMATE:frame}
  splitOnChars: []
  truncationChar: "..."
server:
  addr: 127.0.0.1:9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 320.0, cfg.Viewport.Width)
	assert.Equal(t, 600.0, cfg.Viewport.Height, "missing height takes the default")
	assert.Equal(t, "/fonts/Regular.ttf", cfg.Fonts.Regular)
	assert.Equal(t, Default().Fonts.Bold, cfg.Fonts.Bold)
	assert.False(t, cfg.NativeClamp())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	opts, err := cfg.Clamp.Options()
	require.NoError(t, err)
	assert.Equal(t, clamp.Target{Kind: clamp.TargetLines, Lines: 4}, opts.Target)
	assert.Equal(t, clamp.PacingFrame, opts.Pacing.Mode)
	assert.NotNil(t, opts.Boundaries)
	assert.Empty(t, opts.Boundaries)
	assert.Equal(t, "...", opts.Marker)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeProfile(t, "viewport: [not, a, map]"))
	assert.Error(t, err)

	cfg, err := Load(writeProfile(t, "log_level: shouty"))
	require.NoError(t, err)
	_, err = cfg.Logger()
	assert.Error(t, err)
}
