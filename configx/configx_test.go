package configx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Priorities(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("WHATSAPP_TOKEN=from-file\nWHATSAPP_VERSION=v20.0\n"), 0o600))

	t.Setenv("CFGTEST_WHATSAPP_TOKEN", "from-env")

	cfg, err := NewBuilder().
		WithDefaults(map[string]any{
			"whatsapp.version": "v23.0",
			"whatsapp.secure":  true,
		}).
		FromDotEnv(dotenv).
		FromEnv("CFGTEST_").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Get("whatsapp.token").AsString())
	assert.Equal(t, "v20.0", cfg.Get("whatsapp.version").AsString())
	assert.True(t, cfg.Get("whatsapp.secure").AsBoolDefault(false))
	assert.True(t, cfg.Has("whatsapp"))
	assert.False(t, cfg.Has("whatsapp.secret"))
}

func TestBuilder_MissingDotEnvIsSkipped(t *testing.T) {
	cfg, err := NewBuilder().FromDotEnv(filepath.Join(t.TempDir(), "absent.env")).Build()
	require.NoError(t, err)
	assert.Empty(t, cfg.AllSettings())
}

func TestBuilder_RequireEnv(t *testing.T) {
	_, err := NewBuilder().RequireEnv("CFGTEST_SURELY_NOT_SET_42").Build()
	assert.Error(t, err)
}

func TestValueConversions(t *testing.T) {
	cfg, err := NewBuilder().FromMap(map[string]any{
		"a.int":      "42",
		"a.bool":     "off",
		"a.duration": "1500ms",
		"a.seconds":  30,
		"a.junk":     "zz",
	}, "test").Build()
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Get("a.int").AsIntDefault(0))
	assert.False(t, cfg.Get("a.bool").AsBoolDefault(true))
	assert.Equal(t, 1500*time.Millisecond, cfg.Get("a.duration").AsDurationDefault(0))
	assert.Equal(t, 30*time.Second, cfg.Get("a.seconds").AsDurationDefault(0))
	assert.Equal(t, 7, cfg.Get("a.junk").AsIntDefault(7))
	assert.Equal(t, "fallback", cfg.Get("a.missing").AsStringDefault("fallback"))
}
