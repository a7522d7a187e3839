package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 30, cfg.MaxRedirects)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		EnvTimeout:      "3s",
		EnvMaxRedirects: "5",
		EnvAddr:         "127.0.0.1:9090",
		EnvLogLevel:     "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"badTimeout":      {EnvTimeout: "soon"},
		"zeroTimeout":     {EnvTimeout: "0s"},
		"badRedirects":    {EnvMaxRedirects: "many"},
		"negRedirects":    {EnvMaxRedirects: "-1"},
		"unknownLogLevel": {EnvLogLevel: "loud"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			require.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OGLINK_MAX_REDIRECTS=7\n"), 0o600))
	t.Setenv(EnvMaxRedirects, "")
	require.NoError(t, os.Unsetenv(EnvMaxRedirects))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxRedirects)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvTimeout, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}
