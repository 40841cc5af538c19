package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRoot lays out <tmp>/conf/global.yaml and points ADEPT_ROOT at it.
func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	t.Setenv("ADEPT_ROOT", root)
	return root
}

func TestLoad_DefaultsFillSparseFile(t *testing.T) {
	root := writeRoot(t, "http:\n  force_https: true\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.HTTP.ForceHTTPS)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "https://dummyjson.com", cfg.Auth.BaseURL)
	assert.Equal(t, "/auth/login", cfg.Auth.LoginPath)
	assert.Zero(t, cfg.Auth.Timeout)
	assert.Equal(t, 10000, cfg.Pages.Capacity)
	assert.Equal(t, 30*time.Minute, cfg.Pages.IdleTTL)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, filepath.Join(root, "logs"), cfg.Log.Dir)
	assert.Same(t, cfg, Get())
}

func TestLoad_YAMLAndEnvLayers(t *testing.T) {
	writeRoot(t, `
http:
  listen_addr: "127.0.0.1:9000"
auth:
  base_url: "http://auth.internal"
  timeout: 5s
pages:
  idle_ttl: 2m
`)
	t.Setenv("ADEPT_AUTH__BASE_URL", "http://override.internal")
	t.Setenv("ADEPT_PAGES__CAPACITY", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.ListenAddr)
	assert.Equal(t, "http://override.internal", cfg.Auth.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 42, cfg.Pages.Capacity)
	assert.Equal(t, 2*time.Minute, cfg.Pages.IdleTTL)
}

func TestLoad_ValidationFails(t *testing.T) {
	writeRoot(t, "auth:\n  base_url: \"not a url\"\n")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ADEPT_ROOT", t.TempDir())
	_, err := Load()
	assert.Error(t, err)
}

func TestCSRF_VaultRef(t *testing.T) {
	p, k, ok := CSRF{Key: "vault:secret/adept-login#csrf_key"}.VaultRef()
	require.True(t, ok)
	assert.Equal(t, "secret/adept-login", p)
	assert.Equal(t, "csrf_key", k)

	for _, bad := range []string{"", "abc", "vault:", "vault:path", "vault:#key", "vault:path#"} {
		_, _, ok := CSRF{Key: bad}.VaultRef()
		assert.False(t, ok, bad)
	}
}
