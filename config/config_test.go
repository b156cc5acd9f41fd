// SPDX-License-Identifier: LGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "http", cfg.Transport.Scheme)
	assert.Equal(t, "none", cfg.Transport.ReturnRouteDefault)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := &Config{Environment: "production"}
	setDefaults(cfg)
	require.NoError(t, SaveToFile(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Environment, loaded.Environment)
	assert.Equal(t, cfg.Transport.ListenAddr, loaded.Transport.ListenAddr)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("STATICAGENT_TEST_VAR", "resolved")

	assert.Equal(t, "resolved", SubstituteEnvVars("${STATICAGENT_TEST_VAR}"))
	assert.Equal(t, "fallback", SubstituteEnvVars("${STATICAGENT_UNSET_VAR:fallback}"))
	assert.Equal(t, "plain", SubstituteEnvVars("plain"))
}

func TestValidateConfiguration(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Identity.KeysPath = ""

	issues := ValidateConfiguration(cfg)
	require.NotEmpty(t, issues)
	assert.Equal(t, "identity.keys_path", issues[0].Field)
	assert.Equal(t, "error", issues[0].Level)
}

func TestValidateConfiguration_UnknownScheme(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Transport.Scheme = "carrier-pigeon"

	issues := ValidateConfiguration(cfg)
	found := false
	for _, i := range issues {
		if i.Field == "transport.scheme" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoad_MissingFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "test"})
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.NotNil(t, cfg.Transport)
}
