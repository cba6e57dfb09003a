package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(EnvAPIURL, "")
	return dir
}

func writeRaw(t *testing.T, home, content string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".testbuilder")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(content), 0600))
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Config{APIURL: "http://localhost:8000"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(Path()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	withHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := Config{
		APIURL:          "http://bank.local:8000",
		APIKey:          "tb_verylongkeystring12345",
		Username:        "examiner",
		VimKeys:         true,
		DefaultCategory: 3,
		DebugLog:        "/tmp/testbuilder.log",
		Store:           Store{Driver: "sqlite", DSN: "file:bank.db"},
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
	assert.True(t, loaded.UsesStore())
}

func TestSaveConfigOverwritesExisting(t *testing.T) {
	withHome(t)

	require.NoError(t, (&Config{APIURL: "http://one"}).Save())
	require.NoError(t, (&Config{APIURL: "http://two"}).Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://two", loaded.APIURL)
	assert.False(t, loaded.UsesStore())
}

func TestLoadConfigEmptyFile(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "invalid: yaml: content:")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfigNeedsAPIOrStore(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "username: someone\nvim_keys: true\n")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
}

func TestLoadConfigStoreOnly(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "store:\n  driver: pgx\n  dsn: postgres://localhost/bank\n")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pgx", loaded.Store.Driver)
	assert.Equal(t, "postgres://localhost/bank", loaded.Store.DSN)
	assert.Empty(t, loaded.APIURL)
}

func TestLoadConfigEnvOverridesAPIURL(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "api_url: http://from-file\napi_key: key123\n")
	t.Setenv(EnvAPIURL, "http://from-env")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", loaded.APIURL)
	assert.Equal(t, "key123", loaded.APIKey)
}

func TestLoadConfigEnvSatisfiesMissingAPIURL(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "username: someone\n")
	t.Setenv(EnvAPIURL, "http://from-env")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", loaded.APIURL)
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	withHome(t)

	require.NoError(t, (&Config{APIURL: "http://x"}).Save())
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".testbuilder")
	assert.Contains(t, path, "config")
}
