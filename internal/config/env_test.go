package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nCB_ENV_ONE=value1\n\nCB_ENV_TWO=\"value with spaces\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CB_ENV_ONE", "")
	t.Setenv("CB_ENV_TWO", "")
	os.Unsetenv("CB_ENV_ONE")
	os.Unsetenv("CB_ENV_TWO")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "value1", os.Getenv("CB_ENV_ONE"))
	assert.Equal(t, "value with spaces", os.Getenv("CB_ENV_TWO"))
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CB_ENV_KEEP=from-file\n"), 0o600))
	t.Setenv("CB_ENV_KEEP", "from-process")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-process", os.Getenv("CB_ENV_KEEP"))
}

func TestLoadEnvOptional(t *testing.T) {
	assert.NoError(t, LoadEnvOptional(""))
	assert.NoError(t, LoadEnvOptional(filepath.Join(t.TempDir(), "missing.env")))
	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}
