package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	assert.NoError(t, os.WriteFile(envFile, []byte("SPEECH_TEST_FROM_DOTENV=loaded\n"), 0600))
	t.Setenv("SPEECH_TEST_FROM_DOTENV", "")
	assert.NoError(t, os.Unsetenv("SPEECH_TEST_FROM_DOTENV"))

	got := loadEnvFile(filepath.Join(dir, "missing.env"), envFile)

	assert.Equal(t, envFile, got)
	assert.Equal(t, "loaded", os.Getenv("SPEECH_TEST_FROM_DOTENV"))
}

func TestLoadEnvFile_ExistingVariablesWin(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	assert.NoError(t, os.WriteFile(envFile, []byte("SPEECH_TEST_PRESET=from-file\n"), 0600))
	t.Setenv("SPEECH_TEST_PRESET", "from-env")

	loadEnvFile(envFile)

	assert.Equal(t, "from-env", os.Getenv("SPEECH_TEST_PRESET"))
}

func TestLoadEnvFile_NoneFound(t *testing.T) {
	assert.Equal(t, "", loadEnvFile(filepath.Join(t.TempDir(), ".env")))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SPEECH_TEST_GETENV", "value")
	assert.Equal(t, "value", GetEnv("SPEECH_TEST_GETENV", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SPEECH_TEST_SURELY_UNSET_VARIABLE", "fallback"))
}
