package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "cli-secret")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("WHATSAPP_TOKEN", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	t.Cleanup(func() {
		digestDryRun = false
		useraddEmail, useraddPassword = "", ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestUseradd(t *testing.T) {
	out, err := runCLI(t, "useradd", "--email", "Keeper@Example.com", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "created user keeper@example.com")
}

func TestUseraddRequiresFlags(t *testing.T) {
	_, err := runCLI(t, "useradd", "--email", "keeper@example.com")
	assert.Error(t, err)
}

func TestDigestDryRun(t *testing.T) {
	out, err := runCLI(t, "digest", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Hive Tool weekly digest")
	assert.Contains(t, out, "No activity recorded this week.")
}

func TestMissingSecretFails(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "digest", "--dry-run"})
	t.Cleanup(func() { digestDryRun = false })

	assert.Error(t, rootCmd.Execute())
}
