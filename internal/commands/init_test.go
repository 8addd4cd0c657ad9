package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "ynabimport-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "ynabimport")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/ynabimport")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// command builds an invocation with YNAB_* variables stripped from the
// inherited environment and env appended.
func command(env []string, args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath, args...)
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "YNAB_") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	cmd.Env = append(cmd.Env, env...)
	return cmd
}

func runYnabimport(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, err := command(nil, args...).CombinedOutput()
	return string(out), err
}

// runSplit returns stdout and stderr separately.
func runSplit(t *testing.T, env []string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := command(env, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runYnabimport(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized ynabimport")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runYnabimport(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "ynabimport.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "api_url: https://api.ynab.com/v1")
	assert.Contains(t, contents, "chase:")
	assert.Contains(t, contents, "date: Posting Date")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runYnabimport(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{".env", ".ynabimport/"} {
		assert.Contains(t, string(data), pattern)
	}
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := runYnabimport(t, "init", dir)
	require.NoError(t, err)

	out, err := runYnabimport(t, "init", dir)
	require.Error(t, err, "second init should fail")
	assert.Contains(t, out, "already exists")
}

func TestFormats(t *testing.T) {
	dir := t.TempDir()
	_, err := runYnabimport(t, "init", dir)
	require.NoError(t, err)

	out, err := runYnabimport(t, "formats", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "chase")
	assert.Contains(t, out, "Posting Date")
	assert.Contains(t, out, "%m/%d/%Y")
	assert.Contains(t, out, "as-is")
}

func TestFormats_NoConfig(t *testing.T) {
	out, err := runYnabimport(t, "formats", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "ynabimport.yaml")
}

func TestVersion(t *testing.T) {
	out, err := runYnabimport(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
