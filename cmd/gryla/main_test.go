//go:build unix

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gryla/internal/app"
)

// fakeCC creates the -o target and fails for any source named fail*.c.
const fakeCC = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    *fail*.c) echo "$1:1:1: error: boom" >&2; exit 3 ;;
  esac
  shift
done
: > "$out"
`

func setupProject(t *testing.T, sources ...string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o750))
	for _, src := range sources {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", src), []byte("int x;\n"), 0o600))
	}
	//nolint:gosec // the fake compiler must be executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fakecc"), []byte(fakeCC), 0o755))
	for _, key := range []string{"CC", "CFLAGS", "GRYLA_JOBS"} {
		t.Setenv(key, "")
	}
	t.Chdir(dir)
	return dir
}

func runWith(t *testing.T, args ...string) int {
	t.Helper()
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()
	os.Args = append([]string{"gryla"}, args...)
	// Each run resolves a fresh graph, as a new process would.
	graft.ResetDefaultCache()
	return run(func(a *app.App) {
		a.WithOutput(io.Discard)
	})
}

func TestRun_BuildAndClean(t *testing.T) {
	dir := setupProject(t, "a.c", "b.c")

	assert.Equal(t, 0, runWith(t, "build", "--cc", "./fakecc"))
	assert.FileExists(t, filepath.Join(dir, "lib", "a.o"))
	assert.FileExists(t, filepath.Join(dir, "lib", "b.o"))
	assert.FileExists(t, filepath.Join(dir, "libgryla.so"))

	// Nothing to do on the second run.
	assert.Equal(t, 0, runWith(t, "lib", "--cc", "./fakecc"))

	assert.Equal(t, 0, runWith(t, "clean"))
	assert.NoFileExists(t, filepath.Join(dir, "lib", "a.o"))
	assert.NoFileExists(t, filepath.Join(dir, "lib", "b.o"))
	assert.FileExists(t, filepath.Join(dir, "libgryla.so"))
	assert.FileExists(t, filepath.Join(dir, "lib", "a.c"))
}

func TestRun_DefaultCommandBuilds(t *testing.T) {
	dir := setupProject(t, "a.c")

	assert.Equal(t, 0, runWith(t, "--cc", "./fakecc"))
	assert.FileExists(t, filepath.Join(dir, "libgryla.so"))
}

func TestRun_CompileFailureExitStatus(t *testing.T) {
	dir := setupProject(t, "a.c", "fail.c")

	assert.Equal(t, 3, runWith(t, "build", "--cc", "./fakecc", "-j", "1"))
	assert.NoFileExists(t, filepath.Join(dir, "libgryla.so"))
}

func TestRun_Capture(t *testing.T) {
	dir := setupProject(t, "a.c")

	assert.Equal(t, 0, runWith(t, "bear", "--cc", "./fakecc"))
	data, err := os.ReadFile(filepath.Join(dir, "compile_commands.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file": "lib/a.c"`)
	assert.Contains(t, string(data), dir)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := setupProject(t, "a.c")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gryla.yaml"), []byte("compiler: ./fakecc\noutput: libcustom.so\n"), 0o600))

	assert.Equal(t, 0, runWith(t, "build"))
	assert.FileExists(t, filepath.Join(dir, "libcustom.so"))
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	setupProject(t)

	assert.Equal(t, 1, runWith(t, "build", "-c", "missing.yaml"))
}

func TestRun_MissingCompiler(t *testing.T) {
	setupProject(t, "a.c")

	assert.Equal(t, 127, runWith(t, "build", "--cc", "./does-not-exist"))
}

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, runWith(t, "version"))
}
