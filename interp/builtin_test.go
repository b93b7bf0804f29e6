package interp

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(&Jobs{}, log, "/bin/false")
}

func TestIsBuiltin(t *testing.T) {
	for _, name := range []string{"exit", "cwd", "cd", "psplit", "bjobs"} {
		require.True(t, IsBuiltin(name), name)
	}
	require.False(t, IsBuiltin("ls"))
	require.False(t, IsBuiltin("Cd"))
}

func TestBuiltinCdChangesDirectoryAndSetsOldpwd(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })

	dir := t.TempDir()
	r := testRunner(t)

	require.NoError(t, r.builtinCd([]string{"cd", dir}, os.Stderr))

	wd, err := os.Getwd()
	require.NoError(t, err)
	wdResolved, _ := filepath.EvalSymlinks(wd)
	dirResolved, _ := filepath.EvalSymlinks(dir)
	require.Equal(t, dirResolved, wdResolved)
	require.Equal(t, start, os.Getenv("OLDPWD"))
}

func TestBuiltinCdDashReturnsToOldpwd(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })

	dir := t.TempDir()
	r := testRunner(t)
	require.NoError(t, r.builtinCd([]string{"cd", dir}, os.Stderr))
	require.NoError(t, r.builtinCd([]string{"cd", "-"}, os.Stderr))

	wd, err := os.Getwd()
	require.NoError(t, err)
	wdResolved, _ := filepath.EvalSymlinks(wd)
	startResolved, _ := filepath.EvalSymlinks(start)
	require.Equal(t, startResolved, wdResolved)
}

func TestBuiltinCdMissingDirSetsOldpwdAnyway(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })
	os.Unsetenv("OLDPWD")

	r := testRunner(t)
	require.NoError(t, r.builtinCd([]string{"cd", "/no/such/path/hopefully"}, os.Stderr))

	require.Equal(t, start, os.Getenv("OLDPWD"))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, start, wd)
}

func TestBuiltinCwdPrintsWorkingDirectory(t *testing.T) {
	r := testRunner(t)
	pr, pw, err := os.Pipe()
	require.NoError(t, err)

	require.NoError(t, r.builtinCwd([]string{"cwd"}, pw))
	pw.Close()

	out, err := io.ReadAll(pr)
	require.NoError(t, err)
	wd, _ := os.Getwd()
	require.Equal(t, "cwd: "+wd+"\n", string(out))
}

func TestBuiltinBjobsListsActiveJobs(t *testing.T) {
	r := testRunner(t)
	r.Jobs.Add(4242)

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.builtinBjobs([]string{"bjobs"}, pw, os.Stderr))
	pw.Close()

	out, err := io.ReadAll(pr)
	require.NoError(t, err)
	require.Equal(t, "[4242]\n", string(out))
}
