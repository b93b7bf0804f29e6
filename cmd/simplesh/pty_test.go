package main

import (
	"bufio"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// simpleshReexecEnv, when set in a child's environment, tells TestMain to
// run this test binary as the real simplesh command instead of as a test
// runner. This mirrors mvdan-sh/interp/interp_test.go's GOSH_PROG/GOSH_CMD
// pattern: the compiled test binary re-execs itself to get a real process
// running the production main(), rather than building a second binary.
const simpleshReexecEnv = "SIMPLESH_TEST_REEXEC"

// simpleshTestProgEnv carries the test binary's own path down to the
// subprocess spawned in TestPromptDrivenUnderPty.
const simpleshTestProgEnv = "SIMPLESH_TEST_PROG"

func TestMain(m *testing.M) {
	if os.Getenv(simpleshReexecEnv) != "" {
		main()
		return
	}
	if exe, err := os.Executable(); err == nil {
		os.Setenv(simpleshTestProgEnv, exe)
	}
	os.Exit(m.Run())
}

// TestPromptDrivenUnderPty runs the compiled simplesh binary itself (via
// the TestMain re-exec above) under a real pty, so term.IsTerminal sees a
// terminal and main dispatches into runInteractive rather than runScript.
// It then drives a line through the actual prompt loop and checks both
// the rendered prompt and the command's output come back over the pty.
func TestPromptDrivenUnderPty(t *testing.T) {
	prog := os.Getenv(simpleshTestProgEnv)
	require.NotEmpty(t, prog, "TestMain must set %s", simpleshTestProgEnv)

	cmd := exec.Command(prog)
	cmd.Env = append(os.Environ(), simpleshReexecEnv+"=1")
	f, err := pty.Start(cmd)
	require.NoError(t, err)
	defer f.Close()

	reader := bufio.NewReader(f)
	promptLine, err := reader.ReadString('>')
	require.NoError(t, err)
	require.Contains(t, promptLine, "@")

	_, err = f.Write([]byte("echo hello\n"))
	require.NoError(t, err)

	var out string
	for !strings.Contains(out, "hello") {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		out += line
	}
	require.Contains(t, out, "hello")

	cmd.Process.Kill()
	cmd.Wait()
}
