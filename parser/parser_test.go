package parser

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/JuanjoMorell/simplesh/syntax"
)

func parse(t *testing.T, src string) syntax.Cmd {
	t.Helper()
	cmd, err := Parse([]byte(src))
	require.NoError(t, err)
	syntax.NullTerminate(cmd, []byte(src))
	return cmd
}

func argv(words ...string) []*syntax.Word {
	ws := make([]*syntax.Word, len(words))
	for i, w := range words {
		ws[i] = &syntax.Word{Text: w}
	}
	return ws
}

var cmpOpts = cmp.Options{
	cmpopts.IgnoreFields(syntax.Word{}, "Start", "End"),
	cmpopts.IgnoreFields(syntax.RedirCmd{}, "Flags", "Mode"),
}

func TestSimpleExec(t *testing.T) {
	cmd := parse(t, "echo hello")
	want := &syntax.ExecCmd{Args: argv("echo", "hello")}
	if diff := cmp.Diff(want, cmd, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeRightAssociative(t *testing.T) {
	cmd := parse(t, "a | b | c")
	want := &syntax.PipeCmd{
		Left: &syntax.ExecCmd{Args: argv("a")},
		Right: &syntax.PipeCmd{
			Left:  &syntax.ExecCmd{Args: argv("b")},
			Right: &syntax.ExecCmd{Args: argv("c")},
		},
	}
	if diff := cmp.Diff(want, cmd, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestListRightAssociative(t *testing.T) {
	cmd := parse(t, "a ; b ; c")
	want := &syntax.ListCmd{
		Left: &syntax.ExecCmd{Args: argv("a")},
		Right: &syntax.ListCmd{
			Left:  &syntax.ExecCmd{Args: argv("b")},
			Right: &syntax.ExecCmd{Args: argv("c")},
		},
	}
	if diff := cmp.Diff(want, cmd, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBackgroundStacks(t *testing.T) {
	cmd := parse(t, "a &")
	want := &syntax.BackCmd{Cmd: &syntax.ExecCmd{Args: argv("a")}}
	if diff := cmp.Diff(want, cmd, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	cmd = parse(t, "a & &")
	want2 := &syntax.BackCmd{Cmd: &syntax.BackCmd{Cmd: &syntax.ExecCmd{Args: argv("a")}}}
	if diff := cmp.Diff(want2, cmd, cmpOpts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSubshellRedirect(t *testing.T) {
	cmd := parse(t, "( a ; b ) > f")
	redir, ok := cmd.(*syntax.RedirCmd)
	require.True(t, ok, "expected *syntax.RedirCmd, got %T", cmd)
	require.Equal(t, syntax.RedirOut, redir.Kind)
	require.Equal(t, 1, redir.FD)
	require.Equal(t, "f", redir.File.Text)

	sub, ok := redir.Cmd.(*syntax.SubshellCmd)
	require.True(t, ok)
	list, ok := sub.Cmd.(*syntax.ListCmd)
	require.True(t, ok)
	require.Equal(t, "a", list.Left.(*syntax.ExecCmd).Args[0].Text)
	require.Equal(t, "b", list.Right.(*syntax.ExecCmd).Args[0].Text)
}

func TestAppendNeverTruncates(t *testing.T) {
	cmd := parse(t, "a >> f")
	redir := cmd.(*syntax.RedirCmd)
	require.Equal(t, syntax.RedirAppend, redir.Kind)
	require.NotZero(t, redir.Flags&os.O_APPEND)
	require.Zero(t, redir.Flags&os.O_TRUNC)
}

func TestNullTerminateMaterializesText(t *testing.T) {
	src := "echo hello world"
	cmd := parse(t, src)
	exec := cmd.(*syntax.ExecCmd)
	require.Equal(t, []string{"echo", "hello", "world"}, exec.Argv())
}

func TestSyntaxErrors(t *testing.T) {
	for _, src := range []string{";", "|", "a ; ", "a | "} {
		_, err := Parse([]byte(src))
		require.Error(t, err, "expected syntax error for %q", src)
	}
}

func TestMaxArgs(t *testing.T) {
	src := "cmd"
	for i := 0; i < syntax.MaxArgs; i++ {
		src += " a"
	}
	_, err := Parse([]byte(src))
	require.Error(t, err)
	var tooMany *MaxArgsError
	require.ErrorAs(t, err, &tooMany)
}
