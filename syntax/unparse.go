package syntax

import "strings"

// Unparse regenerates simplesh source text for cmd. Since simplesh has
// no quoting or expansion, every Word.Text is already safe to splice
// back in literally: it cannot contain whitespace or a grammar symbol,
// because the lexer would have split it into more than one token.
//
// Unparse exists so a compound subtree that spec.md requires to run in
// a forked child (a Subshell, or a Pipe/Background/Redirect wrapping a
// compound command) can be handed to a re-exec of the simplesh binary,
// which parses the text back into an equivalent tree in the child.
func Unparse(cmd Cmd) string {
	var b strings.Builder
	unparse(&b, cmd)
	return b.String()
}

func unparse(b *strings.Builder, cmd Cmd) {
	switch c := cmd.(type) {
	case *ExecCmd:
		for i, w := range c.Args {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	case *RedirCmd:
		unparse(b, c.Cmd)
		b.WriteByte(' ')
		switch c.Kind {
		case RedirIn:
			b.WriteString("< ")
		case RedirOut:
			b.WriteString("> ")
		case RedirAppend:
			b.WriteString(">> ")
		}
		b.WriteString(c.File.Text)
	case *PipeCmd:
		unparse(b, c.Left)
		b.WriteString(" | ")
		unparse(b, c.Right)
	case *ListCmd:
		unparse(b, c.Left)
		b.WriteString(" ; ")
		unparse(b, c.Right)
	case *BackCmd:
		unparse(b, c.Cmd)
		b.WriteString(" &")
	case *SubshellCmd:
		b.WriteString("( ")
		unparse(b, c.Cmd)
		b.WriteString(" )")
	}
}
