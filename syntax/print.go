package syntax

import "strings"

// Sprint renders cmd the way simplesh's print_cmd does, for the -d
// DBG_CMD command echo in the main loop.
func Sprint(cmd Cmd) string {
	var b strings.Builder
	sprint(&b, cmd)
	return b.String()
}

func sprint(b *strings.Builder, cmd Cmd) {
	switch c := cmd.(type) {
	case *ExecCmd:
		if len(c.Args) > 0 {
			b.WriteString("fork( exec( ")
			b.WriteString(c.Args[0].Text)
			b.WriteString(" ) )")
		}
	case *RedirCmd:
		b.WriteString("fork( ")
		if e, ok := c.Cmd.(*ExecCmd); ok {
			b.WriteString("exec ( ")
			if len(e.Args) > 0 {
				b.WriteString(e.Args[0].Text)
			}
			b.WriteString(" )")
		} else {
			sprint(b, c.Cmd)
		}
		b.WriteString(" )")
	case *PipeCmd:
		b.WriteString("fork( ")
		sprintCallOrCompound(b, c.Left)
		b.WriteString(" ) => fork( ")
		sprintCallOrCompound(b, c.Right)
		b.WriteString(" )")
	case *ListCmd:
		sprint(b, c.Left)
		b.WriteString(" ; ")
		sprint(b, c.Right)
	case *BackCmd:
		b.WriteString("fork( ")
		sprintCallOrCompound(b, c.Cmd)
		b.WriteString(" )")
	case *SubshellCmd:
		b.WriteString("fork( ")
		sprint(b, c.Cmd)
		b.WriteString(" )")
	}
}

func sprintCallOrCompound(b *strings.Builder, cmd Cmd) {
	if e, ok := cmd.(*ExecCmd); ok {
		b.WriteString("exec ( ")
		if len(e.Args) > 0 {
			b.WriteString(e.Args[0].Text)
		}
		b.WriteString(" )")
		return
	}
	sprint(b, cmd)
}
