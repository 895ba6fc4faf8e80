package theorymind

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ProgramString renders p as one instruction per line, numbered, with
// instructions inside if/while/for blocks indented two spaces per nesting
// level.
func ProgramString(p Program) string {
	var b strings.Builder
	indent := 0
	for i, ins := range p {
		if ins.Op == OpEnd || ins.Op == OpElse {
			indent--
		}
		fmt.Fprintf(&b, "%d.\t%s%s\n", i, strings.Repeat("  ", indent), ins)
		if IsBlockStarter(ins.Op) || ins.Op == OpElse {
			indent++
		}
	}
	return b.String()
}

var (
	colorControl = color.New(color.FgYellow)
	colorExec    = color.New(color.FgCyan)
	colorConst   = color.New(color.FgMagenta)
	colorIndex   = color.New(color.FgHiBlack)
)

// ColorProgramString renders p the same way ProgramString does, but with
// control-flow opcodes, exec references, and line numbers in distinct
// ANSI colors for terminal display. Output falls back to plain text
// automatically when color.NoColor is set (by default, when standard
// output isn't a terminal).
func ColorProgramString(p Program) string {
	var b strings.Builder
	indent := 0
	for i, ins := range p {
		if ins.Op == OpEnd || ins.Op == OpElse {
			indent--
		}
		b.WriteString(colorIndex.Sprintf("%d.\t", i))
		b.WriteString(strings.Repeat("  ", indent))

		switch {
		case IsBlockStarter(ins.Op) || ins.Op == OpElse || ins.Op == OpEnd:
			b.WriteString(colorControl.Sprint(ins))
		case ins.Op == OpExec:
			b.WriteString(colorExec.Sprint(ins))
		case ins.Op == OpPushConst:
			b.WriteString(colorConst.Sprint(ins))
		default:
			b.WriteString(ins.String())
		}
		b.WriteString("\n")

		if IsBlockStarter(ins.Op) || ins.Op == OpElse {
			indent++
		}
	}
	return b.String()
}
