package mind

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jcorbin/theorymind"
	"github.com/jcorbin/theorymind/internal/flushio"
	"github.com/jcorbin/theorymind/internal/runeio"
)

// DumpOptions selects which sections Dump writes.
type DumpOptions struct {
	ShowTheories bool
	ShowRoutines bool
	ShowClaims   bool
	ShowProblems bool
	Color        bool
}

// DefaultDumpOptions shows every section without color.
func DefaultDumpOptions() DumpOptions {
	return DumpOptions{ShowTheories: true, ShowRoutines: true, ShowClaims: true, ShowProblems: true}
}

// Dump writes a human-readable report of m's state to w: its theories,
// routines, claims (with provenance), and recorded problems, according to
// opts. Output is accumulated a section at a time and flushed through a
// flushio.WriteFlusher, so callers can pass an unbuffered writer (a raw
// os.File, a network connection) without Dump making one syscall per
// line.
func (m *Mind) Dump(w io.Writer, opts DumpOptions) error {
	wf := flushio.NewWriteFlusher(w)

	var buf bytes.Buffer
	programString := theorymind.ProgramString
	if opts.Color {
		programString = theorymind.ColorProgramString
	}

	if opts.ShowTheories {
		buf.WriteString("THEORIES:\n")
		for i, theory := range m.Theories {
			fmt.Fprintf(&buf, "%d:\n%s\n", i, programString(theory))
		}
	}
	if opts.ShowRoutines {
		buf.WriteString("\nROUTINES:\n")
		for i, routine := range m.Routines {
			fmt.Fprintf(&buf, "%d:\n%s\n", i, programString(routine))
		}
	}
	if opts.ShowClaims {
		buf.WriteString("\nCLAIMS:\n")
		for i, claim := range m.Claims {
			fmt.Fprintf(&buf, "%d:\n%+v\nfrom: %+v\n\n", i, claim, m.Records[i])
		}
	}
	if opts.ShowProblems {
		buf.WriteString("\nPROBLEMS:\n")
		for i, problem := range m.Problems {
			fmt.Fprintf(&buf, "%d:\n%+v\n\n", i, problem)
		}
	}

	// buf may carry raw ANSI escapes when opts.Color is set (from
	// ColorProgramString); write it through WriteANSIString so those
	// escapes and any control runes reach the terminal in their
	// conventional form rather than raw UTF-8 bytes.
	if _, err := runeio.WriteANSIString(wf, buf.String()); err != nil {
		return err
	}
	return wf.Flush()
}
