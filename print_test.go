package theorymind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramStringIndentsBlocks(t *testing.T) {
	p := Program{
		{Op: OpPushConst, Arg: 1},
		{Op: OpIf},
		{Op: OpPushConst, Arg: 2},
		{Op: OpElse},
		{Op: OpPushConst, Arg: 3},
		{Op: OpEnd},
	}

	got := ProgramString(p)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	assert.Equal(t, "0.\tpush_const 1", lines[0])
	assert.Equal(t, "1.\tif", lines[1])
	assert.Equal(t, "2.\t  push_const 2", lines[2])
	assert.Equal(t, "3.\telse", lines[3])
	assert.Equal(t, "4.\t  push_const 3", lines[4])
	assert.Equal(t, "5.\tend", lines[5])
}

func TestColorProgramStringMatchesPlainTextWhenUncolored(t *testing.T) {
	p := Program{{Op: OpPushConst, Arg: 5}, {Op: OpAssert}}

	plain := ProgramString(p)
	colored := ColorProgramString(p)

	// fatih/color disables ANSI codes outside of a terminal (and in
	// tests), so the two should render identically.
	assert.Equal(t, plain, colored)
}
