package theorymind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type validTestCase struct {
	name    string
	program Program
	want    bool
}

func (tc validTestCase) run(t *testing.T) {
	t.Helper()
	got := IsValid(tc.program)
	assert.Equal(t, tc.want, got)
}

func TestIsValid(t *testing.T) {
	cases := []validTestCase{
		{
			name:    "empty program",
			program: Program{},
			want:    true,
		},
		{
			name: "balanced if",
			program: Program{
				{Op: OpPushConst, Arg: 1},
				{Op: OpIf},
				{Op: OpPushConst, Arg: 2},
				{Op: OpEnd},
			},
			want: true,
		},
		{
			name: "balanced if/else",
			program: Program{
				{Op: OpPushConst, Arg: 1},
				{Op: OpIf},
				{Op: OpPushConst, Arg: 2},
				{Op: OpElse},
				{Op: OpPushConst, Arg: 3},
				{Op: OpEnd},
			},
			want: true,
		},
		{
			name: "unclosed if",
			program: Program{
				{Op: OpPushConst, Arg: 1},
				{Op: OpIf},
				{Op: OpPushConst, Arg: 2},
			},
			want: false,
		},
		{
			name: "end without opener",
			program: Program{
				{Op: OpEnd},
			},
			want: false,
		},
		{
			name: "else without if",
			program: Program{
				{Op: OpWhile},
				{Op: OpElse},
				{Op: OpEnd},
			},
			want: false,
		},
		{
			name: "double else",
			program: Program{
				{Op: OpIf},
				{Op: OpElse},
				{Op: OpElse},
				{Op: OpEnd},
			},
			want: false,
		},
		{
			name: "negative nonNegInt argument",
			program: Program{
				{Op: OpForwardInt, Arg: -1},
			},
			want: false,
		},
		{
			name: "negative int argument is fine",
			program: Program{
				{Op: OpPushConst, Arg: -5},
			},
			want: true,
		},
		{
			name: "nested blocks",
			program: Program{
				{Op: OpPushConst, Arg: 1},
				{Op: OpFor},
				{Op: OpPushConst, Arg: 1},
				{Op: OpWhile},
				{Op: OpEnd},
				{Op: OpEnd},
			},
			want: true,
		},
		{
			name: "out of range opcode",
			program: Program{
				{Op: opcodeMax},
			},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}
