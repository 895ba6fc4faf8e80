package theorymind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	opA = Instruction{Op: OpAdd}
	opB = Instruction{Op: OpNegate}
	opC = Instruction{Op: OpNot}
	opD = Instruction{Op: OpAnd}
)

func TestExtractNewRoutineFindsRepeatedSubsequence(t *testing.T) {
	theories := []Program{
		{opA, opB, opA, opC},
		{opA, opB, opA, opD},
		{opB, opA},
	}

	newTheories, newRoutines, ok := ExtractNewRoutine(theories, nil, IsValid)
	require.True(t, ok)
	require.Len(t, newRoutines, 1)
	assert.Equal(t, Program{opA, opB, opA}, newRoutines[0])

	execIns := Instruction{Op: OpExec, Arg: int(NewRoutineRef(0))}
	assert.Equal(t, Program{execIns, opC}, newTheories[0])
	assert.Equal(t, Program{execIns, opD}, newTheories[1])
	// only a length-2 "B A" suffix remains here, shorter than the
	// extracted "A B A", so it is left untouched.
	assert.Equal(t, Program{opB, opA}, newTheories[2])
}

func TestExtractNewRoutineNoRepeats(t *testing.T) {
	theories := []Program{
		{opA, opB},
		{opC, opD},
	}

	_, _, ok := ExtractNewRoutine(theories, nil, IsValid)
	assert.False(t, ok)
}

func TestExtractNewRoutineRejectsInvalidCandidate(t *testing.T) {
	// the only repeated substring spans an unbalanced "if" with no
	// matching "end", so no valid candidate of length >= 2 exists.
	ifIns := Instruction{Op: OpIf}
	theories := []Program{
		{ifIns, opA},
		{ifIns, opA},
	}

	_, _, ok := ExtractNewRoutine(theories, nil, IsValid)
	assert.False(t, ok)
}

func TestExtractRoutineInstancesReplacesBody(t *testing.T) {
	routines := []Program{{opA, opB, opA}}
	theories := []Program{
		{opA, opB, opA, opC},
		{opD},
	}

	got := ExtractRoutineInstances(theories, routines)

	execIns := Instruction{Op: OpExec, Arg: int(NewRoutineRef(0))}
	assert.Equal(t, Program{execIns, opC}, got[0])
	assert.Equal(t, Program{opD}, got[1])
}
