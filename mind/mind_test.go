package mind

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/theorymind"
)

func incrementTheory() theorymind.Program {
	return theorymind.Program{
		{Op: theorymind.OpClaimInt, Arg: 0},
		{Op: theorymind.OpPushConst, Arg: 1},
		{Op: theorymind.OpAdd},
		{Op: theorymind.OpSetClaimInt, Arg: 0},
	}
}

func TestGenerateClaimsAddsIncrementedClaim(t *testing.T) {
	m := New(
		WithTheories(incrementTheory()),
		WithSeedClaims(theorymind.Claim{Bool: true, Ints: []int{1}}),
	)

	m.GenerateClaims(rand.New(rand.NewSource(1)))

	require.Len(t, m.Claims, 2)
	assert.Equal(t, []int{2}, m.Claims[1].Ints)
	assert.Equal(t, 0, m.Records[1].TheoryIndex)
}

func TestAddClaimDedupesIdenticalClaimAndRecord(t *testing.T) {
	m := New()
	rec := Record{TheoryIndex: 0, Path: []int{0}}

	added1 := m.AddClaim(theorymind.Claim{Bool: true, Ints: []int{3}}, rec)
	added2 := m.AddClaim(theorymind.Claim{Bool: true, Ints: []int{3}}, rec)

	assert.True(t, added1)
	assert.False(t, added2)
	assert.Len(t, m.Claims, 1)
}

func TestAddClaimRecordsProblemOnContradiction(t *testing.T) {
	m := New()
	m.AddClaim(theorymind.Claim{Bool: true, Ints: []int{3}}, seedRecord())
	m.AddClaim(theorymind.Claim{Bool: false, Ints: []int{3}}, seedRecord())

	require.Len(t, m.Problems, 1)
	assert.True(t, m.Problems[0].A.Leaf)
	assert.True(t, m.Problems[0].B.Leaf)
}

func TestExtractNewRoutinesFactorsRepeatedCode(t *testing.T) {
	a := theorymind.Instruction{Op: theorymind.OpAdd}
	b := theorymind.Instruction{Op: theorymind.OpNegate}
	c := theorymind.Instruction{Op: theorymind.OpNot}

	m := New(WithTheories(
		theorymind.Program{a, b, a, c},
		theorymind.Program{a, b, a},
	))

	extracted := m.ExtractNewRoutines(-1)

	assert.Equal(t, 1, extracted)
	require.Len(t, m.Routines, 1)
	assert.Equal(t, theorymind.Program{a, b, a}, m.Routines[0])
}

func TestInlineAndDeleteAllRoutinesLeavesTheoryRefsAlone(t *testing.T) {
	routine := theorymind.Program{{Op: theorymind.OpPushConst, Arg: 9}}
	m := New(
		WithTheories(theorymind.Program{
			{Op: theorymind.OpExec, Arg: int(theorymind.NewRoutineRef(0))},
			{Op: theorymind.OpExec, Arg: int(theorymind.NewTheoryRef(0))},
		}),
		WithRoutines(routine),
	)

	m.InlineAndDeleteAllRoutines()

	assert.Empty(t, m.Routines)
	want := theorymind.Program{
		{Op: theorymind.OpPushConst, Arg: 9},
		{Op: theorymind.OpExec, Arg: int(theorymind.NewTheoryRef(0))},
	}
	assert.Equal(t, want, m.Theories[0])
}

func TestDeleteRoutineRenumbersHigherReferences(t *testing.T) {
	m := New(
		WithTheories(theorymind.Program{
			{Op: theorymind.OpExec, Arg: int(theorymind.NewRoutineRef(1))},
		}),
		WithRoutines(
			theorymind.Program{{Op: theorymind.OpPushConst, Arg: 1}},
			theorymind.Program{{Op: theorymind.OpPushConst, Arg: 2}},
		),
	)

	m.DeleteRoutine(0)

	require.Len(t, m.Routines, 1)
	assert.Equal(t, theorymind.Program{{Op: theorymind.OpPushConst, Arg: 2}}, m.Routines[0])
	assert.Equal(t, int(theorymind.NewRoutineRef(0)), m.Theories[0][0].Arg)
}

func TestDeleteRoutinePanicsWhenStillReferenced(t *testing.T) {
	m := New(
		WithTheories(theorymind.Program{
			{Op: theorymind.OpExec, Arg: int(theorymind.NewRoutineRef(0))},
		}),
		WithRoutines(theorymind.Program{{Op: theorymind.OpPushConst, Arg: 1}}),
	)

	assert.Panics(t, func() { m.DeleteRoutine(0) })
}
