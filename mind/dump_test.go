package mind

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/theorymind"
)

func TestDumpWritesAllSections(t *testing.T) {
	m := New(
		WithTheories(theorymind.Program{{Op: theorymind.OpAssert}}),
		WithRoutines(theorymind.Program{{Op: theorymind.OpNot}}),
		WithSeedClaims(theorymind.Claim{Bool: true, Ints: []int{1}}),
	)

	var buf bytes.Buffer
	err := m.Dump(&buf, DefaultDumpOptions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "THEORIES:")
	assert.Contains(t, out, "ROUTINES:")
	assert.Contains(t, out, "CLAIMS:")
	assert.Contains(t, out, "PROBLEMS:")
}
