// Package mind hosts a population of theories, routines, and the claims
// they have produced: the container that runs theorymind programs against
// an accumulating body of claims, looks for contradictions, and factors
// repeated structure into routines.
package mind

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/jcorbin/theorymind"
)

// Record traces where a claim came from: the theory that produced it and
// the indexes of the pre-existing claims it forked over to get there. An
// empty Path with TheoryIndex -1 marks a seed claim that was never
// produced by running a theory.
type Record struct {
	TheoryIndex int
	Path        []int
}

func seedRecord() Record { return Record{TheoryIndex: -1} }

// Trace is the recursive lineage of a claim: either a bare claim index
// (a seed claim, or one already fully traced) or the theory that produced
// it together with the traces of the claims it touched along the way.
type Trace struct {
	Leaf        bool
	ClaimIndex  int
	TheoryIndex int
	Touched     []Trace
}

// Problem records two claims discovered to disagree (same integer payload,
// different boolean judgment), each traced back to its origin.
type Problem struct {
	A, B Trace
}

// Option configures a new Mind.
type Option interface{ apply(*Mind) }

type optionFunc func(*Mind)

func (f optionFunc) apply(m *Mind) { f(m) }

// WithHashBuckets sets the number of buckets used to deduplicate claims by
// their integer payload. Defaults to 1009, a prime comfortably larger than
// the default step limit so early runs rarely collide.
func WithHashBuckets(n int) Option {
	return optionFunc(func(m *Mind) { m.buckets = make([][]int, n) })
}

// WithSeedClaims seeds the mind with claims that were not produced by
// running any theory.
func WithSeedClaims(claims ...theorymind.Claim) Option {
	return optionFunc(func(m *Mind) {
		for _, c := range claims {
			m.addClaimUnchecked(c, seedRecord())
		}
	})
}

// WithTheories sets the mind's initial theory population.
func WithTheories(theories ...theorymind.Program) Option {
	return optionFunc(func(m *Mind) { m.Theories = append(m.Theories, theories...) })
}

// WithRoutines sets the mind's initial routine population.
func WithRoutines(routines ...theorymind.Program) Option {
	return optionFunc(func(m *Mind) { m.Routines = append(m.Routines, routines...) })
}

// WithTrace installs a callback invoked with a short description of each
// notable mind operation (claim added, routine extracted, problem found).
// The mind itself does no logging; callers that want one wire a
// logio.Logger-backed callback here (see cmd/theoryctl).
func WithTrace(trace func(string)) Option {
	return optionFunc(func(m *Mind) { m.trace = trace })
}

// Mind is a population of theories and routines together with the claims
// they have produced and any problems (contradictions) found among them.
type Mind struct {
	Theories []theorymind.Program
	Routines []theorymind.Program
	Claims   []theorymind.Claim
	Records  []Record
	Problems []Problem

	buckets [][]int
	trace   func(string)
}

// New creates an empty mind configured by opts.
func New(opts ...Option) *Mind {
	m := &Mind{buckets: make([][]int, 1009)}
	for _, opt := range opts {
		opt.apply(m)
	}
	return m
}

func (m *Mind) logf(format string, args ...interface{}) {
	if m.trace == nil {
		return
	}
	if len(args) == 0 {
		m.trace(format)
		return
	}
	m.trace(fmt.Sprintf(format, args...))
}

// GenerateClaims picks a theory uniformly at random from the mind's
// population, runs it against the mind's current claims, and adds every
// resulting claim to the population via AddClaim.
func (m *Mind) GenerateClaims(rnd *rand.Rand) {
	if len(m.Theories) == 0 {
		return
	}
	theoryIndex := rnd.Intn(len(m.Theories))

	claimSet := make(theorymind.ClaimSet, len(m.Claims))
	copy(claimSet, m.Claims)

	outputs := theorymind.Run(theoryIndex, m.Theories, m.Routines, claimSet, theorymind.DefaultStepLimit)
	for _, out := range outputs {
		m.AddClaim(out.Claim, Record{TheoryIndex: theoryIndex, Path: out.Path})
	}
}

// AddClaim adds claim to the population with the given provenance record,
// unless an identical claim (same integer payload, same boolean judgment,
// same record) is already present. If claim's integer payload matches an
// existing claim with a different boolean judgment, a Problem is recorded
// tracing both claims back to their origins. AddClaim reports whether the
// claim was newly added.
func (m *Mind) AddClaim(claim theorymind.Claim, record Record) bool {
	h := bucketHash(claim.Ints, len(m.buckets))
	var contradicted []int
	for _, oldIndex := range m.buckets[h] {
		old := m.Claims[oldIndex]
		if !intsEqual(claim.Ints, old.Ints) {
			continue
		}
		if claim.Bool == old.Bool {
			if recordsEqual(record, m.Records[oldIndex]) {
				return false
			}
			continue
		}
		contradicted = append(contradicted, oldIndex)
	}
	m.addClaimUnchecked(claim, record)
	for _, oldIndex := range contradicted {
		m.addProblem(len(m.Claims)-1, oldIndex)
	}
	return true
}

func (m *Mind) addClaimUnchecked(claim theorymind.Claim, record Record) {
	index := len(m.Claims)
	m.Claims = append(m.Claims, claim)
	m.Records = append(m.Records, record)
	h := bucketHash(claim.Ints, len(m.buckets))
	m.buckets[h] = append(m.buckets[h], index)
	m.logf("added claim %d: %+v", index, claim)
}

func (m *Mind) addProblem(a, b int) {
	m.Problems = append(m.Problems, Problem{A: m.claimTrace(a), B: m.claimTrace(b)})
	m.logf("problem between claims %d and %d", a, b)
}

// claimTrace recursively reconstructs the lineage of claim index i.
func (m *Mind) claimTrace(i int) Trace {
	record := m.Records[i]
	if record.TheoryIndex == -1 {
		return Trace{Leaf: true, ClaimIndex: i}
	}
	touched := make([]Trace, len(record.Path))
	for j, sub := range record.Path {
		touched[j] = m.claimTrace(sub)
	}
	return Trace{TheoryIndex: record.TheoryIndex, Touched: touched}
}

// ExtractNewRoutines repeatedly factors the longest repeated valid
// instruction sequence found across the mind's theories and routines into
// a new routine, until no further extraction is possible or maxToExtract
// extractions have been made (a negative maxToExtract means unbounded).
// It returns the number of routines extracted.
func (m *Mind) ExtractNewRoutines(maxToExtract int) int {
	extracted := 0
	for maxToExtract < 0 || extracted < maxToExtract {
		newTheories, newRoutines, ok := theorymind.ExtractNewRoutine(m.Theories, m.Routines, theorymind.IsValid)
		if !ok {
			break
		}
		m.Theories = newTheories
		m.Routines = newRoutines
		extracted++
		m.logf("extracted routine %d", len(m.Routines)-1)
	}
	return extracted
}

// ReplaceRoutineInstances rewrites every theory, replacing any instruction
// sequence identical to an existing routine's body with a reference to
// that routine.
func (m *Mind) ReplaceRoutineInstances() {
	m.Theories = theorymind.ExtractRoutineInstances(m.Theories, m.Routines)
}

// InlineAndDeleteAllRoutines replaces every routine-referencing exec
// instruction across the mind's theories with that routine's
// implementation, then discards the routine population entirely.
// Theory-referencing exec instructions, including self-references, are
// left untouched.
func (m *Mind) InlineAndDeleteAllRoutines() {
	for i, theory := range m.Theories {
		m.Theories[i] = theorymind.InlineRoutinesOnly(theory, m.Routines)
	}
	m.Routines = nil
}

// DeleteRoutine removes the routine at index i, renumbering every
// exec-routine reference at a higher index down by one. It panics if any
// remaining reference names exactly index i, since spec.md's
// inline-and-delete-underused-routines experiment showed that silently
// renumbering those references is where mismatched indexes crept in; a
// caller that wants to retire a routine still in use should inline it
// first.
func (m *Mind) DeleteRoutine(i int) {
	for _, program := range append(append([]theorymind.Program(nil), m.Theories...), m.Routines...) {
		for _, ins := range program {
			if ins.Op == theorymind.OpExec {
				ref := theorymind.ExecRef(ins.Arg)
				if ref.IsRoutine() && ref.RoutineIndex() == i {
					panic("mind: DeleteRoutine called on a routine still referenced")
				}
			}
		}
	}

	renumber := func(programs []theorymind.Program) {
		for pi, program := range programs {
			for ii, ins := range program {
				if ins.Op != theorymind.OpExec {
					continue
				}
				ref := theorymind.ExecRef(ins.Arg)
				if ref.IsRoutine() && ref.RoutineIndex() > i {
					programs[pi][ii].Arg = int(theorymind.NewRoutineRef(ref.RoutineIndex() - 1))
				}
			}
		}
	}
	renumber(m.Theories)
	renumber(m.Routines)

	m.Routines = append(m.Routines[:i:i], m.Routines[i+1:]...)
}

func bucketHash(ints []int, buckets int) int {
	if buckets == 0 {
		return 0
	}
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range ints {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	return int(h.Sum64() % uint64(buckets))
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func recordsEqual(a, b Record) bool {
	if a.TheoryIndex != b.TheoryIndex || len(a.Path) != len(b.Path) {
		return false
	}
	for i := range a.Path {
		if a.Path[i] != b.Path[i] {
			return false
		}
	}
	return true
}
