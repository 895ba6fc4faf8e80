// Package theorymind implements a small stack-based symbolic interpreter:
// a typed-stack bytecode language whose programs reason over claims
// (propositions with optional integer payloads), a mutation engine that
// samples validity-preserving program variants, and a routine extractor
// that finds repeated substructure worth factoring into a subroutine.
//
// The package performs no I/O and owns no logger; callers (see the mind
// package and cmd/theoryctl) wire tracing and printing around it.
package theorymind

import "fmt"

// Instruction is one decoded step of a program: an opcode plus its
// argument, if the opcode takes one.
type Instruction struct {
	Op  Opcode
	Arg int
}

// Program is a flat sequence of instructions. Index 0 is the entry point.
type Program []Instruction

// Clone returns an independent copy of p.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	copy(out, p)
	return out
}

func (ins Instruction) String() string {
	if len(ins.Op.ArgTypes()) == 0 {
		return ins.Op.String()
	}
	return fmt.Sprintf("%s %d", ins.Op, ins.Arg)
}

// Claim is a single proposition: a boolean judgment together with a list
// of associated integers. Claims are immutable once placed on the
// claim-stack; instructions that "set" a claim produce a new Claim value
// and replace the top claim-stack entry with it, they never mutate a
// shared one in place.
type Claim struct {
	Bool bool
	Ints []int
}

// Clone returns an independent copy of c.
func (c Claim) Clone() Claim {
	out := c
	if c.Ints != nil {
		out.Ints = append([]int(nil), c.Ints...)
	}
	return out
}

// ClaimSet is an ordered, non-empty collection of Claim alternatives
// occupying a single claim-stack slot. A ClaimSet of length 1 is still a
// set, distinct from a bare Claim: see ClaimStackEntry.
type ClaimSet []Claim

// Clone returns an independent copy of s.
func (s ClaimSet) Clone() ClaimSet {
	out := make(ClaimSet, len(s))
	for i, c := range s {
		out[i] = c.Clone()
	}
	return out
}

// ClaimStackEntry is one slot of the claim-stack. It is a tagged sum: Set
// is always populated, but IsSet records whether the entry was produced as
// a genuine set (true, even with a single member) or as a bare claim
// pushed by an instruction that does not know about forking (false).
// Forking instructions fork when IsSet is true and Set has other than
// exactly one member; a one-member set is read as its sole claim, and an
// empty set forks into no branches.
type ClaimStackEntry struct {
	Set   ClaimSet
	IsSet bool
}

// single wraps one Claim as a non-set entry.
func single(c Claim) ClaimStackEntry {
	return ClaimStackEntry{Set: ClaimSet{c}}
}

// asSet wraps a ClaimSet as a set entry.
func asSet(s ClaimSet) ClaimStackEntry {
	return ClaimStackEntry{Set: s, IsSet: true}
}

// Claim returns the entry's sole claim. It panics if the entry holds a
// multi-member set; callers must fork before reaching here in that case.
func (e ClaimStackEntry) Claim() Claim {
	if len(e.Set) != 1 {
		panic("theorymind: ClaimStackEntry.Claim called on a multi-member set")
	}
	return e.Set[0]
}

// Clone returns an independent copy of e.
func (e ClaimStackEntry) Clone() ClaimStackEntry {
	return ClaimStackEntry{Set: e.Set.Clone(), IsSet: e.IsSet}
}

// Theory names a stored, runnable program together with the claims it
// has produced so far. The mind package does not use this type: a Mind
// keeps its theories as plain Programs in Mind.Theories.
type Theory struct {
	Program Program
	Claims  []Claim
}

// ExecRef decodes the argument of an exec instruction. Non-negative values
// name a routine by index; negative values name a theory by index using
// the encoding -(1+theoryIndex), freeing 0 to mean "routine 0" instead of
// colliding with "theory 0".
type ExecRef int

// IsRoutine reports whether the reference names a routine.
func (r ExecRef) IsRoutine() bool { return r >= 0 }

// RoutineIndex returns the referenced routine index. Only valid when
// IsRoutine is true.
func (r ExecRef) RoutineIndex() int { return int(r) }

// TheoryIndex returns the referenced theory index. Only valid when
// IsRoutine is false.
func (r ExecRef) TheoryIndex() int { return -int(r) - 1 }

// NewRoutineRef builds an ExecRef naming a routine.
func NewRoutineRef(i int) ExecRef { return ExecRef(i) }

// NewTheoryRef builds an ExecRef naming a theory.
func NewTheoryRef(i int) ExecRef { return ExecRef(-(1 + i)) }
