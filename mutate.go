package theorymind

import "math/rand"

// Mutation kind weights, in the order insertion, deletion, inline.
var mutationTypeDistribution = [3]float64{0.4, 0.4, 0.2}

// Insertion sub-kind weights, in the order basic instruction, theory
// reference, routine reference.
var insertionTypeDistribution = [3]float64{0.9, 0.05, 0.05}

// MutateOption configures a call to Vary.
type MutateOption interface {
	apply(*mutateOptions)
}

type mutateOptions struct {
	rnd   *rand.Rand
	steps int
}

type mutateOptionFunc func(*mutateOptions)

func (f mutateOptionFunc) apply(o *mutateOptions) { f(o) }

// WithRand supplies the random source Vary draws from. Tests use this to
// get a deterministic sequence; callers that pass none get a new source
// with the fixed seed 1, so every such call draws the same sequence.
func WithRand(rnd *rand.Rand) MutateOption {
	return mutateOptionFunc(func(o *mutateOptions) { o.rnd = rnd })
}

// WithSteps sets the number of accepted mutations Vary applies before
// returning. Defaults to 1.
func WithSteps(steps int) MutateOption {
	return mutateOptionFunc(func(o *mutateOptions) { o.steps = steps })
}

func defaultMutateOptions() mutateOptions {
	return mutateOptions{
		rnd:   rand.New(rand.NewSource(1)),
		steps: 1,
	}
}

// Vary produces a variant of theories[theoryIndex] by repeatedly sampling
// a candidate mutation (insertion, deletion, or inline) and keeping it
// only if the result passes IsValid; invalid candidates are discarded and
// resampled from scratch rather than repaired. It never mutates its
// inputs.
func Vary(theories []Program, theoryIndex int, routines []Program, opts ...MutateOption) Program {
	o := defaultMutateOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	current := theories[theoryIndex].Clone()
	steps := o.steps

	for steps > 0 {
		candidate, ok := mutateOnce(current, theories, theoryIndex, routines, o.rnd)
		if !ok {
			continue
		}
		if IsValid(candidate) {
			current = candidate
			steps--
		}
	}

	return current
}

func mutateOnce(theory Program, theories []Program, theoryIndex int, routines []Program, rnd *rand.Rand) (Program, bool) {
	switch chooseFromDistribution(rnd, mutationTypeDistribution[:]) {
	case 0:
		return mutateInsert(theory, theories, theoryIndex, routines, rnd)
	case 1:
		return mutateDelete(theory, rnd)
	default:
		return mutateInline(theory, theories, routines, rnd)
	}
}

func mutateInsert(theory Program, theories []Program, theoryIndex int, routines []Program, rnd *rand.Rand) (Program, bool) {
	insertionIndex := rnd.Intn(len(theory) + 1)

	switch chooseFromDistribution(rnd, insertionTypeDistribution[:]) {
	case 0:
		op := Opcode(rnd.Intn(NumOpcodes - 1)) // exec is last and excluded
		ins := Instruction{Op: op}
		for _, kind := range op.ArgTypes() {
			if kind == ArgNonNegInt {
				ins.Arg = randomNonNegInt(rnd)
			} else {
				ins.Arg = randomInt(rnd)
			}
		}

		out := insertAt(theory, insertionIndex, ins)
		if IsBlockStarter(op) {
			endIndex := insertionIndex + 1 + randomNonNegInt(rnd)
			if endIndex > len(out) {
				endIndex = len(out)
			}
			out = insertAt(out, endIndex, Instruction{Op: OpEnd})
		}
		return out, true

	case 1:
		if len(theories) == 1 {
			return nil, false
		}
		chosen := chooseOtherTheory(rnd, len(theories), theoryIndex)
		ins := Instruction{Op: OpExec, Arg: int(NewTheoryRef(chosen))}
		return insertAt(theory, insertionIndex, ins), true

	default:
		if len(routines) == 0 {
			return nil, false
		}
		chosen := rnd.Intn(len(routines))
		ins := Instruction{Op: OpExec, Arg: int(NewRoutineRef(chosen))}
		return insertAt(theory, insertionIndex, ins), true
	}
}

func mutateDelete(theory Program, rnd *rand.Rand) (Program, bool) {
	if len(theory) == 0 {
		return nil, false
	}

	deletionIndex := rnd.Intn(len(theory))
	op := theory[deletionIndex].Op
	out := append(append(Program(nil), theory[:deletionIndex]...), theory[deletionIndex+1:]...)

	if IsBlockStarter(op) {
		depth := 1
		for i := deletionIndex; i < len(out); i++ {
			switch {
			case IsBlockStarter(out[i].Op):
				depth++
			case out[i].Op == OpEnd:
				depth--
			}
			if depth == 0 {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}

	if op == OpEnd {
		depth := 1
		for i := deletionIndex - 1; i >= 0; i-- {
			switch {
			case IsBlockStarter(out[i].Op):
				depth--
			case out[i].Op == OpEnd:
				depth++
			}
			if depth == 0 {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}

	return out, true
}

func mutateInline(theory Program, theories []Program, routines []Program, rnd *rand.Rand) (Program, bool) {
	var execIndexes []int
	for i, ins := range theory {
		if ins.Op == OpExec {
			execIndexes = append(execIndexes, i)
		}
	}
	if len(execIndexes) == 0 {
		return nil, false
	}

	execIndex := execIndexes[rnd.Intn(len(execIndexes))]
	ref := ExecRef(theory[execIndex].Arg)

	var body Program
	if ref.IsRoutine() {
		body = routines[ref.RoutineIndex()]
	} else {
		body = theories[ref.TheoryIndex()]
	}

	return spliceProgram(theory, execIndex, body), true
}

func insertAt(p Program, index int, ins Instruction) Program {
	out := make(Program, 0, len(p)+1)
	out = append(out, p[:index]...)
	out = append(out, ins)
	out = append(out, p[index:]...)
	return out
}

// chooseOtherTheory picks uniformly among theory indexes other than
// exclude. It assumes len(theories) > 1.
func chooseOtherTheory(rnd *rand.Rand, theoryCount, exclude int) int {
	pick := rnd.Intn(theoryCount - 1)
	if pick >= exclude {
		pick++
	}
	return pick
}

// chooseFromDistribution samples an index from d, a list of
// non-negative weights summing to 1, in the same left-to-right
// cumulative-subtraction style as the source distribution sampler.
func chooseFromDistribution(rnd *rand.Rand, d []float64) int {
	choice := rnd.Float64()
	for i, weight := range d {
		choice -= weight
		if choice <= 0 {
			return i
		}
	}
	return len(d) - 1
}

// randomNonNegInt returns a geometrically distributed positive integer:
// the number of trials until the first success of a fair coin, i.e.
// P(n) = 0.5^n for n >= 1.
func randomNonNegInt(rnd *rand.Rand) int {
	n := 1
	for rnd.Float64() >= 0.5 {
		n++
	}
	return n
}

// randomInt returns a signed integer: with probability 1/2,
// randomNonNegInt(); otherwise -(1+randomNonNegInt()). Since
// randomNonNegInt never returns less than 1, this support is
// {1, 2, ...} union {-2, -3, ...}: 0 and -1 are never produced.
func randomInt(rnd *rand.Rand) int {
	if rnd.Float64() > 0.5 {
		return randomNonNegInt(rnd)
	}
	return -(1 + randomNonNegInt(rnd))
}
