package theorymind

// Inline expands every exec instruction in theories[theoryIndex] in place,
// substituting the referenced routine's or theory's instructions for the
// exec instruction itself. Expansion rescans left to right from the
// insertion point, so a substituted body containing its own exec
// instructions is itself expanded (fixed point). An exec that names the
// theory being inlined (a self-reference) is dropped rather than expanded,
// since inlining it would never terminate.
func Inline(theoryIndex int, theories []Program, routines []Program) Program {
	return inline(theoryIndex, theories, routines, true)
}

// InlineRoutinesOnly expands every routine-referencing exec instruction in
// p, leaving theory-referencing exec instructions untouched (not even
// self-references are dropped). Used when routines are being retired from
// a population but cross-theory references should survive.
func InlineRoutinesOnly(p Program, routines []Program) Program {
	return inline(-1, []Program{p}, routines, false)
}

func inline(theoryIndex int, theories []Program, routines []Program, inlineTheories bool) Program {
	theoryAt := theoryIndex
	if theoryAt < 0 {
		theoryAt = 0
	}
	theory := theories[theoryAt].Clone()

	index := 0
	for index < len(theory) {
		ins := theory[index]
		if ins.Op != OpExec {
			index++
			continue
		}
		ref := ExecRef(ins.Arg)
		if ref.IsRoutine() {
			theory = spliceProgram(theory, index, routines[ref.RoutineIndex()])
			continue
		}
		if !inlineTheories {
			index++
			continue
		}
		execTheoryIndex := ref.TheoryIndex()
		if execTheoryIndex == theoryIndex {
			theory = append(theory[:index], theory[index+1:]...)
			continue
		}
		theory = spliceProgram(theory, index, theories[execTheoryIndex])
	}

	return theory
}

// spliceProgram replaces the instruction at index with the instructions of
// body, returning the resulting program. The scan position stays at index
// so the caller rescans into the spliced-in content.
func spliceProgram(p Program, index int, body Program) Program {
	out := make(Program, 0, len(p)-1+len(body))
	out = append(out, p[:index]...)
	out = append(out, body...)
	out = append(out, p[index+1:]...)
	return out
}

// ExecutionOutput is one terminal result of running a theory: the sequence
// of fork choices taken to reach it (empty if the run never forked) and
// the single claim left on top of the claim-stack when the program
// counter ran off the end of the program.
type ExecutionOutput struct {
	Path  []int
	Claim Claim
}

// DefaultStepLimit bounds the number of instructions a single execution
// branch may take before it is abandoned as non-terminating.
const DefaultStepLimit = 100

// Run executes theories[theoryIndex] against input, after inlining all
// exec instructions (see Inline). A program that fails IsValid after
// inlining yields no output. Execution starts with input as the sole
// claim-stack entry. If a forking instruction observes a multi-claim set
// on top of the claim-stack, execution forks into one branch per member,
// explored in order; the outputs of all branches are concatenated into
// the result. A one-member set is read as its sole claim without forking.
// Branches that trap, that run past limit steps, or that terminate with
// an empty claim-stack or with a set of other than one member on top of
// the claim-stack contribute no output.
func Run(theoryIndex int, theories []Program, routines []Program, input ClaimSet, limit int) []ExecutionOutput {
	program := Inline(theoryIndex, theories, routines)
	if !IsValid(program) {
		return nil
	}
	jumps := controlMap(program)

	initial := execState{
		pointer: 0,
		claims:  []ClaimStackEntry{asSet(input.Clone())},
	}
	return runBranch(program, jumps, initial, nil, limit, 0)
}

// execState is the mutable machine state threaded through runBranch. It is
// always copied, never shared, across a fork.
type execState struct {
	pointer   int
	ints      []int
	claims    []ClaimStackEntry
	forCounts []int
}

func (s execState) clone() execState {
	out := execState{
		pointer: s.pointer,
		ints:    append([]int(nil), s.ints...),
		claims:  make([]ClaimStackEntry, len(s.claims)),
	}
	for i, c := range s.claims {
		out.claims[i] = c.Clone()
	}
	out.forCounts = append([]int(nil), s.forCounts...)
	return out
}

func runBranch(program Program, jumps map[int]int, state execState, path []int, limit, steps int) []ExecutionOutput {
	for {
		if state.pointer >= len(program) {
			if len(state.claims) == 0 {
				return nil
			}
			top := state.claims[len(state.claims)-1]
			if len(top.Set) != 1 {
				return nil
			}
			return []ExecutionOutput{{Path: append([]int(nil), path...), Claim: top.Claim()}}
		}

		ins := program[state.pointer]

		if IsForking(ins.Op) && len(state.claims) > 0 {
			if top := state.claims[len(state.claims)-1]; top.IsSet && len(top.Set) != 1 {
				var outputs []ExecutionOutput
				for i, member := range top.Set {
					branch := state.clone()
					branch.claims[len(branch.claims)-1] = single(member)
					branchPath := append(append([]int(nil), path...), i)
					outputs = append(outputs, runBranch(program, jumps, branch, branchPath, limit, steps)...)
				}
				return outputs
			}
		}

		ok, next := step(program, jumps, &state, ins)
		if !ok {
			return nil
		}
		state.pointer = next

		steps++
		if steps >= limit {
			return nil
		}
	}
}

// step executes one non-forking instruction in place, returning the new
// program counter. It reports false if the instruction traps.
func step(program Program, jumps map[int]int, s *execState, ins Instruction) (ok bool, next int) {
	pointer := s.pointer
	ints := &s.ints

	popInt := func() (int, bool) {
		n := len(*ints)
		if n < 1 {
			return 0, false
		}
		v := (*ints)[n-1]
		*ints = (*ints)[:n-1]
		return v, true
	}
	topClaim := func() (*ClaimStackEntry, bool) {
		n := len(s.claims)
		if n < 1 {
			return nil, false
		}
		return &s.claims[n-1], true
	}
	claimIntIndex := func(cl Claim, arg int) (int, bool) {
		if arg < 0 {
			if -arg > len(cl.Ints) {
				return 0, false
			}
			return len(cl.Ints) + arg, true
		}
		if arg >= len(cl.Ints) {
			return 0, false
		}
		return arg, true
	}

	switch ins.Op {
	case OpIf, OpWhile:
		n := len(*ints)
		if n < 1 {
			return false, 0
		}
		cond := (*ints)[n-1]
		if cond != 0 {
			return true, pointer + 1
		}
		return true, jumps[pointer] + 1

	case OpElse:
		return true, jumps[pointer] + 1

	case OpFor:
		n := len(*ints)
		if n < 1 {
			return false, 0
		}
		count := (*ints)[n-1]
		if count > 0 {
			s.forCounts = append(s.forCounts, count)
			return true, pointer + 1
		}
		return true, jumps[pointer] + 1

	case OpEnd:
		start := jumps[pointer]
		switch program[start].Op {
		case OpIf, OpElse:
			return true, pointer + 1
		case OpWhile:
			return true, start
		case OpFor:
			n := len(s.forCounts)
			s.forCounts[n-1]--
			if s.forCounts[n-1] <= 0 {
				s.forCounts = s.forCounts[:n-1]
				return true, pointer + 1
			}
			return true, start + 1
		default:
			return true, pointer + 1
		}

	case OpForwardInt:
		idx := ins.Arg
		if idx+1 >= len(*ints) {
			return false, 0
		}
		pos := len(*ints) - 2 - idx
		v := (*ints)[pos]
		*ints = append((*ints)[:pos], (*ints)[pos+1:]...)
		*ints = append(*ints, v)

	case OpSwapInt:
		idx := ins.Arg
		if idx+1 >= len(*ints) {
			return false, 0
		}
		pos := len(*ints) - 2 - idx
		(*ints)[pos], (*ints)[len(*ints)-1] = (*ints)[len(*ints)-1], (*ints)[pos]

	case OpDuplicateInt:
		idx := ins.Arg
		if idx >= len(*ints) {
			return false, 0
		}
		pos := len(*ints) - 1 - idx
		*ints = append(*ints, (*ints)[pos])

	case OpRemoveInt:
		idx := ins.Arg
		if idx >= len(*ints) {
			return false, 0
		}
		pos := len(*ints) - 1 - idx
		*ints = append((*ints)[:pos], (*ints)[pos+1:]...)

	case OpForwardClaimSet:
		idx := ins.Arg
		if idx+1 >= len(s.claims) {
			return false, 0
		}
		pos := len(s.claims) - 2 - idx
		v := s.claims[pos]
		s.claims = append(s.claims[:pos], s.claims[pos+1:]...)
		s.claims = append(s.claims, v)

	case OpSwapClaimSet:
		idx := ins.Arg
		if idx+1 >= len(s.claims) {
			return false, 0
		}
		pos := len(s.claims) - 2 - idx
		s.claims[pos], s.claims[len(s.claims)-1] = s.claims[len(s.claims)-1], s.claims[pos]

	case OpDuplicateClaimSet:
		idx := ins.Arg
		if idx >= len(s.claims) {
			return false, 0
		}
		pos := len(s.claims) - 1 - idx
		s.claims = append(s.claims, s.claims[pos].Clone())

	case OpRemoveClaimSet:
		idx := ins.Arg
		if idx >= len(s.claims) {
			return false, 0
		}
		pos := len(s.claims) - 1 - idx
		s.claims = append(s.claims[:pos], s.claims[pos+1:]...)

	case OpPushConst:
		*ints = append(*ints, ins.Arg)

	case OpAdd:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		*ints = append(*ints, (*ints)[n-1]+(*ints)[n-2])

	case OpEqual:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		v := 0
		if (*ints)[n-1] == (*ints)[n-2] {
			v = 1
		}
		*ints = append(*ints, v)

	case OpLess:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		v := 0
		if (*ints)[n-1] < (*ints)[n-2] {
			v = 1
		}
		*ints = append(*ints, v)

	case OpNegate:
		n := len(*ints)
		if n < 1 {
			return false, 0
		}
		*ints = append(*ints, -(*ints)[n-1])

	case OpNot:
		n := len(*ints)
		if n < 1 {
			return false, 0
		}
		v := 0
		if (*ints)[n-1] == 0 {
			v = 1
		}
		*ints = append(*ints, v)

	case OpAnd:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		v := 0
		if (*ints)[n-1] != 0 && (*ints)[n-2] != 0 {
			v = 1
		}
		*ints = append(*ints, v)

	case OpOr:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		v := 0
		if (*ints)[n-1] != 0 || (*ints)[n-2] != 0 {
			v = 1
		}
		*ints = append(*ints, v)

	case OpXor:
		n := len(*ints)
		if n < 2 {
			return false, 0
		}
		v := 0
		if ((*ints)[n-1] != 0) != ((*ints)[n-2] != 0) {
			v = 1
		}
		*ints = append(*ints, v)

	case OpIntCount:
		*ints = append(*ints, len(*ints))

	case OpClaimSetCount:
		*ints = append(*ints, len(s.claims))

	case OpClaimIntCount:
		top, ok := topClaim()
		if !ok {
			return false, 0
		}
		*ints = append(*ints, len(top.Claim().Ints))

	case OpClaimBool:
		top, ok := topClaim()
		if !ok {
			return false, 0
		}
		v := 0
		if top.Claim().Bool {
			v = 1
		}
		*ints = append(*ints, v)

	case OpClaimInt:
		top, ok := topClaim()
		if !ok {
			return false, 0
		}
		cl := top.Claim()
		idx, ok := claimIntIndex(cl, ins.Arg)
		if !ok {
			return false, 0
		}
		*ints = append(*ints, cl.Ints[idx])

	case OpNewClaim:
		s.claims = append(s.claims, single(Claim{Bool: true}))

	case OpSetClaimBool:
		v, ok := popInt()
		top, ok2 := topClaim()
		if !ok || !ok2 {
			return false, 0
		}
		cl := top.Claim().Clone()
		cl.Bool = v != 0
		*top = single(cl)

	case OpSetClaimInt:
		v, ok := popInt()
		top, ok2 := topClaim()
		if !ok || !ok2 {
			return false, 0
		}
		cl := top.Claim()
		idx, ok3 := claimIntIndex(cl, ins.Arg)
		if !ok3 {
			return false, 0
		}
		cl = cl.Clone()
		cl.Ints[idx] = v
		*top = single(cl)

	case OpPushClaimInt:
		v, ok := popInt()
		top, ok2 := topClaim()
		if !ok || !ok2 {
			return false, 0
		}
		cl := top.Claim().Clone()
		cl.Ints = append(cl.Ints, v)
		*top = single(cl)

	case OpRemoveClaimInt:
		top, ok := topClaim()
		if !ok {
			return false, 0
		}
		cl := top.Claim()
		idx, ok2 := claimIntIndex(cl, ins.Arg)
		if !ok2 {
			return false, 0
		}
		cl = cl.Clone()
		cl.Ints = append(cl.Ints[:idx], cl.Ints[idx+1:]...)
		*top = single(cl)

	case OpAssert:
		n := len(*ints)
		if n < 1 || (*ints)[n-1] == 0 {
			return false, 0
		}

	case OpExec:
		// Fully eliminated by Inline before execution reaches step.
	}

	return true, pointer + 1
}
