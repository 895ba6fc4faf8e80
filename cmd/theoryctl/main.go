// Command theoryctl drives a small population of theorymind minds: it
// seeds each with a starting theory, runs claim generation for a number
// of steps, optionally mutates and extracts routines along the way, and
// dumps the resulting population.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/theorymind"
	"github.com/jcorbin/theorymind/internal/logio"
	"github.com/jcorbin/theorymind/internal/panicerr"
	"github.com/jcorbin/theorymind/mind"
)

func main() {
	var (
		steps    int
		mutate   int
		extract  bool
		parallel int
		seed     int64
		trace    bool
		dump     bool
		useColor bool
		timeout  time.Duration
	)
	flag.IntVar(&steps, "steps", 100, "number of claim-generation steps to run per mind")
	flag.IntVar(&mutate, "mutate", 0, "number of mutation steps to apply to theory 0 before generating claims")
	flag.BoolVar(&extract, "extract", false, "extract new routines after claim generation")
	flag.IntVar(&parallel, "parallel", 1, "number of independent minds to run concurrently")
	flag.Int64Var(&seed, "seed", 1, "random seed for the first mind; subsequent minds use seed+i")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", true, "print a dump of each mind after execution")
	flag.BoolVar(&useColor, "color", false, "colorize dump output")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit for the whole run")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < parallel; i++ {
		i := i
		g.Go(func() error {
			return panicerr.Recover(fmt.Sprintf("mind-%d", i), func() error {
				return runMind(ctx, runConfig{
					index:    i,
					steps:    steps,
					mutate:   mutate,
					extract:  extract,
					seed:     seed + int64(i),
					trace:    trace,
					dump:     dump,
					useColor: useColor,
				}, log.Leveledf(fmt.Sprintf("MIND-%d", i)))
			})
		})
	}

	log.ErrorIf(g.Wait())
}

type runConfig struct {
	index    int
	steps    int
	mutate   int
	extract  bool
	seed     int64
	trace    bool
	dump     bool
	useColor bool
}

// runMind builds a mind seeded with the increment theory from
// seedTheory, runs it for cfg.steps claim-generation steps (checking
// ctx between steps so -timeout can cut a run short), and prints its
// final state if requested.
func runMind(ctx context.Context, cfg runConfig, logf func(string, ...interface{})) error {
	rnd := rand.New(rand.NewSource(cfg.seed))

	var traceFn func(string)
	if cfg.trace {
		traceFn = func(msg string) { logf("%s", msg) }
	}

	m := mind.New(
		mind.WithTheories(seedTheory()),
		mind.WithSeedClaims(seedClaim()),
		mind.WithTrace(traceFn),
	)

	if cfg.mutate > 0 {
		m.Theories[0] = theorymind.Vary(m.Theories, 0, m.Routines,
			theorymind.WithRand(rnd),
			theorymind.WithSteps(cfg.mutate))
	}

	for i := 0; i < cfg.steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.GenerateClaims(rnd)
	}

	if cfg.extract {
		extracted := m.ExtractNewRoutines(-1)
		logf("extracted %d routines", extracted)
	}

	if cfg.dump {
		opts := mind.DefaultDumpOptions()
		opts.Color = cfg.useColor
		if err := m.Dump(os.Stdout, opts); err != nil {
			return err
		}
	}

	return nil
}

// seedTheory builds a small theory that increments the integer payload of
// every claim it is given: for each claim, push its sole integer, add
// one, and store it back.
func seedTheory() theorymind.Program {
	return theorymind.Program{
		{Op: theorymind.OpClaimInt, Arg: 0},
		{Op: theorymind.OpPushConst, Arg: 1},
		{Op: theorymind.OpAdd},
		{Op: theorymind.OpSetClaimInt, Arg: 0},
	}
}

func seedClaim() theorymind.Claim {
	return theorymind.Claim{Bool: true, Ints: []int{0}}
}
