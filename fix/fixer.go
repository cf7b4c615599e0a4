// Package fix runs learned transformation programs against broken
// submissions until one of the rewrites passes the tests.
package fix

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/parser"
	"github.com/cloudcmds/refit/synth"
)

// maxCandidates bounds how many rewrites of one program are tried when a
// template matches in very many places.
const maxCandidates = 200

// Oracle decides whether a candidate source passes its tests.
type Oracle interface {
	RunTests(ctx context.Context, source string, tests map[string]int) bool
}

// RankedProgram pairs a learned program with the mistake cluster it was
// learned from.
type RankedProgram struct {
	Cluster *Cluster
	Program synth.Program
}

// Fixer tries ranked transformation programs against broken submissions.
type Fixer struct {
	oracle      Oracle
	learner     *synth.Learner
	logger      zerolog.Logger
	static      *StaticTests
	leaveOneOut bool
	parallelism int
	queue       []RankedProgram
	used        *Histogram
}

// FixerOption is a configuration function for a Fixer.
type FixerOption func(*Fixer)

// WithLogger sets the fixer's logger.
func WithLogger(logger zerolog.Logger) FixerOption {
	return func(f *Fixer) {
		f.logger = logger
	}
}

// WithLearner sets the learner used for cluster learning and
// leave-one-out re-learning.
func WithLearner(l *synth.Learner) FixerOption {
	return func(f *Fixer) {
		f.learner = l
	}
}

// WithStaticTests installs a static-feature filter applied to every
// candidate before the oracle runs.
func WithStaticTests(s StaticTests) FixerOption {
	return func(f *Fixer) {
		f.static = &s
	}
}

// WithLeaveOneOut enables leave-one-out evaluation: when the submission
// being fixed is itself an example of a program's cluster, the program is
// re-learned without it first.
func WithLeaveOneOut() FixerOption {
	return func(f *Fixer) {
		f.leaveOneOut = true
	}
}

// WithParallelism sets how many programs are tried concurrently. Values
// below 2 keep the sequential ranked order; with parallelism the first
// success wins and outstanding work is cancelled.
func WithParallelism(n int) FixerOption {
	return func(f *Fixer) {
		f.parallelism = n
	}
}

// NewFixer returns a Fixer that consults the given oracle.
func NewFixer(oracle Oracle, options ...FixerOption) *Fixer {
	f := &Fixer{
		oracle: oracle,
		logger: zerolog.Nop(),
		used:   NewHistogram(),
	}
	for _, opt := range options {
		opt(f)
	}
	if f.learner == nil {
		f.learner = synth.NewLearner()
	}
	return f
}

// UsedPrograms returns the histogram of programs that produced accepted
// fixes.
func (f *Fixer) UsedPrograms() *Histogram {
	return f.used
}

// Queue returns the current ranked program queue.
func (f *Fixer) Queue() []RankedProgram {
	return f.queue
}

// Learn learns programs from each cluster and appends them to the ranked
// queue. Clusters that yield nothing to learn are skipped; their errors
// are aggregated into the returned error, which callers may treat as
// advisory.
func (f *Fixer) Learn(clusters []*Cluster) error {
	var errs *multierror.Error
	for _, cluster := range clusters {
		programs, err := f.learner.Learn(cluster.examples(""))
		if err != nil {
			f.logger.Warn().
				Err(err).
				Str("cluster", cluster.Name).
				Msg("nothing learned from cluster")
			errs = multierror.Append(errs, err)
			continue
		}
		for _, p := range programs {
			f.queue = append(f.queue, RankedProgram{Cluster: cluster, Program: p})
		}
		f.logger.Info().
			Str("cluster", cluster.Name).
			Int("programs", len(programs)).
			Msg("learned cluster programs")
	}
	return errs.ErrorOrNil()
}

// Fix parses the broken source and tries every queued program in ranked
// order, returning the first rewritten source accepted by the oracle.
// The second return value reports whether a fix was found. Fix returns a
// non-nil error only when the broken source cannot be parsed.
func (f *Fixer) Fix(ctx context.Context, source string, tests map[string]int) (string, bool, error) {
	broken, err := parser.Parse(ctx, source)
	if err != nil {
		return "", false, err
	}
	if f.parallelism > 1 {
		fixed, ok := f.fixParallel(ctx, source, broken, tests)
		return fixed, ok, nil
	}
	for _, rp := range f.queue {
		if ctx.Err() != nil {
			return "", false, nil
		}
		if fixed, ok := f.tryProgram(ctx, rp, source, broken, tests); ok {
			return fixed, true, nil
		}
	}
	return "", false, nil
}

// tryProgram runs one ranked program against the broken tree, applying
// leave-one-out re-learning, the candidate bound, the static filter, and
// the oracle.
func (f *Fixer) tryProgram(ctx context.Context, rp RankedProgram, source string, broken *ast.Node, tests map[string]int) (string, bool) {
	programs := []synth.Program{rp.Program}
	if f.leaveOneOut && rp.Cluster != nil && rp.Cluster.contains(source) {
		remaining := rp.Cluster.examples(source)
		if len(remaining) == 0 {
			return "", false
		}
		relearned, err := f.learner.Learn(remaining)
		if err != nil {
			f.logger.Debug().
				Err(err).
				Str("cluster", rp.Cluster.Name).
				Msg("leave-one-out re-learning failed")
			return "", false
		}
		programs = relearned
	}
	for _, program := range programs {
		candidates := program.Apply(broken)
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		for _, candidate := range candidates {
			if ctx.Err() != nil {
				return "", false
			}
			if f.static != nil && !f.static.Check(candidate) {
				continue
			}
			fixed := candidate.String()
			if f.oracle.RunTests(ctx, fixed, tests) {
				f.used.Record(program.String())
				f.logger.Info().
					Stringer("program", program).
					Msg("candidate accepted")
				return fixed, true
			}
		}
	}
	return "", false
}

// fixParallel distributes the ranked queue over workers; the first
// success wins and cancels outstanding oracle subprocesses.
func (f *Fixer) fixParallel(ctx context.Context, source string, broken *ast.Node, tests map[string]int) (string, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan RankedProgram)
	results := make(chan string, f.parallelism)
	var wg sync.WaitGroup
	for i := 0; i < f.parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rp := range jobs {
				if fixed, ok := f.tryProgram(ctx, rp, source, broken, tests); ok {
					select {
					case results <- fixed:
					default:
					}
					cancel()
					return
				}
			}
		}()
	}
	for _, rp := range f.queue {
		select {
		case jobs <- rp:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	fixed, ok := <-results
	return fixed, ok
}
