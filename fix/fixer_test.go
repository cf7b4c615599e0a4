package fix

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/refit/synth"
)

// fakeOracle accepts candidates by predicate and records every source it
// was asked to test.
type fakeOracle struct {
	accept func(source string) bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeOracle) RunTests(ctx context.Context, source string, tests map[string]int) bool {
	f.mu.Lock()
	f.calls = append(f.calls, source)
	f.mu.Unlock()
	if f.accept == nil {
		return false
	}
	return f.accept(source)
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeOracle) sources() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func newCluster(t *testing.T, name string, pairs ...[2]string) *Cluster {
	t.Helper()
	cluster, err := NewCluster(context.Background(), name, pairs)
	require.NoError(t, err)
	return cluster
}

func TestFixConstantRewrite(t *testing.T) {
	oracle := &fakeOracle{accept: func(source string) bool {
		return SameSource(source, "y = 1")
	}}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
	)
	cluster := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))
	require.NotEmpty(t, fixer.Queue())

	fixed, ok, err := fixer.Fix(context.Background(), "y = 0\n", nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "y = 1", fixed)
}

func TestFixNoProgramMatches(t *testing.T) {
	oracle := &fakeOracle{}
	fixer := NewFixer(oracle)
	cluster := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	_, ok, err := fixer.Fix(context.Background(), "while n:\n    pass\n", nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFixParseErrorSurfaces(t *testing.T) {
	fixer := NewFixer(&fakeOracle{})
	_, _, err := fixer.Fix(context.Background(), "def f(:\n", nil)
	require.Error(t, err)
}

func TestFixRecordsUsedPrograms(t *testing.T) {
	oracle := &fakeOracle{accept: func(source string) bool {
		return SameSource(source, "y = 1")
	}}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
	)
	cluster := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	_, ok, err := fixer.Fix(context.Background(), "y = 0\n", nil)
	require.NoError(t, err)
	require.True(t, ok)

	counts := fixer.UsedPrograms().Counts()
	require.Len(t, counts, 1)
	for program, count := range counts {
		require.Equal(t, 1, count)
		require.Contains(t, program, "Apply(Patch(")
	}
}

func TestFixStaticFilterRejectsRecursion(t *testing.T) {
	// The learned rewrite replaces the helper call with a self-call,
	// which the static tests forbid: the recursive candidate must be
	// rejected before the oracle ever sees it.
	oracle := &fakeOracle{}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
		WithStaticTests(StaticTests{
			FunctionName: "factorial",
			Forbidden:    []string{FeatureRecursion},
		}),
	)
	before := "def factorial(n):\n    return helper(n - 1)\n"
	after := "def factorial(n):\n    return factorial(n - 1)\n"
	cluster := newCluster(t, "self-call", [2]string{before, after})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	_, ok, err := fixer.Fix(context.Background(), before, nil)
	require.NoError(t, err)
	require.False(t, ok)
	for _, source := range oracle.sources() {
		require.False(t, SameSource(source, after),
			"recursive candidate reached the oracle")
	}
}

func TestFixCandidateBound(t *testing.T) {
	oracle := &fakeOracle{}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(
			synth.WithRanking(synth.GeneralRanking()),
			synth.WithTopK(1),
		)),
	)
	cluster := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))
	require.Len(t, fixer.Queue(), 1)

	broken := strings.Repeat("x = 0\n", 250)
	_, ok, err := fixer.Fix(context.Background(), broken, nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 200, oracle.callCount())
}

func TestFixLeaveOneOut(t *testing.T) {
	oracle := &fakeOracle{accept: func(source string) bool {
		return SameSource(source, "c = 1")
	}}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
		WithLeaveOneOut(),
	)
	cluster := newCluster(t, "wrong-init",
		[2]string{"a = 0\n", "a = 1\n"},
		[2]string{"b = 0\n", "b = 1\n"},
		[2]string{"c = 0\n", "c = 1\n"},
	)
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	fixed, ok, err := fixer.Fix(context.Background(), "c = 0\n", nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c = 1", fixed)
}

func TestFixLeaveOneOutSkipsSingletonCluster(t *testing.T) {
	oracle := &fakeOracle{accept: func(string) bool { return true }}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
		WithLeaveOneOut(),
	)
	cluster := newCluster(t, "wrong-init", [2]string{"c = 0\n", "c = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	_, ok, err := fixer.Fix(context.Background(), "c = 0\n", nil)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, oracle.callCount())
}

func TestFixParallel(t *testing.T) {
	oracle := &fakeOracle{accept: func(source string) bool {
		return SameSource(source, "y = 1")
	}}
	fixer := NewFixer(oracle,
		WithLearner(synth.NewLearner(synth.WithRanking(synth.GeneralRanking()))),
		WithParallelism(4),
	)
	cluster := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	require.NoError(t, fixer.Learn([]*Cluster{cluster}))

	fixed, ok, err := fixer.Fix(context.Background(), "y = 0\n", nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "y = 1", fixed)
}

func TestLearnSkipsEmptyDiffClusters(t *testing.T) {
	fixer := NewFixer(&fakeOracle{})
	same := newCluster(t, "unchanged", [2]string{"x = 1\n", "x = 1\n"})
	good := newCluster(t, "wrong-init", [2]string{"x = 0\n", "x = 1\n"})
	err := fixer.Learn([]*Cluster{same, good})
	require.Error(t, err)
	require.NotEmpty(t, fixer.Queue())
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	h.Record("p1")
	h.Record("p1")
	h.Record("p2")
	counts := h.Counts()
	require.Equal(t, 2, counts["p1"])
	require.Equal(t, 1, counts["p2"])

	// Counts returns a copy.
	counts["p1"] = 99
	require.Equal(t, 2, h.Counts()["p1"])
}
