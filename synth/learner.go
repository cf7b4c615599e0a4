package synth

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/cloudcmds/refit/ast"
	"github.com/cloudcmds/refit/diff"
)

// ErrNoProgramLearned indicates that no transformation consistent with
// all provided examples exists in the DSL.
var ErrNoProgramLearned = errors.New("synth: no program consistent with the examples")

// DefaultTopK is the number of ranked programs a learner returns by
// default.
const DefaultTopK = 10

// Example is one learning example: a before tree and the after tree it
// should be transformed into. Both must be wrapped.
type Example struct {
	Before *ast.Node
	After  *ast.Node
}

// Learner synthesizes ranked transformation programs from examples.
type Learner struct {
	ranking RankingScore
	topK    int
	logger  zerolog.Logger
}

// LearnerOption is a configuration function for a Learner.
type LearnerOption func(*Learner)

// WithRanking sets the ranking configuration.
func WithRanking(r RankingScore) LearnerOption {
	return func(l *Learner) {
		l.ranking = r
	}
}

// WithTopK sets how many ranked programs Learn returns.
func WithTopK(k int) LearnerOption {
	return func(l *Learner) {
		l.topK = k
	}
}

// WithLogger sets the logger used for learner tracing.
func WithLogger(logger zerolog.Logger) LearnerOption {
	return func(l *Learner) {
		l.logger = logger
	}
}

// NewLearner returns a Learner. The default configuration uses specific
// ranking and returns up to DefaultTopK programs.
func NewLearner(options ...LearnerOption) *Learner {
	l := &Learner{
		ranking: SpecificRanking(),
		topK:    DefaultTopK,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Learn synthesizes the top-k transformation programs consistent with all
// of the given examples. It returns diff.ErrEmptyDiff when an example has
// nothing to learn from, and ErrNoProgramLearned when the examples admit
// no common transformation.
func (l *Learner) Learn(examples []Example) ([]Program, error) {
	if len(examples) == 0 {
		return nil, ErrNoProgramLearned
	}

	// Witness the edit and its context node in every example.
	ops := make([]diff.Operation, len(examples))
	targets := make([]*ast.Node, len(examples))
	for i, ex := range examples {
		op, d, err := witnessEdit(ex.Before, ex.After)
		if err != nil {
			return nil, err
		}
		op, target, err := witnessContext(op, d)
		if err != nil {
			return nil, err
		}
		ops[i] = op
		targets[i] = target
		l.logger.Debug().
			Int("example", i).
			Stringer("op", op).
			Str("target", string(target.Kind)).
			Msg("witnessed edit")
	}

	// All examples must agree on the edit.
	for i := 1; i < len(ops); i++ {
		if !ops[0].Equivalent(ops[i]) {
			l.logger.Debug().
				Stringer("first", ops[0]).
				Stringer("conflicting", ops[i]).
				Msg("examples disagree on the edit")
			return nil, ErrNoProgramLearned
		}
	}

	// Gather candidate templates from every example, deduplicated.
	var candidates []Template
	for _, target := range targets {
		for _, t := range witnessTemplates(target) {
			duplicate := false
			for _, seen := range candidates {
				if seen.Equal(t) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				candidates = append(candidates, t)
			}
		}
	}

	// Keep the templates whose matches cover the witnessed context in
	// every example.
	var consistent []Template
	for _, t := range candidates {
		ok := true
		for i, ex := range examples {
			if !containsNode(t.Matches(ex.Before), targets[i]) {
				ok = false
				break
			}
		}
		if ok {
			consistent = append(consistent, t)
		}
	}
	if len(consistent) == 0 {
		return nil, ErrNoProgramLearned
	}

	programs := make([]Program, 0, len(consistent))
	for _, t := range consistent {
		programs = append(programs, Program{
			Edit:     Edit{Op: ops[0]},
			Template: t,
			Score:    l.ranking.Score(t),
		})
	}
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].Score > programs[j].Score
	})
	if len(programs) > l.topK {
		programs = programs[:l.topK]
	}
	for i, p := range programs {
		l.logger.Debug().
			Int("rank", i).
			Int("score", p.Score).
			Stringer("program", p).
			Msg("learned program")
	}
	return programs, nil
}

func containsNode(nodes []*ast.Node, target *ast.Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
	}
	return false
}
