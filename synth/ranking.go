package synth

// ScoreForContext values for the two ranking modes. Specific mode rewards
// templates that include the edit locus's parent context; general mode
// rewards templates that leave it out.
const (
	ScoreSpecific = 100
	ScoreGeneral  = -100
)

// RankingScore configures program ranking. It is threaded into each
// learner invocation rather than held in process state, and must not be
// mutated while learning is in progress.
type RankingScore struct {
	// ScoreForContext biases template selection toward (positive) or
	// away from (negative) parent context.
	ScoreForContext int
}

// SpecificRanking returns the ranking configuration that prefers
// templates with parent context.
func SpecificRanking() RankingScore {
	return RankingScore{ScoreForContext: ScoreSpecific}
}

// GeneralRanking returns the ranking configuration that prefers templates
// without parent context.
func GeneralRanking() RankingScore {
	return RankingScore{ScoreForContext: ScoreGeneral}
}

// abstractPenalty is the per-node cost of abstraction. It outweighs the
// size advantage an abstract template gains by dropping children, so for
// the small fragments templates are built from, a concrete template
// outranks its abstract copy at the same context level.
const abstractPenalty = 5

// Score ranks a template. Beyond the context bias, smaller templates and
// templates with fewer abstract nodes score higher.
func (r RankingScore) Score(t Template) int {
	score := 0
	if t.HasParentContext() {
		score += r.ScoreForContext
	} else {
		score -= r.ScoreForContext
	}
	score -= t.Size()
	score -= abstractPenalty * t.AbstractCount()
	return score
}
