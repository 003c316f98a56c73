package swing

import "strings"

// Score deltas and thresholds of the rule table.
const (
	baseScore = 50

	addressIdealMin = 40
	addressIdealMax = 55
	addressBonus    = 10

	balanceProThreshold    = 80
	balanceStableThreshold = 60
	balanceProBonus        = 20
	balanceStableBonus     = 10
	balancePenalty         = 10

	slicePenalty = 20
	hookPenalty  = 10
	timingBonus  = 10
)

// Result is the external-facing outcome of one analysis.
type Result struct {
	// ConsistencyScore is the aggregate swing quality in the range 0 to 100.
	ConsistencyScore int `json:"consistency_score"`

	// Comment concatenates the clause of every rule that fired, in rule
	// order, each followed by a single space.
	Comment string `json:"comment"`
}

// Score evaluates the rule table against m with English comments.
func Score(m Metrics) Result {
	return ScoreIn(LangEnglish, m)
}

// ScoreIn evaluates the rule table against m, taking comment clauses from the
// catalog for lang.
//
// Rules run in a fixed order from a base of 50:
//
//	address  40..55 → +10 | <40 → 0 | >55 → 0
//	balance  >80 → +20 | >60 → +10 | else → -10
//	path     Out-In & Late → -20 | In-Out & Early → -10 | Good → +10 | else nothing
//
// The total is clamped to [0, 100].
func ScoreIn(lang Language, m Metrics) Result {
	score := baseScore
	var b strings.Builder
	add := func(c clause, delta int) {
		score += delta
		b.WriteString(lang.text(c))
		b.WriteByte(' ')
	}

	switch {
	case m.AddressScore >= addressIdealMin && m.AddressScore <= addressIdealMax:
		add(clauseAddressIdeal, addressBonus)
	case m.AddressScore < addressIdealMin:
		add(clauseAddressLow, 0)
	default:
		add(clauseAddressUpright, 0)
	}

	switch {
	case m.BalanceScore > balanceProThreshold:
		add(clauseBalancePro, balanceProBonus)
	case m.BalanceScore > balanceStableThreshold:
		add(clauseBalanceStable, balanceStableBonus)
	default:
		add(clauseBalanceLosing, -balancePenalty)
	}

	switch {
	case m.SwingPath == PathOutIn && m.ImpactTiming == TimingLate:
		add(clauseSliceRisk, -slicePenalty)
	case m.SwingPath == PathInOut && m.ImpactTiming == TimingEarly:
		add(clauseHookRisk, -hookPenalty)
	case m.ImpactTiming == TimingGood:
		add(clauseTimingPerfect, timingBonus)
	}

	return Result{
		ConsistencyScore: clamp(score, 0, 100),
		Comment:          b.String(),
	}
}

// clamp restricts v to the range [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
