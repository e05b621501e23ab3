package oddsmath

// Verdict tags a priced side against the model.
type Verdict string

const (
	VerdictValue       Verdict = "value"
	VerdictFair        Verdict = "fair"
	VerdictUnavailable Verdict = "unavailable"
)

// DefaultValueThreshold is the edge, in percentage points, a side must exceed
// to be tagged value.
const DefaultValueThreshold = 2.0

// ExpectedValue returns the net return of a one-unit stake:
// EV = p × (decimal − 1) − (1 − p), rounded to two places.
// winProbability is a percentage. No market (odds 0) means no EV.
func ExpectedValue(winProbability float64, american int) float64 {
	if american == 0 {
		return 0
	}

	dec := AmericanToDecimal(american)
	p := winProbability / 100.0

	return round2(p*(dec-1.0) - (1.0 - p))
}

// Edge is the model probability minus the market's implied probability, both
// in percent. A price of 0 yields the raw model probability; use EdgeOK when
// the distinction matters.
func Edge(aiProbability float64, american int) float64 {
	return aiProbability - ImpliedProbability(american)
}

// EdgeOK reports the edge and whether a market exists for it.
func EdgeOK(aiProbability float64, american int) (float64, bool) {
	implied, ok := ImpliedProbabilityOK(american)
	if !ok {
		return 0, false
	}
	return aiProbability - implied, true
}

// ClassifyEdge tags an edge as value when it is strictly above threshold.
func ClassifyEdge(edge, threshold float64) Verdict {
	if edge > threshold {
		return VerdictValue
	}
	return VerdictFair
}

// Assess combines EdgeOK and ClassifyEdge for one side of a market.
func Assess(aiProbability float64, american int, threshold float64) (float64, Verdict) {
	edge, ok := EdgeOK(aiProbability, american)
	if !ok {
		return 0, VerdictUnavailable
	}
	return edge, ClassifyEdge(edge, threshold)
}
