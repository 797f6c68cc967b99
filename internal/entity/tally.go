package entity

// ScoreTally counts terminal outcomes across sessions. Counters only
// ever grow; a missing prior record starts at zeros.
type ScoreTally struct {
	WinsA int `json:"wins_a"`
	WinsB int `json:"wins_b"`
	Draws int `json:"draws"`
}

// Bump increments the single counter matching the outcome and reports
// whether the outcome was countable.
func (that *ScoreTally) Bump(outcome Outcome) bool {
	switch outcome {
	case OutcomeAWins:
		that.WinsA++
	case OutcomeBWins:
		that.WinsB++
	case OutcomeDraw:
		that.Draws++
	default:
		return false
	}

	return true
}
