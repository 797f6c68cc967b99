package entity

const (
	ModePvE = "pve"
	ModePvP = "pvp"

	FirstMoverHuman       = "human"
	FirstMoverEnvironment = "ai"
)

// SessionConfig is fixed for the lifetime of one session and replaced
// wholesale on the next new-game request or mode switch. Difficulty is
// passed through to the server uninterpreted.
type SessionConfig struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	FirstMover string `json:"first_mover"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Mode:       ModePvE,
		Difficulty: "medium",
		FirstMover: FirstMoverHuman,
	}
}

// SessionUpdate is the decoded result of one successful exchange.
// Board is always the complete authoritative snapshot; HumanMove and
// AIMove are animation targets already reflected in it.
type SessionUpdate struct {
	Board     *BoardModel
	HumanMove *Move
	AIMove    *Move
}

// ResumedSession is an in-progress game recovered at startup.
type ResumedSession struct {
	Board  *BoardModel
	Config SessionConfig
}
