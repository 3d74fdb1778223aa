package engine

// OutcomeKind classifies how a trial ended. Exactly one outcome is produced
// per trial.
type OutcomeKind int

const (
	// Success means the service accepted the credentials.
	Success OutcomeKind = iota
	// Failure means the service was reachable and rejected the credentials.
	Failure
	// Unreachable means this trial discovered transport-level breakage and
	// marked the target dead for the rest of the run.
	Unreachable
	// Skipped means the target was already marked unreachable and the
	// driver was never invoked.
	Skipped
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Unreachable:
		return "unreachable"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one trial. Reason is set for
// Unreachable and Skipped outcomes.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}
