package sim

import (
	"fmt"

	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// StopReason is a machine-readable code recorded when a run terminates.
// Observers receive both the code and a human-readable message so a
// dashboard can distinguish normal completion from user stops, budget
// exhaustion, and missing subjects.
type StopReason string

const (
	// ReasonCompleted: the termination policy signaled saturation.
	ReasonCompleted StopReason = "completed"
	// ReasonStopped: an operator explicitly stopped the run.
	ReasonStopped StopReason = "stopped"
	// ReasonInactive: a tick fired with no active run descriptor.
	ReasonInactive StopReason = "inactive"
	// ReasonSubjectNotFound: the subject could not be resolved mid-run.
	ReasonSubjectNotFound StopReason = "subject-not-found"
	// ReasonConsecutiveFailures: too many oracle failures in a row.
	ReasonConsecutiveFailures StopReason = "consecutive-prediction-failures"
	// ReasonTotalFailures: the total oracle failure budget ran out.
	ReasonTotalFailures StopReason = "total-prediction-failures"
	// ReasonStepLimit: the step ceiling was reached before saturation.
	ReasonStepLimit StopReason = "step-limit"
	// ReasonSuperseded: a new run for the controller replaced this one.
	ReasonSuperseded StopReason = "superseded"
	// ReasonReset: the subject was re-seeded to a fresh baseline.
	ReasonReset StopReason = "reset"
)

// Message returns the human-readable description for the reason.
func (r StopReason) Message() string {
	switch r {
	case ReasonCompleted:
		return "simulation completed"
	case ReasonStopped:
		return "stopped by user"
	case ReasonInactive:
		return "tick fired without an active run"
	case ReasonSubjectNotFound:
		return "subject not found"
	case ReasonConsecutiveFailures:
		return "stopped after repeated consecutive prediction failures"
	case ReasonTotalFailures:
		return "stopped after exhausting the total prediction failure budget"
	case ReasonStepLimit:
		return "step ceiling reached"
	case ReasonSuperseded:
		return "superseded by a new run"
	case ReasonReset:
		return "reset to baseline"
	default:
		return string(r)
	}
}

// Update is published to the observer on every completed tick and after
// a baseline reset. State is a deep copy; observers may retain it.
type Update struct {
	Active      bool          `json:"active"`
	Mode        vitals.Mode   `json:"mode,omitempty"`
	SubjectID   string        `json:"subject_id"`
	SubjectName string        `json:"subject_name"`
	Step        int           `json:"step"`
	Progress    float64       `json:"progress"`
	State       models.Worker `json:"state"`
}

// Terminal is published once when a run reaches a terminal transition.
// State carries the last merged subject snapshot, when one exists.
type Terminal struct {
	Reason      StopReason     `json:"reason"`
	Message     string         `json:"message"`
	Mode        vitals.Mode    `json:"mode"`
	SubjectID   string         `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Step        int            `json:"step"`
	State       *models.Worker `json:"state,omitempty"`
}

// BudgetError reports prediction failure budget exhaustion with the
// structured context needed to diagnose the run.
type BudgetError struct {
	Reason              StopReason
	Mode                vitals.Mode
	SubjectID           string
	Step                int
	ConsecutiveFailures int
	TotalFailures       int
	Err                 error
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("prediction failure budget exhausted (%s) at step %d (consecutive=%d total=%d): %v",
		e.Reason, e.Step, e.ConsecutiveFailures, e.TotalFailures, e.Err)
}

func (e *BudgetError) Unwrap() error {
	return e.Err
}
