package reconcile

import (
	"errors"
	"fmt"
)

// Kind identifies the object kind being reconciled.
type Kind string

const (
	KindProject     Kind = "project"
	KindJobTemplate Kind = "job_template"
	KindSchedule    Kind = "schedule"
)

// Item is a raw object record from a source, reference, or target
// controller. Adapters define the concrete type.
type Item any

// Key is a canonical comparison key. Two objects describe the same
// real-world entity iff their keys are equal.
type Key string

// Mode selects the planning policy for a run.
type Mode string

const (
	// ModeCompareOnly skips objects matched in the comparison indexes and
	// creates the rest under a configurable name prefix.
	ModeCompareOnly Mode = "compare-only"

	// ModeReconcile updates matched objects in place and creates the rest.
	ModeReconcile Mode = "reconcile"

	// ModeSchedulesOnly creates schedules under job templates that
	// already exist on the target, and touches nothing else.
	ModeSchedulesOnly Mode = "schedules-only"
)

// ActionType is the classification assigned to a source object.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionSkip   ActionType = "skip"
)

// Action is the decision for one source object. It is produced once by
// the plan builder and consumed once by the executor.
type Action struct {
	Type ActionType

	// ExistingID is the target-side ID for ActionUpdate.
	ExistingID int

	// Payload is the request body for ActionCreate and ActionUpdate.
	Payload map[string]any

	// Reason explains an ActionSkip, verbatim in the receipt.
	Reason string
}

// Outcome records what happened to one plan item during execution.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeUpdated     Outcome = "updated"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
	OutcomeWouldCreate Outcome = "would-create"
	OutcomeWouldUpdate Outcome = "would-update"
)

// ReceiptEntry is the immutable audit record for one considered object.
// Entries are appended in plan order and never edited afterwards.
type ReceiptEntry struct {
	Kind     Kind       `json:"kind"`
	Name     string     `json:"name"`
	SourceID int        `json:"source_id"`
	Key      Key        `json:"key"`
	Action   ActionType `json:"action"`

	// TargetID is the resulting target-side ID, zero when none.
	TargetID int `json:"target_id,omitempty"`

	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Summary aggregates outcomes for a run. Dry-run outcomes count toward
// the action they would have taken.
type Summary struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Filtered int `json:"filtered"`
}

// HasFailures reports whether any entry failed; callers map this to a
// partial-failure exit status.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// ErrPartialFailure signals that a run finished but some objects failed.
var ErrPartialFailure = errors.New("run completed with failures")

// ErrAlreadyExists is wrapped by Target.Create when the target reports
// a duplicate. The executor treats it as a lost-response retry and
// resolves the existing object instead of failing the entry.
var ErrAlreadyExists = errors.New("object already exists on target")

// NormalizationError reports a source object that cannot produce a
// comparison key because a required field is absent. It fails only that
// object, never the run.
type NormalizationError struct {
	Kind  Kind
	Name  string
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s %q: missing required field %s", e.Kind, e.Name, e.Field)
}
