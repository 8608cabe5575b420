package reconcile

import "context"

// Adapter defines the kind-specific pieces of the reconciliation
// pipeline. Each object kind (projects, job templates, schedules)
// implements how to derive keys, identify objects for the receipt, and
// build target payloads.
type Adapter interface {
	// Kind returns the object kind this adapter reconciles.
	Kind() Kind

	// Key derives the canonical comparison key for an item. It returns a
	// *NormalizationError when a required field is absent; the planner
	// records that as a per-object failure and continues.
	Key(item Item) (Key, error)

	// Identity returns the display name used in receipts, diagnostics,
	// and include/exclude filtering.
	Identity(item Item) string

	// SourceID returns the item's ID in the system it was read from,
	// zero when unknown.
	SourceID(item Item) int

	// Payload builds the create/update request body for the target
	// controller. A payload error fails only that object.
	Payload(item Item) (map[string]any, error)
}

// ScheduleAdapter extends Adapter with the owning-template key needed
// by schedules-only planning.
type ScheduleAdapter interface {
	Adapter

	// TemplateKey derives the comparison key of the item's owning job
	// template.
	TemplateKey(item Item) (Key, error)
}

// PostCreator is an optional adapter extension invoked by the executor
// after a successful create. The job template adapter uses it to attach
// credentials, which cannot be part of the create payload.
type PostCreator interface {
	// PostCreate runs after item was created on the target as createdID.
	// An error marks the entry failed but does not stop the run.
	PostCreate(ctx context.Context, item Item, createdID int) error
}
