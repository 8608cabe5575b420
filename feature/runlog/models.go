package runlog

import "time"

// Run is the persisted record of one migration run.
type Run struct {
	// ID is the run's UUID, shared with the receipt file name.
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Kind is the object kind the run processed.
	Kind string `gorm:"size:32;index" json:"kind"`

	// Mode is the planning mode (compare-only, reconcile, schedules-only).
	Mode string `gorm:"size:32" json:"mode"`

	// DryRun records whether the run issued mutating calls.
	DryRun bool `json:"dry_run"`

	// Outcome counts mirror the receipt summary.
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Filtered int `json:"filtered"`

	// ReceiptPath is the local path or object name of the receipt.
	ReceiptPath string `gorm:"size:512" json:"receipt_path"`

	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TableName pins the table name independent of gorm pluralization.
func (Run) TableName() string {
	return "migration_runs"
}

// Totals aggregates outcome counts across all recorded runs.
type Totals struct {
	Runs    int64 `json:"runs"`
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
	Skipped int64 `json:"skipped"`
	Failed  int64 `json:"failed"`
}
