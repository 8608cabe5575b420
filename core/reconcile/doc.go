// Package reconcile implements the migration reconciliation engine.
//
// The engine decides, for every object read from a source controller,
// whether an equivalent object already exists on the reference or target
// side and what to do about it. It is the only part of the tool with
// real decision logic; the controller clients and the receipt/runlog
// features are plumbing around it.
//
// # Pipeline
//
// Raw source objects flow through four stages:
//
//  1. Normalization: an Adapter derives a canonical comparison Key from
//     each object (normalized SCM URL + branch for projects, name +
//     organization ID for templates and schedules).
//  2. Indexing: BuildIndex turns a listing of reference- or target-side
//     objects into an immutable Key -> entry map, surfacing duplicate
//     keys instead of silently overwriting them.
//  3. Planning: BuildPlan (or BuildSchedulePlan) classifies every
//     in-scope source object into exactly one Action: Create,
//     ReuseAndUpdate, or Skip with a reason.
//  4. Execution: Execute applies the plan against the target repository
//     sequentially, honoring dry-run mode, isolating per-object
//     failures, and emitting one receipt entry per plan item.
//
// Matching and planning are pure: all network I/O happens before
// (building indexes) or after (executing the plan). Given the same
// source listing, index contents, and options, the plan is identical
// across runs.
//
// # Adapters
//
// Each object kind supplies an Adapter with the kind-specific pieces:
// key derivation, display identity, and target payload construction.
// See feature/projects, feature/templates, and feature/schedules.
package reconcile
