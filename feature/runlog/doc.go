// Package runlog persists one row per migration run in the optional
// MySQL database: kind, mode, dry-run flag, outcome counts, and where
// the receipt landed. It gives operators a queryable history across
// many runs without parsing receipt files.
//
// The serve feature exposes it:
//
//	GET /api/runs           recent runs, newest first
//	GET /api/runs/totals    aggregate counts across all recorded runs
//
// Totals are cached with a short TTL behind singleflight so a dashboard
// polling the endpoint does not hammer the database.
package runlog
