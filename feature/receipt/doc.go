// Package receipt renders and persists the durable audit artifact of a
// migration run.
//
// A receipt is an ordered, diffable text document: a header with the
// run's metadata, one line per considered object in plan order, and a
// closing summary. Operators diff a dry-run receipt against a real
// run's receipt to verify "what would happen" matched "what happened".
// Receipts are written once and never edited.
//
// Receipts land in a local directory and, when upload is enabled, in
// the object storage bucket under receipts/<run-id>.txt. The serve
// feature exposes the bucket contents:
//
//	GET /api/receipts           list stored receipts
//	GET /api/receipts/:name     fetch one receipt as text
package receipt
