package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"controller-migrate/core/reconcile"
	"controller-migrate/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectPrefix is where uploaded receipts live in the bucket.
const ObjectPrefix = "receipts/"

// Header carries the run metadata printed at the top of a receipt.
type Header struct {
	RunID        string
	Kind         reconcile.Kind
	Mode         reconcile.Mode
	Source       string
	Reference    string
	Target       string
	Organization int
	DryRun       bool
	Prefix       string
	StartedAt    time.Time
}

// Receipt is the full audit artifact for one run.
type Receipt struct {
	Header  Header
	Entries []reconcile.ReceiptEntry
	Summary reconcile.Summary
}

// New assembles a receipt; entries keep the executor's order exactly.
func New(header Header, entries []reconcile.ReceiptEntry, summary reconcile.Summary) *Receipt {
	return &Receipt{Header: header, Entries: entries, Summary: summary}
}

// Render produces the receipt text. The format is stable across runs so
// two receipts for the same plan diff cleanly.
func (r *Receipt) Render() string {
	var b strings.Builder

	b.WriteString("== MIGRATION RECEIPT ==\n")
	fmt.Fprintf(&b, "Run:     %s\n", r.Header.RunID)
	fmt.Fprintf(&b, "Kind:    %s\n", r.Header.Kind)
	fmt.Fprintf(&b, "Mode:    %s\n", r.Header.Mode)
	fmt.Fprintf(&b, "Source:  %s\n", r.Header.Source)
	if r.Header.Reference != "" {
		fmt.Fprintf(&b, "Ref:     %s\n", r.Header.Reference)
	}
	fmt.Fprintf(&b, "Target:  %s\n", r.Header.Target)
	fmt.Fprintf(&b, "OrgID:   %d\n", r.Header.Organization)
	fmt.Fprintf(&b, "DryRun:  %t\n", r.Header.DryRun)
	if r.Header.Prefix != "" {
		fmt.Fprintf(&b, "Prefix:  %s\n", r.Header.Prefix)
	}
	fmt.Fprintf(&b, "Started: %s\n", r.Header.StartedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n")

	for _, entry := range r.Entries {
		b.WriteString(entryLine(entry))
		b.WriteString("\n")
	}

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  Created:  %d\n", r.Summary.Created)
	fmt.Fprintf(&b, "  Updated:  %d\n", r.Summary.Updated)
	fmt.Fprintf(&b, "  Skipped:  %d\n", r.Summary.Skipped)
	fmt.Fprintf(&b, "  Failed:   %d\n", r.Summary.Failed)
	fmt.Fprintf(&b, "  Filtered: %d\n", r.Summary.Filtered)

	return b.String()
}

func entryLine(e reconcile.ReceiptEntry) string {
	switch e.Outcome {
	case reconcile.OutcomeCreated:
		line := fmt.Sprintf("CREATED: name=%q, target_id=%d, key=%s", e.Name, e.TargetID, e.Key)
		if e.Detail != "" {
			line += ", note=" + e.Detail
		}
		return line
	case reconcile.OutcomeUpdated:
		return fmt.Sprintf("UPDATED: name=%q, target_id=%d, key=%s", e.Name, e.TargetID, e.Key)
	case reconcile.OutcomeWouldCreate:
		return fmt.Sprintf("DRYRUN-CREATE: name=%q, key=%s", e.Name, e.Key)
	case reconcile.OutcomeWouldUpdate:
		return fmt.Sprintf("DRYRUN-UPDATE: name=%q, target_id=%d, key=%s", e.Name, e.TargetID, e.Key)
	case reconcile.OutcomeSkipped:
		if e.Key != "" {
			return fmt.Sprintf("SKIP: name=%q, reason=%s, key=%s", e.Name, e.Detail, e.Key)
		}
		return fmt.Sprintf("SKIP: name=%q, reason=%s", e.Name, e.Detail)
	case reconcile.OutcomeFailed:
		return fmt.Sprintf("ERROR: name=%q: %s", e.Name, e.Detail)
	}
	return fmt.Sprintf("%s: name=%q", strings.ToUpper(string(e.Outcome)), e.Name)
}

// FileName returns the receipt's file and object name.
func (r *Receipt) FileName() string {
	return r.Header.RunID + ".txt"
}

// Write persists the receipt under dir, creating it if needed, and
// returns the written path.
func (r *Receipt) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

// Upload stores the receipt in the bucket under ObjectPrefix and
// returns the object name. The bucket is created when absent.
func (r *Receipt) Upload(ctx context.Context, client storage.Client, bucket string) (string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
	}

	objectName := ObjectPrefix + r.FileName()
	body := r.Render()
	_, err = client.PutObject(ctx, bucket, objectName, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}
	return objectName, nil
}
