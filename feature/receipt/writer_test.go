package receipt_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"controller-migrate/core/reconcile"
	"controller-migrate/core/storage/mocks"
	"controller-migrate/feature/receipt"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testReceipt() *receipt.Receipt {
	header := receipt.Header{
		RunID:        "run-0001",
		Kind:         reconcile.KindProject,
		Mode:         reconcile.ModeCompareOnly,
		Source:       "https://awx.example.com",
		Reference:    "https://legacy.example.com",
		Target:       "https://aap.example.com",
		Organization: 3,
		DryRun:       false,
		Prefix:       "PROD_",
		StartedAt:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	entries := []reconcile.ReceiptEntry{
		{Kind: reconcile.KindProject, Name: "repo-a", Key: "https://git.example.com/a@main", Outcome: reconcile.OutcomeCreated, TargetID: 11},
		{Kind: reconcile.KindProject, Name: "repo-b", Key: "https://git.example.com/b@main", Outcome: reconcile.OutcomeSkipped, Detail: "matched existing entity (reference)"},
		{Kind: reconcile.KindProject, Name: "repo-c", Outcome: reconcile.OutcomeFailed, Detail: "scm_url missing"},
	}
	summary := reconcile.Summary{Created: 1, Skipped: 1, Failed: 1, Filtered: 2}
	return receipt.New(header, entries, summary)
}

func TestReceipt_Render(t *testing.T) {
	want := `== MIGRATION RECEIPT ==
Run:     run-0001
Kind:    project
Mode:    compare-only
Source:  https://awx.example.com
Ref:     https://legacy.example.com
Target:  https://aap.example.com
OrgID:   3
DryRun:  false
Prefix:  PROD_
Started: 2024-06-01T12:00:00Z

CREATED: name="repo-a", target_id=11, key=https://git.example.com/a@main
SKIP: name="repo-b", reason=matched existing entity (reference), key=https://git.example.com/b@main
ERROR: name="repo-c": scm_url missing

Summary:
  Created:  1
  Updated:  0
  Skipped:  1
  Failed:   1
  Filtered: 2
`

	assert.Equal(t, want, testReceipt().Render())
}

func TestReceipt_RenderIsStable(t *testing.T) {
	r := testReceipt()
	assert.Equal(t, r.Render(), r.Render())
}

func TestReceipt_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	r := testReceipt()

	path, err := r.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-0001.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Render(), string(content))
}

func TestReceipt_Upload(t *testing.T) {
	ctx := context.Background()
	r := testReceipt()

	t.Run("BucketExists", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", ctx, "migration-receipts").Return(true, nil)
		client.On("PutObject", ctx, "migration-receipts", "receipts/run-0001.txt", mock.Anything, int64(len(r.Render())), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		object, err := r.Upload(ctx, client, "migration-receipts")
		require.NoError(t, err)
		assert.Equal(t, "receipts/run-0001.txt", object)
		client.AssertExpectations(t)
	})

	t.Run("BucketCreatedWhenAbsent", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("BucketExists", ctx, "migration-receipts").Return(false, nil)
		client.On("MakeBucket", ctx, "migration-receipts", mock.Anything).Return(nil)
		client.On("PutObject", ctx, "migration-receipts", "receipts/run-0001.txt", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)

		_, err := r.Upload(ctx, client, "migration-receipts")
		require.NoError(t, err)
		client.AssertExpectations(t)
	})
}
