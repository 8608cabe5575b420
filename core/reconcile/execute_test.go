package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"controller-migrate/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func payloadNamed(name string) any {
	return mock.MatchedBy(func(p map[string]any) bool {
		return p["name"] == name
	})
}

func TestExecute_DryRunIssuesNoMutations(t *testing.T) {
	ctx := context.Background()
	existing := targetIndex(&fakeItem{id: 100, name: "existing", key: "k-existing"})
	sources := []reconcile.Item{
		&fakeItem{id: 1, name: "existing", key: "k-existing"},
		&fakeItem{id: 2, name: "fresh", key: "k-fresh"},
	}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, []*reconcile.Index{existing}, reconcile.PlanOptions{
		Mode: reconcile.ModeReconcile,
	})

	// No expectations registered: any call to the target would fail the test.
	target := &mockTarget{}

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, true)

	require.Len(t, entries, 2)
	assert.Equal(t, reconcile.OutcomeWouldUpdate, entries[0].Outcome)
	assert.Equal(t, 100, entries[0].TargetID)
	assert.Equal(t, reconcile.OutcomeWouldCreate, entries[1].Outcome)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	target.AssertExpectations(t)
}

func TestExecute_SkipsNeverTouchTarget(t *testing.T) {
	ctx := context.Background()
	existing := targetIndex(&fakeItem{id: 100, name: "existing", key: "k-existing"})
	sources := []reconcile.Item{
		&fakeItem{id: 1, name: "existing", key: "k-existing"},
	}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, []*reconcile.Index{existing}, reconcile.PlanOptions{
		Mode: reconcile.ModeCompareOnly,
	})

	target := &mockTarget{}

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeSkipped, entries[0].Outcome)
	assert.Equal(t, "matched existing entity (target)", entries[0].Detail)
	assert.Equal(t, 1, summary.Skipped)
	target.AssertExpectations(t)
}

func TestExecute_FailureIsolation(t *testing.T) {
	ctx := context.Background()

	sources := make([]reconcile.Item, 0, 5)
	for i := 1; i <= 5; i++ {
		sources = append(sources, &fakeItem{id: i, name: fmt.Sprintf("obj-%d", i), key: fmt.Sprintf("k%d", i)})
	}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, nil, reconcile.PlanOptions{Mode: reconcile.ModeReconcile})

	target := &mockTarget{}
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("obj-%d", i)
		if i == 2 {
			target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed(name)).
				Return(0, errors.New("boom")).Once()
			continue
		}
		target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed(name)).
			Return(100+i, nil).Once()
	}

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, false)

	require.Len(t, entries, 5)
	assert.Equal(t, reconcile.OutcomeFailed, entries[1].Outcome)
	assert.Equal(t, "boom", entries[1].Detail)

	// Objects after the failure still executed.
	for _, i := range []int{0, 2, 3, 4} {
		assert.Equal(t, reconcile.OutcomeCreated, entries[i].Outcome, "entry %d", i)
	}

	assert.Equal(t, 4, summary.Created)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	target.AssertExpectations(t)
}

func TestExecute_AlreadyExistsResolvedAsSuccess(t *testing.T) {
	ctx := context.Background()
	sources := []reconcile.Item{&fakeItem{id: 1, name: "dup", key: "k1"}}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, nil, reconcile.PlanOptions{Mode: reconcile.ModeReconcile})

	target := &mockTarget{}
	target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed("dup")).
		Return(0, fmt.Errorf("POST failed: %w", reconcile.ErrAlreadyExists)).Once()
	target.On("FindByNameAndOrg", mock.Anything, reconcile.KindProject, "dup", 1).
		Return(42, true, nil).Once()

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeCreated, entries[0].Outcome)
	assert.Equal(t, 42, entries[0].TargetID)
	assert.Equal(t, "already present on target", entries[0].Detail)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)
	target.AssertExpectations(t)
}

func TestExecute_AlreadyExistsUnresolvableFails(t *testing.T) {
	ctx := context.Background()
	sources := []reconcile.Item{&fakeItem{id: 1, name: "dup", key: "k1"}}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, nil, reconcile.PlanOptions{Mode: reconcile.ModeReconcile})

	target := &mockTarget{}
	target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed("dup")).
		Return(0, fmt.Errorf("POST failed: %w", reconcile.ErrAlreadyExists)).Once()
	target.On("FindByNameAndOrg", mock.Anything, reconcile.KindProject, "dup", 1).
		Return(0, false, nil).Once()

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, 1, summary.Failed)
	target.AssertExpectations(t)
}

func TestExecute_UpdateFailureRecorded(t *testing.T) {
	ctx := context.Background()
	existing := targetIndex(&fakeItem{id: 100, name: "existing", key: "k1"})
	sources := []reconcile.Item{&fakeItem{id: 1, name: "existing", key: "k1"}}
	plan := reconcile.BuildPlan(fakeAdapter{}, sources, []*reconcile.Index{existing}, reconcile.PlanOptions{
		Mode: reconcile.ModeReconcile,
	})

	target := &mockTarget{}
	target.On("Update", mock.Anything, reconcile.KindProject, 100, payloadNamed("existing")).
		Return(errors.New("patch rejected")).Once()

	entries, summary := reconcile.Execute(ctx, plan, target, fakeAdapter{}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, "patch rejected", entries[0].Detail)
	assert.Equal(t, 1, summary.Failed)
	target.AssertExpectations(t)
}

func TestExecute_PostCreateHookFailureFlipsEntry(t *testing.T) {
	ctx := context.Background()
	sources := []reconcile.Item{&fakeItem{id: 1, name: "fresh", key: "k1"}}

	hooked := &hookAdapter{hook: func(ctx context.Context, item reconcile.Item, createdID int) error {
		return errors.New("attach failed")
	}}
	plan := reconcile.BuildPlan(hooked, sources, nil, reconcile.PlanOptions{Mode: reconcile.ModeReconcile})

	target := &mockTarget{}
	target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed("fresh")).
		Return(7, nil).Once()

	entries, summary := reconcile.Execute(ctx, plan, target, hooked, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeFailed, entries[0].Outcome)
	assert.Contains(t, entries[0].Detail, "post-create failed")
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Failed)
	target.AssertExpectations(t)
}

func TestExecute_IdempotentSecondRun(t *testing.T) {
	ctx := context.Background()
	sources := []reconcile.Item{&fakeItem{id: 1, name: "fresh", key: "k1"}}

	// First run: nothing on the target, object gets created.
	firstPlan := reconcile.BuildPlan(fakeAdapter{}, sources, nil, reconcile.PlanOptions{Mode: reconcile.ModeCompareOnly})
	target := &mockTarget{}
	target.On("Create", mock.Anything, reconcile.KindProject, payloadNamed("fresh")).
		Return(7, nil).Once()
	_, first := reconcile.Execute(ctx, firstPlan, target, fakeAdapter{}, false)
	assert.Equal(t, 1, first.Created)

	// Second run: the created object is now indexed; compare mode skips it.
	existing := targetIndex(&fakeItem{id: 7, name: "fresh", key: "k1"})
	secondPlan := reconcile.BuildPlan(fakeAdapter{}, sources, []*reconcile.Index{existing}, reconcile.PlanOptions{
		Mode: reconcile.ModeCompareOnly,
	})
	entries, second := reconcile.Execute(ctx, secondPlan, target, fakeAdapter{}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, reconcile.OutcomeSkipped, entries[0].Outcome)
	assert.Equal(t, 0, second.Created)
	target.AssertExpectations(t)
}
