package reconcile_test

import (
	"context"

	"controller-migrate/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// fakeItem is a minimal source object for engine tests.
type fakeItem struct {
	id         int
	name       string
	key        string
	keyErr     error
	tplKey     string
	tplKeyErr  error
	payloadErr error
}

// fakeAdapter implements reconcile.Adapter over fakeItem.
type fakeAdapter struct{}

func (fakeAdapter) Kind() reconcile.Kind {
	return reconcile.KindProject
}

func (fakeAdapter) Key(item reconcile.Item) (reconcile.Key, error) {
	it := item.(*fakeItem)
	if it.keyErr != nil {
		return "", it.keyErr
	}
	return reconcile.Key(it.key), nil
}

func (fakeAdapter) Identity(item reconcile.Item) string {
	return item.(*fakeItem).name
}

func (fakeAdapter) SourceID(item reconcile.Item) int {
	return item.(*fakeItem).id
}

func (fakeAdapter) Payload(item reconcile.Item) (map[string]any, error) {
	it := item.(*fakeItem)
	if it.payloadErr != nil {
		return nil, it.payloadErr
	}
	return map[string]any{"name": it.name, "organization": 1}, nil
}

// fakeScheduleAdapter adds the owning-template key.
type fakeScheduleAdapter struct {
	fakeAdapter
}

func (fakeScheduleAdapter) Kind() reconcile.Kind {
	return reconcile.KindSchedule
}

func (fakeScheduleAdapter) TemplateKey(item reconcile.Item) (reconcile.Key, error) {
	it := item.(*fakeItem)
	if it.tplKeyErr != nil {
		return "", it.tplKeyErr
	}
	return reconcile.Key(it.tplKey), nil
}

// hookAdapter is a fakeAdapter with a post-create hook attached.
type hookAdapter struct {
	fakeAdapter
	hook func(ctx context.Context, item reconcile.Item, createdID int) error
}

func (h *hookAdapter) PostCreate(ctx context.Context, item reconcile.Item, createdID int) error {
	return h.hook(ctx, item, createdID)
}

// mockTarget is a mock implementation of reconcile.Target.
type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) Create(ctx context.Context, kind reconcile.Kind, payload map[string]any) (int, error) {
	args := m.Called(ctx, kind, payload)
	return args.Int(0), args.Error(1)
}

func (m *mockTarget) Update(ctx context.Context, kind reconcile.Kind, id int, payload map[string]any) error {
	args := m.Called(ctx, kind, id, payload)
	return args.Error(0)
}

func (m *mockTarget) FindByNameAndOrg(ctx context.Context, kind reconcile.Kind, name string, orgID int) (int, bool, error) {
	args := m.Called(ctx, kind, name, orgID)
	return args.Int(0), args.Bool(1), args.Error(2)
}
