package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// Target is the mutating repository abstraction the executor drives.
// core/controller provides the concrete AAP-backed implementation.
type Target interface {
	// Create posts a new object and returns its target-side ID. It wraps
	// ErrAlreadyExists when the target reports a duplicate.
	Create(ctx context.Context, kind Kind, payload map[string]any) (int, error)

	// Update patches an existing object in place.
	Update(ctx context.Context, kind Kind, id int, payload map[string]any) error

	// FindByNameAndOrg resolves an object by exact name within an
	// organization, used to recover the ID after a duplicate create.
	FindByNameAndOrg(ctx context.Context, kind Kind, name string, orgID int) (int, bool, error)
}

// Execute applies a plan sequentially against the target, producing one
// receipt entry per plan item in plan order.
//
// With dryRun set, no mutating call is issued and create/update items
// record would-create/would-update outcomes with the payload they
// carry. A real-run failure marks only that entry failed; execution
// continues so one object cannot abort the whole migration. Skip items
// never touch the target.
//
// A create answered with "already exists" is treated as a retry whose
// first attempt succeeded: the existing object is resolved by name and
// organization and the entry records success.
func Execute(ctx context.Context, plan *Plan, target Target, adapter Adapter, dryRun bool) ([]ReceiptEntry, Summary) {
	entries := make([]ReceiptEntry, 0, len(plan.Items))
	summary := Summary{Filtered: plan.Filtered}

	for _, pi := range plan.Items {
		entry := ReceiptEntry{
			Kind:     plan.Kind,
			Name:     pi.Name,
			SourceID: pi.SourceID,
			Key:      pi.Key,
			Action:   pi.Action.Type,
		}

		switch {
		case pi.Err != nil:
			entry.Outcome = OutcomeFailed
			entry.Detail = pi.Err.Error()
			summary.Failed++

		case pi.Action.Type == ActionSkip:
			entry.Outcome = OutcomeSkipped
			entry.Detail = pi.Action.Reason
			if pi.MatchedIn != "" {
				entry.Detail = fmt.Sprintf("%s (%s)", pi.Action.Reason, pi.MatchedIn)
			}
			summary.Skipped++

		case dryRun && pi.Action.Type == ActionCreate:
			entry.Outcome = OutcomeWouldCreate
			entry.Detail = payloadName(pi.Action.Payload)
			summary.Created++

		case dryRun && pi.Action.Type == ActionUpdate:
			entry.Outcome = OutcomeWouldUpdate
			entry.TargetID = pi.Action.ExistingID
			summary.Updated++

		case pi.Action.Type == ActionCreate:
			executeCreate(ctx, target, adapter, pi, &entry, &summary)

		case pi.Action.Type == ActionUpdate:
			if err := target.Update(ctx, plan.Kind, pi.Action.ExistingID, pi.Action.Payload); err != nil {
				entry.Outcome = OutcomeFailed
				entry.Detail = err.Error()
				summary.Failed++
				break
			}
			entry.Outcome = OutcomeUpdated
			entry.TargetID = pi.Action.ExistingID
			summary.Updated++
		}

		entries = append(entries, entry)
	}

	return entries, summary
}

func executeCreate(ctx context.Context, target Target, adapter Adapter, pi PlanItem, entry *ReceiptEntry, summary *Summary) {
	kind := adapter.Kind()

	id, err := target.Create(ctx, kind, pi.Action.Payload)
	if errors.Is(err, ErrAlreadyExists) {
		// A prior attempt succeeded but the response was lost; resolve
		// the existing object instead of reporting a failure.
		existingID, found, ferr := target.FindByNameAndOrg(ctx, kind, payloadName(pi.Action.Payload), payloadOrg(pi.Action.Payload))
		if ferr != nil || !found {
			entry.Outcome = OutcomeFailed
			entry.Detail = fmt.Sprintf("duplicate reported but existing object not resolvable: %v", err)
			summary.Failed++
			return
		}
		entry.Outcome = OutcomeCreated
		entry.TargetID = existingID
		entry.Detail = "already present on target"
		summary.Created++
		return
	}
	if err != nil {
		entry.Outcome = OutcomeFailed
		entry.Detail = err.Error()
		summary.Failed++
		return
	}

	entry.Outcome = OutcomeCreated
	entry.TargetID = id
	summary.Created++

	if pc, ok := adapter.(PostCreator); ok {
		if err := pc.PostCreate(ctx, pi.Item, id); err != nil {
			entry.Outcome = OutcomeFailed
			entry.Detail = fmt.Sprintf("created id=%d, post-create failed: %v", id, err)
			summary.Created--
			summary.Failed++
		}
	}
}

func payloadName(payload map[string]any) string {
	if n, ok := payload["name"].(string); ok {
		return n
	}
	return ""
}

func payloadOrg(payload map[string]any) int {
	if o, ok := payload["organization"].(int); ok {
		return o
	}
	return 0
}
