package reconcile

import "regexp"

// Skip reasons recorded verbatim in the receipt.
const (
	SkipMatchedExisting = "matched existing entity"
	SkipTemplateAbsent  = "owning template absent in target"
	SkipSchedulePresent = "schedule already present"
)

// PlanOptions are the operator-facing knobs of a planning run.
type PlanOptions struct {
	Mode Mode

	// Prefix is prepended to created names in compare-only mode to avoid
	// colliding with the matched environment's naming.
	Prefix string

	// Include and Exclude filter on object name BEFORE matching; an
	// excluded object produces no plan item and never reaches the
	// receipt.
	Include *regexp.Regexp
	Exclude *regexp.Regexp

	// Limit stops planning after N in-scope objects, zero for all.
	Limit int
}

// allows reports whether name passes the include/exclude filters.
func (o PlanOptions) allows(name string) bool {
	if o.Include != nil && !o.Include.MatchString(name) {
		return false
	}
	if o.Exclude != nil && o.Exclude.MatchString(name) {
		return false
	}
	return true
}

// PlanItem pairs one in-scope source object with its decided action.
type PlanItem struct {
	Item     Item
	Name     string
	SourceID int
	Key      Key
	Action   Action

	// MatchedIn is the label of the index that matched, empty on no
	// match. Kept for the receipt's justification detail.
	MatchedIn string

	// Err is a normalization or payload failure; the executor records it
	// as a failed entry without touching the target.
	Err error
}

// Plan is the ordered decision list for one run of one kind. Given the
// same source listing, index contents, and options, the plan is
// identical across runs.
type Plan struct {
	Kind     Kind
	Mode     Mode
	Items    []PlanItem
	Filtered int
}

// BuildPlan classifies source objects in stable input order.
//
// compare-only: a match in any index skips the object; otherwise it is
// created with the name prefix applied. reconcile: a match becomes a
// reuse-and-update of the existing target object; otherwise a create.
// Indexes are probed in the order given.
func BuildPlan(adapter Adapter, sources []Item, indexes []*Index, opts PlanOptions) *Plan {
	plan := &Plan{Kind: adapter.Kind(), Mode: opts.Mode}

	processed := 0
	for _, item := range sources {
		name := adapter.Identity(item)
		if !opts.allows(name) {
			plan.Filtered++
			continue
		}
		if opts.Limit > 0 && processed >= opts.Limit {
			break
		}
		processed++

		pi := PlanItem{Item: item, Name: name, SourceID: adapter.SourceID(item)}

		key, err := adapter.Key(item)
		if err != nil {
			pi.Err = err
			pi.Action = Action{Type: ActionSkip, Reason: err.Error()}
			plan.Items = append(plan.Items, pi)
			continue
		}
		pi.Key = key

		verdict := Match(key, indexes...)
		switch {
		case opts.Mode == ModeCompareOnly && verdict.Matched:
			pi.MatchedIn = verdict.Source
			pi.Action = Action{Type: ActionSkip, Reason: SkipMatchedExisting}

		case opts.Mode == ModeReconcile && verdict.Matched:
			pi.MatchedIn = verdict.Source
			payload, perr := adapter.Payload(item)
			if perr != nil {
				pi.Err = perr
				pi.Action = Action{Type: ActionSkip, Reason: perr.Error()}
				break
			}
			pi.Action = Action{Type: ActionUpdate, ExistingID: verdict.Existing.ID, Payload: payload}

		default:
			payload, perr := adapter.Payload(item)
			if perr != nil {
				pi.Err = perr
				pi.Action = Action{Type: ActionSkip, Reason: perr.Error()}
				break
			}
			if opts.Mode == ModeCompareOnly && opts.Prefix != "" {
				if n, ok := payload["name"].(string); ok {
					payload["name"] = opts.Prefix + n
				}
			}
			pi.Action = Action{Type: ActionCreate, Payload: payload}
		}

		plan.Items = append(plan.Items, pi)
	}

	return plan
}

// BuildSchedulePlan classifies schedules for schedules-only mode.
//
// A schedule's owning job template must already exist on the target
// (templates index); otherwise the schedule is skipped. Under a found
// template, a schedule whose name is already present (existing index)
// is skipped; the rest are created with the matched template's target
// ID injected into the payload. Credentials, surveys, and notification
// sub-objects are never touched in this mode.
func BuildSchedulePlan(adapter ScheduleAdapter, schedules []Item, templates, existing *Index, opts PlanOptions) *Plan {
	plan := &Plan{Kind: adapter.Kind(), Mode: ModeSchedulesOnly}

	processed := 0
	for _, item := range schedules {
		name := adapter.Identity(item)
		if !opts.allows(name) {
			plan.Filtered++
			continue
		}
		if opts.Limit > 0 && processed >= opts.Limit {
			break
		}
		processed++

		pi := PlanItem{Item: item, Name: name, SourceID: adapter.SourceID(item)}

		templateKey, err := adapter.TemplateKey(item)
		if err != nil {
			pi.Err = err
			pi.Action = Action{Type: ActionSkip, Reason: err.Error()}
			plan.Items = append(plan.Items, pi)
			continue
		}

		owner := Match(templateKey, templates)
		if !owner.Matched {
			pi.Action = Action{Type: ActionSkip, Reason: SkipTemplateAbsent}
			plan.Items = append(plan.Items, pi)
			continue
		}

		key, err := adapter.Key(item)
		if err != nil {
			pi.Err = err
			pi.Action = Action{Type: ActionSkip, Reason: err.Error()}
			plan.Items = append(plan.Items, pi)
			continue
		}
		pi.Key = key

		if dup := Match(key, existing); dup.Matched {
			pi.MatchedIn = dup.Source
			pi.Action = Action{Type: ActionSkip, Reason: SkipSchedulePresent}
			plan.Items = append(plan.Items, pi)
			continue
		}

		payload, perr := adapter.Payload(item)
		if perr != nil {
			pi.Err = perr
			pi.Action = Action{Type: ActionSkip, Reason: perr.Error()}
			plan.Items = append(plan.Items, pi)
			continue
		}
		payload["unified_job_template"] = owner.Existing.ID
		pi.Action = Action{Type: ActionCreate, Payload: payload}
		plan.Items = append(plan.Items, pi)
	}

	return plan
}
