// Package schedules adapts schedule objects to the reconciliation
// engine for schedules-only runs: every schedule is keyed by its name
// under the owning job template's key.
package schedules

import (
	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"
)

// Item pairs a schedule with the name of its owning job template. The
// template name plus the target organization identifies the template on
// the other side; the schedule record itself only carries a
// source-local template ID.
type Item struct {
	Schedule     controller.Schedule
	TemplateName string
}

// Adapter implements reconcile.ScheduleAdapter.
type Adapter struct {
	orgID int
}

// NewAdapter creates a schedule adapter for the target orgID.
func NewAdapter(orgID int) *Adapter {
	return &Adapter{orgID: orgID}
}

func (a *Adapter) Kind() reconcile.Kind {
	return reconcile.KindSchedule
}

// TemplateKey derives the owning template's comparison key.
func (a *Adapter) TemplateKey(item reconcile.Item) (reconcile.Key, error) {
	it := item.(*Item)
	if it.TemplateName == "" {
		return "", &reconcile.NormalizationError{Kind: reconcile.KindSchedule, Name: it.Schedule.Name, Field: "job_template"}
	}
	return reconcile.NameOrgKey(it.TemplateName, a.orgID), nil
}

func (a *Adapter) Key(item reconcile.Item) (reconcile.Key, error) {
	it := item.(*Item)
	if it.Schedule.Name == "" {
		return "", &reconcile.NormalizationError{Kind: reconcile.KindSchedule, Field: "name"}
	}
	templateKey, err := a.TemplateKey(item)
	if err != nil {
		return "", err
	}
	return reconcile.ScheduleKey(templateKey, it.Schedule.Name), nil
}

func (a *Adapter) Identity(item reconcile.Item) string {
	return item.(*Item).Schedule.Name
}

func (a *Adapter) SourceID(item reconcile.Item) int {
	return item.(*Item).Schedule.ID
}

// Payload builds the AAP schedule body. The owning template's target ID
// is injected by the planner once the template has matched; rrule is
// required by the API and its absence fails only this schedule.
func (a *Adapter) Payload(item reconcile.Item) (map[string]any, error) {
	it := item.(*Item)
	if it.Schedule.RRule == "" {
		return nil, &reconcile.NormalizationError{Kind: reconcile.KindSchedule, Name: it.Schedule.Name, Field: "rrule"}
	}

	payload := map[string]any{
		"name":        it.Schedule.Name,
		"description": it.Schedule.Description,
		"rrule":       it.Schedule.RRule,
		"enabled":     it.Schedule.Enabled,
	}
	if len(it.Schedule.ExtraData) > 0 {
		payload["extra_data"] = it.Schedule.ExtraData
	}
	return payload, nil
}
