// Package templates adapts job templates to the reconciliation engine:
// name+organization keys, payloads with target-resolved references, and
// credential attachment after create.
package templates

import (
	"context"
	"fmt"

	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"
)

// Refs holds the target-side reference lookups a job template payload
// needs. They are resolved by name before planning so that payload
// construction stays pure; source-side IDs are meaningless on the
// target.
type Refs struct {
	// Projects maps target project name to target ID.
	Projects map[string]int

	// Inventories maps target inventory name to target ID.
	Inventories map[string]int

	// ExecutionEnvironmentID is forced onto every migrated template; it
	// must be validated against the target org before planning.
	ExecutionEnvironmentID int
}

// Adapter implements reconcile.Adapter for job templates.
type Adapter struct {
	orgID  int
	refs   Refs
	source *controller.SourceClient
	target *controller.TargetClient
}

// NewAdapter creates a job template adapter. source and target are used
// only by the post-create credential attachment; tests may pass nil and
// exercise planning without I/O.
func NewAdapter(orgID int, refs Refs, source *controller.SourceClient, target *controller.TargetClient) *Adapter {
	return &Adapter{orgID: orgID, refs: refs, source: source, target: target}
}

func (a *Adapter) Kind() reconcile.Kind {
	return reconcile.KindJobTemplate
}

func (a *Adapter) Key(item reconcile.Item) (reconcile.Key, error) {
	jt := item.(*controller.JobTemplate)
	if jt.Name == "" {
		return "", &reconcile.NormalizationError{Kind: reconcile.KindJobTemplate, Field: "name"}
	}
	return reconcile.NameOrgKey(jt.Name, a.orgID), nil
}

func (a *Adapter) Identity(item reconcile.Item) string {
	return item.(*controller.JobTemplate).Name
}

func (a *Adapter) SourceID(item reconcile.Item) int {
	return item.(*controller.JobTemplate).ID
}

// Payload builds the AAP job template body. Project and inventory
// references resolve by name against the target; a named reference
// missing on the target fails this template only.
func (a *Adapter) Payload(item reconcile.Item) (map[string]any, error) {
	jt := item.(*controller.JobTemplate)

	var projectID, inventoryID any
	if ref := jt.SummaryFields.Project; ref != nil && ref.Name != "" {
		id, ok := a.refs.Projects[ref.Name]
		if !ok {
			return nil, fmt.Errorf("project %q not found in target org %d", ref.Name, a.orgID)
		}
		projectID = id
	}
	if ref := jt.SummaryFields.Inventory; ref != nil && ref.Name != "" {
		id, ok := a.refs.Inventories[ref.Name]
		if !ok {
			return nil, fmt.Errorf("inventory %q not found in target org %d", ref.Name, a.orgID)
		}
		inventoryID = id
	}

	payload := map[string]any{
		"name":                                jt.Name,
		"description":                         jt.Description,
		"job_type":                            jt.JobType,
		"playbook":                            jt.Playbook,
		"project":                             projectID,
		"inventory":                           inventoryID,
		"execution_environment":               a.refs.ExecutionEnvironmentID,
		"forks":                               jt.Forks,
		"verbosity":                           jt.Verbosity,
		"become_enabled":                      jt.BecomeEnabled,
		"limit":                               jt.Limit,
		"timeout":                             jt.Timeout,
		"organization":                        a.orgID,
		"allow_simultaneous":                  jt.AllowSimultaneous,
		"use_fact_cache":                      jt.UseFactCache,
		"ask_inventory_on_launch":             jt.AskInventoryOnLaunch,
		"ask_variables_on_launch":             jt.AskVariablesOnLaunch,
		"ask_limit_on_launch":                 jt.AskLimitOnLaunch,
		"ask_scm_branch_on_launch":            jt.AskSCMBranchOnLaunch,
		"ask_execution_environment_on_launch": jt.AskExecutionEnvironmentOnLaunch,
		"ask_credential_on_launch":            jt.AskCredentialOnLaunch,
		"survey_enabled":                      jt.SurveyEnabled,
		"extra_vars":                          jt.ExtraVars,
	}
	if jt.SurveyEnabled && jt.Survey != nil {
		payload["survey_spec"] = jt.Survey
	}

	return payload, nil
}

// PostCreate attaches the source template's credentials to the created
// target template. Credentials resolve by name and type name; a
// credential missing on the target fails this entry (credentials are
// migrated by a separate process, never created here).
func (a *Adapter) PostCreate(ctx context.Context, item reconcile.Item, createdID int) error {
	if a.source == nil || a.target == nil {
		return nil
	}
	jt := item.(*controller.JobTemplate)

	creds, err := a.source.ListTemplateCredentials(ctx, jt.ID)
	if err != nil {
		return fmt.Errorf("list source credentials: %w", err)
	}

	for _, cred := range creds {
		if cred.Name == "" {
			continue
		}
		typeName := ""
		if ct := cred.SummaryFields.CredentialType; ct != nil {
			typeName = ct.Name
		}
		found, err := a.target.FindCredential(ctx, cred.Name, typeName, a.orgID)
		if err != nil {
			return fmt.Errorf("resolve credential %q: %w", cred.Name, err)
		}
		if found == nil {
			return fmt.Errorf("credential %q not found on target; migrate credentials first", cred.Name)
		}
		if err := a.target.AttachCredential(ctx, createdID, found.ID); err != nil {
			return fmt.Errorf("attach credential %q: %w", cred.Name, err)
		}
	}

	return nil
}
