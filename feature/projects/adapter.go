// Package projects adapts project objects to the reconciliation
// engine: SCM-based comparison keys and AAP create payloads.
package projects

import (
	"strings"

	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"
)

// KeyMode selects how projects are compared.
type KeyMode int

const (
	// KeyBySCM keys projects by normalized SCM URL + branch; used when
	// comparing against a reference environment, where the same
	// repository may carry different names.
	KeyBySCM KeyMode = iota

	// KeyByName keys projects by name + organization; used when
	// deduplicating directly against the target.
	KeyByName
)

// Adapter implements reconcile.Adapter for projects.
type Adapter struct {
	orgID   int
	keyMode KeyMode
}

// NewAdapter creates a project adapter creating under orgID.
func NewAdapter(orgID int, keyMode KeyMode) *Adapter {
	return &Adapter{orgID: orgID, keyMode: keyMode}
}

func (a *Adapter) Kind() reconcile.Kind {
	return reconcile.KindProject
}

func (a *Adapter) Key(item reconcile.Item) (reconcile.Key, error) {
	p := item.(*controller.Project)

	if a.keyMode == KeyByName {
		if p.Name == "" {
			return "", &reconcile.NormalizationError{Kind: reconcile.KindProject, Field: "name"}
		}
		return reconcile.NameOrgKey(p.Name, a.orgID), nil
	}

	if strings.TrimSpace(p.SCMURL) == "" {
		return "", &reconcile.NormalizationError{Kind: reconcile.KindProject, Name: p.Name, Field: "scm_url"}
	}
	return reconcile.ProjectKey(p.SCMURL, p.SCMBranch), nil
}

func (a *Adapter) Identity(item reconcile.Item) string {
	return item.(*controller.Project).Name
}

func (a *Adapter) SourceID(item reconcile.Item) int {
	return item.(*controller.Project).ID
}

// Payload builds the AAP project create/update body. Instance-local
// fields (IDs, job state, revision info) never travel; the organization
// is always the configured target org. A project with an SCM URL but no
// SCM type defaults to git, matching what the source UI implies.
func (a *Adapter) Payload(item reconcile.Item) (map[string]any, error) {
	p := item.(*controller.Project)

	scmType := p.SCMType
	if scmType == "" && p.SCMURL != "" {
		scmType = "git"
	}

	return map[string]any{
		"name":                     p.Name,
		"description":              p.Description,
		"scm_type":                 scmType,
		"scm_url":                  p.SCMURL,
		"scm_branch":               p.SCMBranch,
		"scm_clean":                p.SCMClean,
		"scm_track_submodules":     p.SCMTrackSubmodules,
		"scm_delete_on_update":     p.SCMDeleteOnUpdate,
		"scm_update_on_launch":     p.SCMUpdateOnLaunch,
		"scm_update_cache_timeout": p.SCMUpdateCacheTimeout,
		"timeout":                  p.Timeout,
		"allow_override":           p.AllowOverride,
		"organization":             a.orgID,
	}, nil
}
