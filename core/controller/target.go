package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"controller-migrate/core/reconcile"
)

// TargetClient writes to the AAP controller (/api/controller/v2) and
// implements reconcile.Target.
type TargetClient struct {
	c *client

	// Organization is the numeric org new objects are created under.
	Organization int
}

// NewTarget creates a client for the AAP controller.
func NewTarget(cfg Config) *TargetClient {
	return &TargetClient{
		c:            newClient(cfg, "/api/controller/v2"),
		Organization: cfg.Organization,
	}
}

func kindPath(kind reconcile.Kind) string {
	switch kind {
	case reconcile.KindProject:
		return "projects"
	case reconcile.KindJobTemplate:
		return "job_templates"
	case reconcile.KindSchedule:
		return "schedules"
	}
	return string(kind) + "s"
}

// Ping verifies the controller is reachable and the token works. A run
// aborts before any mutation when this fails.
func (t *TargetClient) Ping(ctx context.Context) error {
	var out map[string]any
	if err := t.c.getJSON(ctx, "ping/", &out); err != nil {
		return fmt.Errorf("controller not reachable: %w", err)
	}
	return nil
}

// EnsureOrganization verifies the configured organization exists.
func (t *TargetClient) EnsureOrganization(ctx context.Context) error {
	if t.Organization == 0 {
		return fmt.Errorf("target organization is not configured")
	}
	var out map[string]any
	if err := t.c.getJSON(ctx, fmt.Sprintf("organizations/%d/", t.Organization), &out); err != nil {
		return fmt.Errorf("organization %d: %w", t.Organization, err)
	}
	return nil
}

// Create posts a new object of kind and returns its ID. Duplicate
// rejections wrap reconcile.ErrAlreadyExists (see client.postJSON).
func (t *TargetClient) Create(ctx context.Context, kind reconcile.Kind, payload map[string]any) (int, error) {
	var created struct {
		ID int `json:"id"`
	}
	if err := t.c.postJSON(ctx, kindPath(kind)+"/", payload, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// Update patches an existing object in place.
func (t *TargetClient) Update(ctx context.Context, kind reconcile.Kind, id int, payload map[string]any) error {
	return t.c.patchJSON(ctx, fmt.Sprintf("%s/%d/", kindPath(kind), id), payload)
}

// FindByNameAndOrg resolves an object by exact name within an
// organization. The API treats name as a unique filter per org; the
// first result wins.
func (t *TargetClient) FindByNameAndOrg(ctx context.Context, kind reconcile.Kind, name string, orgID int) (int, bool, error) {
	path := fmt.Sprintf("%s/?name=%s&organization=%d", kindPath(kind), url.QueryEscape(name), orgID)
	var page struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := t.c.getJSON(ctx, path, &page); err != nil {
		return 0, false, err
	}
	if len(page.Results) == 0 {
		return 0, false, nil
	}
	return page.Results[0].ID, true, nil
}

// ListProjects returns all target-side projects for index building.
func (t *TargetClient) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := t.c.listPages(ctx, fmt.Sprintf("projects/?page_size=%d", pageSize), func(raw json.RawMessage) error {
		var p Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListJobTemplates returns all target-side job templates.
func (t *TargetClient) ListJobTemplates(ctx context.Context) ([]JobTemplate, error) {
	var templates []JobTemplate
	err := t.c.listPages(ctx, fmt.Sprintf("job_templates/?page_size=%d", pageSize), func(raw json.RawMessage) error {
		var jt JobTemplate
		if err := json.Unmarshal(raw, &jt); err != nil {
			return fmt.Errorf("decode job template: %w", err)
		}
		templates = append(templates, jt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// ListInventories returns all target-side inventories for reference
// resolution.
func (t *TargetClient) ListInventories(ctx context.Context) ([]Inventory, error) {
	var inventories []Inventory
	err := t.c.listPages(ctx, fmt.Sprintf("inventories/?page_size=%d", pageSize), func(raw json.RawMessage) error {
		var inv Inventory
		if err := json.Unmarshal(raw, &inv); err != nil {
			return fmt.Errorf("decode inventory: %w", err)
		}
		inventories = append(inventories, inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inventories, nil
}

// ListTemplateSchedules returns the schedules on a target job template.
func (t *TargetClient) ListTemplateSchedules(ctx context.Context, templateID int) ([]Schedule, error) {
	var schedules []Schedule
	err := t.c.listPages(ctx, fmt.Sprintf("job_templates/%d/schedules/?page_size=%d", templateID, pageSize), func(raw json.RawMessage) error {
		var sch Schedule
		if err := json.Unmarshal(raw, &sch); err != nil {
			return fmt.Errorf("decode schedule: %w", err)
		}
		schedules = append(schedules, sch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetExecutionEnvironment fetches an execution environment by ID. The
// templates flow validates that a forced EE is global or belongs to the
// target organization before planning.
func (t *TargetClient) GetExecutionEnvironment(ctx context.Context, id int) (*ExecutionEnvironment, error) {
	var ee ExecutionEnvironment
	if err := t.c.getJSON(ctx, fmt.Sprintf("execution_environments/%d/", id), &ee); err != nil {
		return nil, err
	}
	return &ee, nil
}

// FindCredential resolves a credential by name within the organization.
// When several credentials share the name, the type name disambiguates:
// first against the embedded summary, then via an explicit
// credential_type filter. IDs are never matched across installs.
func (t *TargetClient) FindCredential(ctx context.Context, name, typeName string, orgID int) (*Credential, error) {
	path := fmt.Sprintf("credentials/?name=%s&organization=%d", url.QueryEscape(name), orgID)
	var page struct {
		Results []Credential `json:"results"`
	}
	if err := t.c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}

	if len(page.Results) == 1 {
		return &page.Results[0], nil
	}
	if len(page.Results) > 1 && typeName != "" {
		for i := range page.Results {
			ct := page.Results[i].SummaryFields.CredentialType
			if ct != nil && ct.Name == typeName {
				return &page.Results[i], nil
			}
		}
	}

	if typeName != "" {
		typeID, err := t.findCredentialTypeID(ctx, typeName)
		if err != nil {
			return nil, err
		}
		if typeID != 0 {
			path = fmt.Sprintf("credentials/?name=%s&organization=%d&credential_type=%d",
				url.QueryEscape(name), orgID, typeID)
			var filtered struct {
				Results []Credential `json:"results"`
			}
			if err := t.c.getJSON(ctx, path, &filtered); err != nil {
				return nil, err
			}
			if len(filtered.Results) > 0 {
				return &filtered.Results[0], nil
			}
		}
	}

	if len(page.Results) > 0 {
		return &page.Results[0], nil
	}
	return nil, nil
}

func (t *TargetClient) findCredentialTypeID(ctx context.Context, name string) (int, error) {
	path := "credential_types/?name=" + url.QueryEscape(name)
	var page struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := t.c.getJSON(ctx, path, &page); err != nil {
		return 0, err
	}
	if len(page.Results) == 0 {
		return 0, nil
	}
	return page.Results[0].ID, nil
}

// AttachCredential associates a credential with a job template.
func (t *TargetClient) AttachCredential(ctx context.Context, templateID, credentialID int) error {
	path := fmt.Sprintf("job_templates/%d/credentials/", templateID)
	return t.c.postJSON(ctx, path, map[string]any{"id": credentialID}, nil)
}
