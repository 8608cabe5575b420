package controller

import (
	"context"
	"encoding/json"
	"fmt"
)

// pageSize matches the largest page the AWX API serves.
const pageSize = 200

// SourceClient reads from an AWX instance (/api/v2). It serves both
// the driving source environment and the read-only reference
// environment; the engine never writes through it.
type SourceClient struct {
	c *client
}

// NewSource creates a client for an AWX instance.
func NewSource(cfg Config) *SourceClient {
	return &SourceClient{c: newClient(cfg, "/api/v2")}
}

// ListProjects returns all projects across pages, in API return order.
func (s *SourceClient) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := s.c.listPages(ctx, fmt.Sprintf("projects/?page_size=%d", pageSize), func(raw json.RawMessage) error {
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

// GetProject fetches a single project by ID.
func (s *SourceClient) GetProject(ctx context.Context, id int) (*Project, error) {
	var p Project
	if err := s.c.getJSON(ctx, fmt.Sprintf("projects/%d/", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListJobTemplates returns all job templates across pages.
func (s *SourceClient) ListJobTemplates(ctx context.Context) ([]JobTemplate, error) {
	var templates []JobTemplate
	err := s.c.listPages(ctx, fmt.Sprintf("job_templates/?page_size=%d", pageSize), func(raw json.RawMessage) error {
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

// GetJobTemplate fetches a single job template by ID.
func (s *SourceClient) GetJobTemplate(ctx context.Context, id int) (*JobTemplate, error) {
	var jt JobTemplate
	if err := s.c.getJSON(ctx, fmt.Sprintf("job_templates/%d/", id), &jt); err != nil {
		return nil, err
	}
	return &jt, nil
}

// ListTemplateSchedules returns the schedules owned by a job template.
func (s *SourceClient) ListTemplateSchedules(ctx context.Context, templateID int) ([]Schedule, error) {
	var schedules []Schedule
	err := s.c.listPages(ctx, fmt.Sprintf("job_templates/%d/schedules/?page_size=%d", templateID, pageSize), func(raw json.RawMessage) error {
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

// ListTemplateCredentials returns the credentials attached to a job
// template, with type names for cross-install matching.
func (s *SourceClient) ListTemplateCredentials(ctx context.Context, templateID int) ([]Credential, error) {
	var creds []Credential
	err := s.c.listPages(ctx, fmt.Sprintf("job_templates/%d/credentials/?page_size=%d", templateID, pageSize), func(raw json.RawMessage) error {
		var cr Credential
		if err := json.Unmarshal(raw, &cr); err != nil {
			return fmt.Errorf("decode credential: %w", err)
		}
		creds = append(creds, cr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creds, nil
}
