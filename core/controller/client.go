package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"controller-migrate/core/reconcile"
)

// ErrNotFound is returned for 404 responses on targeted lookups.
var ErrNotFound = errors.New("object not found")

// APIError is a non-2xx response from a control-plane API.
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s -> %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// client is the shared HTTP layer under SourceClient and TargetClient.
type client struct {
	base    string
	apiPath string
	token   string
	http    *http.Client
}

func newClient(cfg Config, apiPath string) *client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
	}

	return &client{
		base:    strings.TrimRight(cfg.Host, "/"),
		apiPath: apiPath,
		token:   cfg.Token,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}
}

// url resolves a path against the instance. Absolute paths (pagination
// "next" links) keep only the host prefix; relative paths go under the
// API root.
func (c *client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return c.base + path
	}
	return c.base + c.apiPath + "/" + path
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// getJSON performs a GET and decodes the response into out.
func (c *client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", c.url(path), ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp, http.MethodGet, c.url(path))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON performs a POST and decodes the response into out when out
// is non-nil. Duplicate-object rejections wrap reconcile.ErrAlreadyExists
// so the executor can treat a retried create as success.
func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNoContent:
		return nil
	}

	apiErr := apiError(resp, http.MethodPost, c.url(path))
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(apiErr.Body, "already exists") {
		return fmt.Errorf("%s: %w", apiErr.Error(), reconcile.ErrAlreadyExists)
	}
	return apiErr
}

// patchJSON performs a PATCH, discarding the response body.
func (c *client) patchJSON(ctx context.Context, path string, body any) error {
	resp, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp, http.MethodPatch, c.url(path))
	}
	return nil
}

// listPages follows the API's "next" links, invoking visit for every
// result object across all pages.
func (c *client) listPages(ctx context.Context, path string, visit func(json.RawMessage) error) error {
	next := path
	for next != "" {
		var page struct {
			Next    *string           `json:"next"`
			Results []json.RawMessage `json:"results"`
		}
		if err := c.getJSON(ctx, next, &page); err != nil {
			return err
		}
		for _, raw := range page.Results {
			if err := visit(raw); err != nil {
				return err
			}
		}
		if page.Next == nil {
			break
		}
		next = *page.Next
	}
	return nil
}

func apiError(resp *http.Response, method, url string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method: method,
		URL:    url,
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}
