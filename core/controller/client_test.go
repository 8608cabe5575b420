package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(host string) controller.Config {
	return controller.Config{
		Host:           host,
		Token:          "test-token",
		TimeoutSeconds: 5,
		Organization:   3,
	}
}

func TestSourceClient_ListProjectsFollowsPagination(t *testing.T) {
	var sawAuth []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = append(sawAuth, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v2/projects/" && r.URL.Query().Get("page") == "":
			next := "/api/v2/projects/?page=2"
			json.NewEncoder(w).Encode(map[string]any{
				"next": next,
				"results": []map[string]any{
					{"id": 1, "name": "alpha", "scm_url": "https://git.example.com/a"},
					{"id": 2, "name": "beta", "scm_url": "https://git.example.com/b"},
				},
			})
		case r.URL.Path == "/api/v2/projects/" && r.URL.Query().Get("page") == "2":
			json.NewEncoder(w).Encode(map[string]any{
				"next": nil,
				"results": []map[string]any{
					{"id": 3, "name": "gamma", "scm_url": "https://git.example.com/c"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	source := controller.NewSource(testConfig(srv.URL))
	projects, err := source.ListProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "alpha", projects[0].Name)
	assert.Equal(t, "gamma", projects[2].Name)

	// Every request carried the bearer token.
	require.Len(t, sawAuth, 2)
	for _, h := range sawAuth {
		assert.Equal(t, "Bearer test-token", h)
	}
}

func TestSourceClient_GetProjectNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	source := controller.NewSource(testConfig(srv.URL))
	p, err := source.GetProject(context.Background(), 99)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, controller.ErrNotFound)
}

func TestTargetClient_CreateWrapsAlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/controller/v2/projects/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"name": ["Project with this Name and Organization already exists."]}`)
	}))
	defer srv.Close()

	target := controller.NewTarget(testConfig(srv.URL))
	id, err := target.Create(context.Background(), reconcile.KindProject, map[string]any{"name": "dup"})

	assert.Zero(t, id)
	assert.ErrorIs(t, err, reconcile.ErrAlreadyExists)
}

func TestTargetClient_CreateReturnsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "fresh", payload["name"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 42, "name": "fresh"}`)
	}))
	defer srv.Close()

	target := controller.NewTarget(testConfig(srv.URL))
	id, err := target.Create(context.Background(), reconcile.KindProject, map[string]any{"name": "fresh"})

	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestTargetClient_CreateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"detail": "You do not have permission to perform this action."}`)
	}))
	defer srv.Close()

	target := controller.NewTarget(testConfig(srv.URL))
	_, err := target.Create(context.Background(), reconcile.KindProject, map[string]any{"name": "x"})

	require.Error(t, err)
	var apiErr *controller.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Contains(t, apiErr.Body, "permission")
}

func TestTargetClient_FindByNameAndOrg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Deploy App", r.URL.Query().Get("name"))
		assert.Equal(t, "3", r.URL.Query().Get("organization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("name") == "Deploy App" {
			fmt.Fprint(w, `{"results": [{"id": 7, "name": "Deploy App"}]}`)
			return
		}
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	target := controller.NewTarget(testConfig(srv.URL))
	id, found, err := target.FindByNameAndOrg(context.Background(), reconcile.KindJobTemplate, "Deploy App", 3)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, id)
}

func TestTargetClient_EnsureOrganization(t *testing.T) {
	t.Run("Unconfigured", func(t *testing.T) {
		target := controller.NewTarget(controller.Config{Host: "https://aap.example.com", Token: "t"})
		assert.Error(t, target.EnsureOrganization(context.Background()))
	})

	t.Run("Missing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		target := controller.NewTarget(testConfig(srv.URL))
		err := target.EnsureOrganization(context.Background())
		assert.ErrorIs(t, err, controller.ErrNotFound)
	})

	t.Run("Exists", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/controller/v2/organizations/3/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": 3, "name": "Default"}`)
		}))
		defer srv.Close()

		target := controller.NewTarget(testConfig(srv.URL))
		assert.NoError(t, target.EnsureOrganization(context.Background()))
	})
}
