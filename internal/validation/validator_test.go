package validation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService stands in for the external validation service.
func fakeService(t *testing.T, issues []Issue, failValidate bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schemas/load":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "HED", req["name"])
			json.NewEncoder(w).Encode(map[string]string{"id": "schema-1"})
		case "/validate":
			if failValidate {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "schema engine crashed"}`))
				return
			}
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "schema-1", req["schema_id"])
			assert.Equal(t, true, req["check_for_warnings"])
			assert.Equal(t, false, req["allow_placeholders"])
			json.NewEncoder(w).Encode(map[string][]Issue{"issues": issues})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestCountIssues_Clean(t *testing.T) {
	server := fakeService(t, []Issue{}, false)
	defer server.Close()

	client := NewClient(server.URL)
	count := client.CountIssues(context.Background(), "(Sensory-event)", "HED", "8.3.0")
	assert.Equal(t, 0, count)
}

func TestCountIssues_WithIssues(t *testing.T) {
	issues := []Issue{
		{Code: "TAG_INVALID", Message: "Invalid tag: Bogus-tag", Severity: "error"},
		{Code: "PARENTHESES_MISMATCH", Message: "Unbalanced parentheses", Severity: "error"},
	}
	server := fakeService(t, issues, false)
	defer server.Close()

	client := NewClient(server.URL)
	count := client.CountIssues(context.Background(), "(Bogus-tag", "HED", "8.3.0")
	assert.Equal(t, 2, count)
}

func TestCountIssues_ServiceErrorReturnsSentinel(t *testing.T) {
	server := fakeService(t, nil, true)
	defer server.Close()

	client := NewClient(server.URL)
	count := client.CountIssues(context.Background(), "(Event)", "HED", "8.3.0")
	assert.Equal(t, ValidationFailed, count)
}

func TestCountIssues_UnreachableServiceReturnsSentinel(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	count := client.CountIssues(context.Background(), "(Event)", "HED", "8.3.0")
	assert.Equal(t, ValidationFailed, count)
}

func TestLoadSchema(t *testing.T) {
	server := fakeService(t, nil, false)
	defer server.Close()

	client := NewClient(server.URL)
	schema, err := client.LoadSchema(context.Background(), "HED", "8.3.0")
	require.NoError(t, err)
	assert.Equal(t, "schema-1", schema.ID)
	assert.Equal(t, "HED", schema.Name)
	assert.Equal(t, "8.3.0", schema.Version)
}
