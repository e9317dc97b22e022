// Package validation is the client for the external HED schema-validation
// service. The service owns the schemas and the validation logic; this core
// only ever observes an issue count.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dungscout96/prompt-experiment/internal/logger"
)

// ValidationFailed is the sentinel issue count meaning validation itself
// could not be performed. Callers must distinguish it from a clean result
// of 0.
const ValidationFailed = -1

// Issue is one problem the service found in an annotation.
type Issue struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// Schema is a handle to a schema loaded on the service side.
type Schema struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Client talks to the validation service over JSON/HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a validation service client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LoadSchema asks the service to load a named schema at a specific version.
func (c *Client) LoadSchema(ctx context.Context, name, version string) (*Schema, error) {
	reqBody := map[string]string{
		"name":    name,
		"version": version,
	}

	var loadResp struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/schemas/load", reqBody, &loadResp); err != nil {
		return nil, fmt.Errorf("failed to load schema %s %s: %w", name, version, err)
	}

	return &Schema{ID: loadResp.ID, Name: name, Version: version}, nil
}

// Validate submits an annotation against a loaded schema with warnings
// enabled or disabled and placeholder tags allowed or disallowed, returning
// the issue list.
func (c *Client) Validate(ctx context.Context, annotation string, schema *Schema, checkWarnings, allowPlaceholders bool) ([]Issue, error) {
	reqBody := map[string]interface{}{
		"schema_id":          schema.ID,
		"annotation":         annotation,
		"check_for_warnings": checkWarnings,
		"allow_placeholders": allowPlaceholders,
	}

	var validateResp struct {
		Issues []Issue `json:"issues"`
	}
	if err := c.post(ctx, "/validate", reqBody, &validateResp); err != nil {
		return nil, fmt.Errorf("failed to validate annotation: %w", err)
	}

	return validateResp.Issues, nil
}

// CountIssues loads the schema, validates the annotation with warnings
// enabled and placeholders disallowed, and reduces the outcome to the issue
// count contract: 0 clean, n>0 issues found, ValidationFailed when the
// validation itself failed. Failure detail is logged, never returned.
func (c *Client) CountIssues(ctx context.Context, annotation, schemaName, schemaVersion string) int {
	schema, err := c.LoadSchema(ctx, schemaName, schemaVersion)
	if err != nil {
		logger.Error("Schema load failed: %v", err)
		return ValidationFailed
	}

	issues, err := c.Validate(ctx, annotation, schema, true, false)
	if err != nil {
		logger.Error("Validation failed: %v", err)
		return ValidationFailed
	}

	return len(issues)
}

func (c *Client) post(ctx context.Context, path string, reqBody, out interface{}) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error: %s", string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
