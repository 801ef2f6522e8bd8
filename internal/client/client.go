// Package client talks to the certification endpoints of a running server.
// It is used by tooling such as the seeder and by authoring front ends written
// in Go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/model"
)

// ErrNotFound is returned by Load when the server has no such certification.
var ErrNotFound = errors.New("certification not found")

// NewCourseName loads a fresh, unsaved certification without a request.
const NewCourseName = "new"

// CertificationClient loads and uploads certification documents.
type CertificationClient struct {
	baseURL string
	client  *http.Client
}

// Option configures a CertificationClient.
type Option func(*CertificationClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *CertificationClient) {
		c.client = client
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *CertificationClient {
	c := &CertificationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the named certification. The document is returned as the
// server stores it and may lack identifiers; callers that edit it should run
// certification.AssignIDs first.
func (c *CertificationClient) Load(ctx context.Context, name string) (model.Certification, error) {
	if strings.EqualFold(strings.TrimSpace(name), NewCourseName) {
		return certification.New(), nil
	}

	var cert model.Certification
	if err := c.getJSON(ctx, "/courses/"+url.PathEscape(name), &cert); err != nil {
		return model.Certification{}, fmt.Errorf("load %q: %w", name, err)
	}
	return cert, nil
}

// List returns the names of all stored certifications.
func (c *CertificationClient) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/courses", &names); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return names, nil
}

// Upload sends cert to the server. Failures to reach the server or to read its
// reply are reported as a single validation message.
func (c *CertificationClient) Upload(ctx context.Context, cert model.Certification) model.ValidationResult {
	res, err := c.upload(ctx, cert)
	if err != nil {
		return model.Invalid(err.Error())
	}
	return res
}

func (c *CertificationClient) upload(ctx context.Context, cert model.Certification) (model.ValidationResult, error) {
	body, err := json.Marshal(cert)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("marshal certification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/certificationUpload", bytes.NewReader(body))
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
	default:
		return model.ValidationResult{}, fmt.Errorf("upload failed (status %d)", resp.StatusCode)
	}

	var res model.ValidationResult
	if err := json.Unmarshal(respBody, &res); err != nil {
		return model.ValidationResult{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if !res.Success && len(res.Errors) == 0 {
		res.Errors = []string{fmt.Sprintf("upload rejected (status %d)", resp.StatusCode)}
	}
	return res, nil
}

func (c *CertificationClient) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
