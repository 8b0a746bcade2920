// Package api is the HTTP boundary to the CRM backend: roster and detail
// sources, the mutation sink, the dashboard source, and the assistant
// backend. Every failure comes back as a *NetworkError or *ValidationError;
// callers turn them into notifications and never let them propagate.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

// Client talks JSON to the backend. It is safe for use from the sequential
// Bubble Tea command goroutines; timeouts live on the embedded http.Client.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for baseURL (no trailing slash required).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// errorBody is the backend's uniform failure envelope.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, header http.Header) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	started := time.Now()
	res, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &NetworkError{Message: "network error: " + err.Error()}
	}
	defer res.Body.Close()
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(started)))

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Status: res.StatusCode, Message: "read response: " + err.Error()}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var failure errorBody
		message := "network error"
		if json.Unmarshal(raw, &failure) == nil && strings.TrimSpace(failure.Error) != "" {
			message = failure.Error
		}
		if res.StatusCode == http.StatusBadRequest {
			return &ValidationError{Message: message}
		}
		return &NetworkError{Status: res.StatusCode, Message: message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &NetworkError{Status: res.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}

// Health checks that the backend is reachable at startup.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/api/health", nil, &out, nil)
}

// FetchContacts loads the full roster snapshot.
func (c *Client) FetchContacts(ctx context.Context) ([]domain.Contact, error) {
	var out struct {
		Contacts []domain.Contact `json:"contacts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

// FetchContactDetail loads one contact with its interaction timeline,
// newest first.
func (c *Client) FetchContactDetail(ctx context.Context, id string) (domain.Contact, []domain.Interaction, error) {
	var out struct {
		Contact      domain.Contact       `json:"contact"`
		Interactions []domain.Interaction `json:"interactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/contacts/"+id, nil, &out, nil); err != nil {
		return domain.Contact{}, nil, err
	}
	return out.Contact, out.Interactions, nil
}

// FetchDashboard loads the header stats.
func (c *Client) FetchDashboard(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &out, nil); err != nil {
		return domain.DashboardStats{}, err
	}
	return out, nil
}

// ContactFields is the create-contact payload. Name is required; the backend
// defaults an empty status to lead.
type ContactFields struct {
	Name    string               `json:"name"`
	Email   string               `json:"email,omitempty"`
	Phone   string               `json:"phone,omitempty"`
	Company string               `json:"company,omitempty"`
	Status  domain.ContactStatus `json:"status,omitempty"`
}

// CreateContact creates a contact and returns the stored row.
func (c *Client) CreateContact(ctx context.Context, fields ContactFields) (domain.Contact, error) {
	var out struct {
		Contact domain.Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/contacts", fields, &out, nil); err != nil {
		return domain.Contact{}, err
	}
	return out.Contact, nil
}

// UpdateContactStatus moves a contact to a new pipeline status.
func (c *Client) UpdateContactStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	body := map[string]domain.ContactStatus{"status": status}
	var out struct {
		Contact domain.Contact `json:"contact"`
	}
	return c.do(ctx, http.MethodPut, "/api/contacts/"+id, body, &out, nil)
}

// DeleteContact removes a contact; the backend cascades its interactions.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/"+id, nil, nil, nil)
}

// InteractionFields is the create-interaction payload. ContactID, Type and
// Summary are required.
type InteractionFields struct {
	ContactID      string                 `json:"contact_id"`
	Type           domain.InteractionType `json:"type"`
	Summary        string                 `json:"summary"`
	NextAction     string                 `json:"next_action,omitempty"`
	NextActionDate string                 `json:"next_action_date,omitempty"`
}

// CreateInteraction logs a touchpoint on a contact's timeline.
func (c *Client) CreateInteraction(ctx context.Context, fields InteractionFields) (domain.Interaction, error) {
	var out struct {
		Interaction domain.Interaction `json:"interaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/interactions", fields, &out, nil); err != nil {
		return domain.Interaction{}, err
	}
	return out.Interaction, nil
}

// DeleteInteraction removes one timeline item.
func (c *Client) DeleteInteraction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/interactions/"+id, nil, nil, nil)
}

// Ask sends one chat message to the assistant backend. A non-empty
// credential is attached as a bearer token. A well-formed response may still
// carry an error field, which counts as a failure.
func (c *Client) Ask(ctx context.Context, message, credential string) (string, error) {
	body := map[string]string{"message": message}
	var header http.Header
	if credential != "" {
		header = http.Header{"Authorization": []string{"Bearer " + credential}}
	}
	var out struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &out, header); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Error) != "" {
		return "", &NetworkError{Status: http.StatusOK, Message: out.Error}
	}
	return out.Reply, nil
}
