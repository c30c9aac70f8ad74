package hirelinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Hireline HTTP API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "api",
		Timeout:  10 * time.Second,
	}
}

// Candidate represents the API candidate model.
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	ResumeLink *string `json:"resume_link,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// Application represents a candidate application.
type Application struct {
	ID                     string           `json:"id"`
	CandidateID            string           `json:"candidate_id"`
	PositionID             string           `json:"position_id"`
	Status                 string           `json:"status"`
	StatusUpdatedAt        string           `json:"status_updated_at"`
	ClientNotifiedAt       *string          `json:"client_notified_at,omitempty"`
	CurrentInterviewStepID *string          `json:"current_interview_step_id,omitempty"`
	CreatedAt              string           `json:"created_at"`
	Candidate              *Candidate       `json:"candidate,omitempty"`
	Events                 []InterviewEvent `json:"interview_events,omitempty"`
}

// InterviewEvent is one journal entry for an application.
type InterviewEvent struct {
	ID            int64  `json:"id"`
	ApplicationID string `json:"application_id"`
	Name          string `json:"event_name"`
	Details       string `json:"details"`
	CreatedAt     string `json:"created_at"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d error=%s", e.StatusCode, e.Message)
}

// CreateApplication submits a candidate application for a position.
func (c *Client) CreateApplication(ctx context.Context, positionID, name, email string, resumeLink *string) (Application, error) {
	candidate := map[string]any{"name": name, "email": email}
	if resumeLink != nil {
		candidate["resume_link"] = *resumeLink
	}
	body := map[string]any{
		"position_id": positionID,
		"candidate":   candidate,
	}
	var resp Application
	err := c.do(ctx, http.MethodPost, "applications", body, &resp)
	return resp, err
}

// GetApplication fetches an application with its candidate and events.
func (c *Client) GetApplication(ctx context.Context, id string) (Application, error) {
	var resp Application
	err := c.do(ctx, http.MethodGet, "applications/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// ListApplications returns a position's applications, newest first.
func (c *Client) ListApplications(ctx context.Context, positionID string) ([]Application, error) {
	var resp []Application
	endpoint := fmt.Sprintf("positions/%s/applications", url.PathEscape(positionID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// UpdateStatus moves an application to a new pipeline status.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) (Application, error) {
	var resp Application
	err := c.do(ctx, http.MethodPatch, "applications/"+url.PathEscape(id), map[string]any{"status": status}, &resp)
	return resp, err
}

// DeleteApplication removes an application and returns the deleted record.
func (c *Client) DeleteApplication(ctx context.Context, id string) (Application, error) {
	var resp Application
	err := c.do(ctx, http.MethodDelete, "applications/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// Events tails the interview event journal.
func (c *Client) Events(ctx context.Context, limit int) ([]InterviewEvent, error) {
	endpoint := "events"
	if limit > 0 {
		endpoint = fmt.Sprintf("events?limit=%d", limit)
	}
	var resp []InterviewEvent
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	u := c.base() + "/" + strings.Trim(c.BasePath, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
		}
		return err
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
