package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Client is the typed Leap API client. It implements every service
// interface on top of a Transport.
type Client struct {
	transport Transport
}

var (
	_ HealthChecker      = (*Client)(nil)
	_ ChallengeService   = (*Client)(nil)
	_ MindContentService = (*Client)(nil)
	_ AuthService        = (*Client)(nil)
)

// NewClient creates a client over the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Services returns the client as the full service bundle.
func (c *Client) Services() Services {
	return Services{Health: c, Challenges: c, Content: c, Auth: c}
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.call(ctx, http.MethodGet, "/api/health", nil, nil, healthSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetChallengeTemplates(ctx context.Context, filter TemplateFilter) ([]ChallengeTemplate, error) {
	var out []ChallengeTemplate
	err := c.call(ctx, http.MethodGet, "/api/practice_challenges/templates", filter.Query(), nil, templateListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetChallengeTemplateByID(ctx context.Context, id int) (*ChallengeTemplate, error) {
	var out ChallengeTemplate
	path := fmt.Sprintf("/api/practice_challenges/templates/%d", id)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, templateSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitChallengeCompletion(ctx context.Context, req CompletionRequest) (*ChallengeCompletion, error) {
	var out ChallengeCompletion
	err := c.call(ctx, http.MethodPost, "/api/practice_challenges/complete", nil, req, completionSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMyChallengeCompletions(ctx context.Context) ([]ChallengeCompletion, error) {
	var out []ChallengeCompletion
	err := c.call(ctx, http.MethodGet, "/api/users/me/challenge_completions", nil, nil, completionListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMindContent(ctx context.Context, filter ContentFilter) ([]MindContent, error) {
	var out []MindContent
	err := c.call(ctx, http.MethodGet, "/api/mind_content", filter.Query(), nil, contentListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMindContentCategories(ctx context.Context) ([]MindContentCategory, error) {
	var out []MindContentCategory
	err := c.call(ctx, http.MethodGet, "/api/mind_content/categories", nil, nil, categoryListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetMindContentByID(ctx context.Context, id int) (*MindContent, error) {
	var out MindContent
	path := fmt.Sprintf("/api/mind_content/%d", id)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, contentSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddMindContent(ctx context.Context, input MindContentInput) (*MindContent, error) {
	var out MindContent
	if err := c.call(ctx, http.MethodPost, "/api/mind_content", nil, input, contentSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMindContent(ctx context.Context, id int, input MindContentInput) (*MindContent, error) {
	var out MindContent
	path := fmt.Sprintf("/api/mind_content/%d", id)
	if err := c.call(ctx, http.MethodPut, path, nil, input, contentSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	body := LoginRequest{Username: username, Password: password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, body, loginSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call issues one logical request, validates the body against schema and
// decodes it into out.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, schema *Schema, out any) error {
	resp, err := c.transport.Do(ctx, Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
		ID:     uuid.NewString(),
	})
	if err != nil {
		return err
	}

	if err := validateResponse(schema, resp.Body); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &InvalidResponseError{Body: resp.Body, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}
