// Package client is a Go SDK for the listing API. It backs the filter state
// store and command-line tooling.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ListResponse is one page of GET /properties.
type ListResponse struct {
	Properties []domain.Property `json:"properties"`
	Pagination Pagination        `json:"pagination"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			msgs[i] = f.Message
		}
		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// NotFound reports whether err is a 404 from the API.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

type errorBody struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors"`
}

type Option func(*resty.Client)

// WithToken sends the bearer token on every request.
func WithToken(token string) Option {
	return func(c *resty.Client) { c.SetAuthToken(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries retries transport failures and 5xx answers.
func WithRetries(n int) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(n).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err == nil && r.StatusCode() >= 500
			})
	}
}

type Client struct {
	http *resty.Client
}

// New builds a client for baseURL, e.g. http://localhost:3001/api.
func New(baseURL string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json").
		SetError(&errorBody{})
	for _, opt := range opts {
		opt(hc)
	}
	return &Client{http: hc}
}

// ListProperties runs a listing search. Default parameters are omitted from the wire.
func (c *Client) ListProperties(ctx context.Context, q listquery.Query) (*ListResponse, error) {
	var out ListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(q.Values()).
		SetResult(&out).
		Get("/properties")
	if err := check(resp, err, "list properties"); err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(out.Properties)).Int64("total", out.Pagination.Total).Msg("properties listed")
	return &out, nil
}

// Fetch satisfies filterstate.Fetcher.
func (c *Client) Fetch(ctx context.Context, q listquery.Query) (*ListResponse, error) {
	return c.ListProperties(ctx, q)
}

func (c *Client) Featured(ctx context.Context) ([]domain.Property, error) {
	var out struct {
		Properties []domain.Property `json:"properties"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/properties/featured")
	if err := check(resp, err, "featured properties"); err != nil {
		return nil, err
	}
	return out.Properties, nil
}

func (c *Client) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var out struct {
		Property domain.Property `json:"property"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&out).
		Get("/properties/{id}")
	if err := check(resp, err, "get property"); err != nil {
		return nil, err
	}
	return &out.Property, nil
}

func (c *Client) Similar(ctx context.Context, id uuid.UUID) ([]domain.Property, error) {
	var out struct {
		Similar []domain.Property `json:"similar"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&out).
		Get("/properties/{id}/similar")
	if err := check(resp, err, "similar properties"); err != nil {
		return nil, err
	}
	return out.Similar, nil
}

func (c *Client) SavedProperties(ctx context.Context) ([]domain.SavedProperty, error) {
	var out struct {
		Saved []domain.SavedProperty `json:"saved"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/users/saved")
	if err := check(resp, err, "saved properties"); err != nil {
		return nil, err
	}
	return out.Saved, nil
}

// Save bookmarks a listing for the token's user. notes may be empty.
func (c *Client) Save(ctx context.Context, propertyID uuid.UUID, notes string) (*domain.SavedProperty, error) {
	var out struct {
		Saved domain.SavedProperty `json:"saved"`
	}
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("id", propertyID.String()).
		SetResult(&out)
	if notes != "" {
		req.SetBody(map[string]string{"notes": notes})
	}
	resp, err := req.Post("/users/saved/{id}")
	if err := check(resp, err, "save property"); err != nil {
		return nil, err
	}
	return &out.Saved, nil
}

func (c *Client) Unsave(ctx context.Context, propertyID uuid.UUID) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", propertyID.String()).
		Delete("/users/saved/{id}")
	return check(resp, err, "unsave property")
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.Fields = body.Errors
	}
	log.Warn().Str("op", op).Int("status", apiErr.Status).Str("error", apiErr.Message).Msg("api request failed")
	return apiErr
}
