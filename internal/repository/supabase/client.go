// Package supabase stores the ledger in a hosted Supabase project through
// its PostgREST interface. The tables are the ones created by the postgres
// package schema.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/go-resty/resty/v2"
)

const dateLayout = "2006-01-02"

// Client is a resty-backed PostgREST client authenticated with the service key
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the project at baseURL (e.g. https://xyz.supabase.co)
func NewClient(baseURL, serviceKey string) *Client {
	base := strings.TrimSuffix(baseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", serviceKey).
		SetHeader("Authorization", "Bearer "+serviceKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{http: restyClient}
}

// apiError is the PostgREST error payload
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// statusError is a non-2xx answer from PostgREST
type statusError struct {
	Status int
	Code   string
	Msg    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("postgrest error: status=%d, code=%s, message=%s", e.Status, e.Code, e.Msg)
}

// isConflict reports a unique violation (HTTP 409)
func isConflict(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.Status == http.StatusConflict
}

func (c *Client) selectAll(ctx context.Context, table, order string, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetResult(result)
	if order != "" {
		req.SetQueryParam("order", order)
	}
	resp, err := req.SetError(new(apiError)).Get("/" + table)
	return check("select "+table, resp, err)
}

func (c *Client) selectEq(ctx context.Context, table, column, value string, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetQueryParam(column, "eq."+value).
		SetResult(result).
		SetError(new(apiError)).
		Get("/" + table)
	return check("select "+table, resp, err)
}

func (c *Client) insert(ctx context.Context, table string, rows any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		SetError(new(apiError)).
		Post("/" + table)
	return check("insert "+table, resp, err)
}

// upsert merges rows on the primary key
func (c *Client) upsert(ctx context.Context, table string, rows any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates,return=minimal").
		SetQueryParam("on_conflict", "id").
		SetBody(rows).
		SetError(new(apiError)).
		Post("/" + table)
	return check("upsert "+table, resp, err)
}

func (c *Client) deleteEq(ctx context.Context, table, column, value string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam(column, "eq."+value).
		SetError(new(apiError)).
		Delete("/" + table)
	return check("delete "+table, resp, err)
}

// check turns transport failures and error statuses into domain.ErrPersistence
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	se := &statusError{Status: resp.StatusCode()}
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil {
		se.Code = apiErr.Code
		se.Msg = apiErr.Message
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, se)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	// PostgREST renders DATE columns as YYYY-MM-DD
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q: %w", domain.ErrPersistence, s, err)
	}
	return t, nil
}
