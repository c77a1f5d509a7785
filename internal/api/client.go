// Package api is the gateway to the investment service. All remote
// calls go through the Client, which attaches the session token and
// classifies every failure into one error taxonomy.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"investctl/internal/config"
	"investctl/internal/errors"
	"investctl/internal/logging"
	"investctl/internal/session"
)

// TokenSource supplies the current bearer token, if any.
type TokenSource interface {
	Get() (string, bool)
}

// Client talks to the remote service. Safe for concurrent use.
type Client struct {
	rest   *resty.Client
	tokens TokenSource
	log    zerolog.Logger
}

var _ TokenSource = (*session.Store)(nil)

// New builds a Client against cfg.BaseURL. All routes live under the
// /api prefix on the server side.
func New(cfg config.ServiceConfig, tokens TokenSource, log zerolog.Logger) *Client {
	rest := resty.New().
		SetBaseURL(cfg.BaseURL + "/api").
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	c := &Client{rest: rest, tokens: tokens, log: log}

	rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tok, ok := c.tokens.Get(); ok {
			req.SetAuthToken(tok)
		}
		return nil
	})

	return c
}

// detailBody is the error shape the service returns for rejected
// requests, e.g. {"detail": "Incorrect username or password"}.
type detailBody struct {
	Detail string `json:"detail"`
}

// classify maps a completed call to nil or exactly one APIError kind.
// Calls are never retried; the caller decides what a failure means.
func classify(ctx context.Context, resp *resty.Response, err error, op string) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.NewAPIError(errors.KindNetworkError, 0, op, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	msg := op
	var body detailBody
	if json.Unmarshal(resp.Body(), &body) == nil && body.Detail != "" {
		msg = body.Detail
	}

	switch {
	case status == 401:
		return errors.NewAPIError(errors.KindUnauthorized, status, msg, errors.ErrSessionExpired)
	case status == 404:
		return errors.NewAPIError(errors.KindNotFound, status, msg, nil)
	case status >= 400 && status < 500:
		return errors.NewAPIError(errors.KindValidation, status, msg, nil)
	default:
		return errors.NewAPIError(errors.KindServerError, status, msg, nil)
	}
}

// get performs a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	start := time.Now()
	req := c.rest.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Get(path)
	cerr := classify(ctx, resp, err, fmt.Sprintf("GET %s", path))
	logging.LogRequest(c.log, "GET", path, statusOf(resp), time.Since(start), cerr)
	return cerr
}

// postJSON performs a POST with a JSON body and decodes into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	start := time.Now()
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	cerr := classify(ctx, resp, err, fmt.Sprintf("POST %s", path))
	logging.LogRequest(c.log, "POST", path, statusOf(resp), time.Since(start), cerr)
	return cerr
}

// postForm performs a form-encoded POST. Only the token endpoint uses
// this shape.
func (c *Client) postForm(ctx context.Context, path string, form map[string]string, out interface{}) error {
	start := time.Now()
	req := c.rest.R().SetContext(ctx).SetFormData(form)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	cerr := classify(ctx, resp, err, fmt.Sprintf("POST %s", path))
	logging.LogRequest(c.log, "POST", path, statusOf(resp), time.Since(start), cerr)
	return cerr
}

// delete performs a DELETE.
func (c *Client) delete(ctx context.Context, path string) error {
	start := time.Now()
	resp, err := c.rest.R().SetContext(ctx).Delete(path)
	cerr := classify(ctx, resp, err, fmt.Sprintf("DELETE %s", path))
	logging.LogRequest(c.log, "DELETE", path, statusOf(resp), time.Since(start), cerr)
	return cerr
}

func statusOf(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}
