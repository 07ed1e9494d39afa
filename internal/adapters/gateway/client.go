package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every backend call. A timed-out call is treated
// exactly like any other network failure.
const DefaultTimeout = 30 * time.Second

// TokenProvider supplies the current bearer token. Only the session state
// holder writes the token; everything else reads it through this interface.
type TokenProvider interface {
	Token() string
}

// Config holds gateway configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client wraps all outbound backend calls with bearer-token authorization
// and uniform error surfacing
type Client struct {
	http *resty.Client
}

// New creates a gateway client
func New(cfg Config, tokens TokenProvider) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	httpc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if tok := tokens.Token(); tok != "" {
			r.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	return &Client{http: httpc}
}

// envelope is the backend's uniform response shape
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do issues one request and decodes the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: "backend unreachable", Err: err}
	}

	var env envelope
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return &APIError{Kind: KindNetwork, Status: resp.StatusCode(), Message: "malformed backend response", Err: err}
		}
	}

	if resp.IsError() || !env.Success {
		return classify(resp.StatusCode(), env)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Kind: KindNetwork, Status: resp.StatusCode(), Message: "malformed backend payload", Err: err}
		}
	}
	return nil
}
