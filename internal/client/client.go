// Package client is an HTTP client for the recovery API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/distr-sh/recoverd/api"
	"github.com/distr-sh/recoverd/internal/httpstatus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) RequestRecovery(ctx context.Context, username string) error {
	_, err := c.do(ctx, http.MethodPost, c.recoveryURL(""), api.RequestRecoveryRequest{Username: username}, nil)
	return err
}

func (c *Client) CompleteRecovery(ctx context.Context, accountID, token, key string) (*api.KeyDescriptor, error) {
	var response api.CompleteRecoveryResponse
	_, err := c.do(ctx, http.MethodPut, c.recoveryURL(accountID),
		api.CompleteRecoveryRequest{Token: token, Key: key}, &response)
	if err != nil {
		return nil, err
	}
	return &response.Body, nil
}

func (c *Client) CheckToken(ctx context.Context, accountID, token string) (*api.TokenStatus, error) {
	u := c.recoveryURL(accountID)
	u.RawQuery = url.Values{"token": {token}}.Encode()
	var response api.CheckTokenResponse
	if _, err := c.do(ctx, http.MethodGet, u, nil, &response); err != nil {
		return nil, err
	}
	return &response.Body, nil
}

func (c *Client) recoveryURL(accountID string) *url.URL {
	if accountID == "" {
		return c.baseURL.JoinPath("api", "v1", "recovery")
	}
	return c.baseURL.JoinPath("api", "v1", "recovery", accountID)
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, body any, out any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpstatus.CheckStatus(c.httpClient.Do(req))
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return resp, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}
