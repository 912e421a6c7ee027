package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// Send dispatches the request with the stored bearer token. A 401 on a request that is not an auth
// endpoint and has not been retried yet triggers a token refresh, after which the request is replayed once.
// Non-2xx responses are returned as *APIError, a failed refresh as *RefreshError.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	err := req.encode()
	if err != nil {
		return nil, err
	}
	res, err := c.dispatch(ctx, req, c.currentToken(ctx))
	if err == nil {
		return res, nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		return nil, err
	}
	if req.retried || isAuthEndpoint(req.Path) {
		return nil, err
	}
	req.retried = true
	token, err := c.freshToken(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("GATEWAY", "message", "replaying request after refresh", "method", req.Method, "path", req.Path)
	return c.dispatch(ctx, req, token)
}

// dispatch performs a single round trip. The token is attached as a bearer header when it is not empty.
func (c *Client) dispatch(ctx context.Context, req *Request, token string) (*Response, error) {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.resolve(c.baseURL).String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for name, values := range req.Header {
		httpReq.Header[name] = append([]string(nil), values...)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if requestID, err := c.idGenerator.ID(); err == nil {
		httpReq.Header.Set("X-Request-ID", requestID)
	}
	httpReq.Header.Set("X-Client-ID", c.clientID)
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, req.Path, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the response of %s %s: %w", method, req.Path, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		slog.Debug(
			"GATEWAY",
			"message",
			"backend returned an error",
			"method",
			method,
			"path",
			req.Path,
			"status",
			res.StatusCode,
		)
		return nil, newAPIError(method, req.Path, res.StatusCode, raw)
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: raw}, nil
}

func (c *Client) do(ctx context.Context, req *Request, out any) error {
	res, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}
