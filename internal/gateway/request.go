package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Request describes a call to the backend. The body is encoded once so that the request can be replayed
// after a refresh. A Request must not be sent by more than one goroutine at a time.
type Request struct {
	Method string
	// Path is relative to the API base URL, it may contain a query string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header

	body    []byte
	encoded bool
	retried bool
}

// Retried reports whether the request has already gone through a token refresh.
func (r *Request) Retried() bool {
	return r.retried
}

func (r *Request) encode() error {
	if r.encoded {
		return nil
	}
	switch body := r.Body.(type) {
	case nil:
		r.body = nil
	case []byte:
		r.body = body
	case json.RawMessage:
		r.body = body
	case string:
		r.body = []byte(body)
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode the request body: %w", err)
		}
		r.body = raw
	}
	r.encoded = true
	return nil
}

func (r *Request) resolve(baseURL *url.URL) *url.URL {
	path, rawQuery, _ := strings.Cut(r.Path, "?")
	output := baseURL.JoinPath(path)
	// pairs that cannot be decoded are dropped, the others are kept
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		slog.Debug("GATEWAY", "message", "ignoring malformed query parameters", "path", r.Path, "error", err)
	}
	for key, values := range r.Query {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	output.RawQuery = query.Encode()
	return output
}

var authEndpoints = []string{"/auth/login", "/auth/refresh", "/auth/logout"}

// isAuthEndpoint reports whether a 401 from this path means bad credentials rather than an expired token.
func isAuthEndpoint(path string) bool {
	for _, endpoint := range authEndpoints {
		if strings.Contains(path, endpoint) {
			return true
		}
	}
	return false
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into out. Empty bodies and a nil out are ignored.
func (r *Response) Decode(out any) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}
	err := json.Unmarshal(r.Body, out)
	if err != nil {
		return fmt.Errorf("cannot decode the response body: %w", err)
	}
	return nil
}

type refreshResult struct {
	token string
	err   error
}

// pendingRequest is a request waiting on a refresh started by another request.
// The channel is buffered so that settling the queue never blocks.
type pendingRequest struct {
	request *Request
	result  chan refreshResult
}

func newPendingRequest(request *Request) *pendingRequest {
	return &pendingRequest{request: request, result: make(chan refreshResult, 1)}
}

func (p *pendingRequest) describe() (string, string) {
	if p.request == nil {
		return "", ""
	}
	return p.request.Method, p.request.Path
}
