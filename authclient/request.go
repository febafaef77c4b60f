package authclient

import (
	"context"
	"net/http"
)

// Request is an API call relative to the client's base URL. Retried is set by
// the Dispatcher when the request is resubmitted after a refresh.
type Request struct {
	Method  string
	Path    string
	Header  http.Header
	Body    []byte
	Retried bool
}

// NewRequest creates a request with an empty header.
func NewRequest(method, path string, body []byte) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: make(http.Header),
		Body:   body,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// SendFunc puts a request on the wire exactly as it is, without signing or refresh handling.
type SendFunc func(ctx context.Context, req *Request) (*Response, error)
