package authclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/storefront-client/internal/metrics"
)

// Dispatcher resubmits a request once with the token produced by the Coordinator.
type Dispatcher struct {
	send    SendFunc
	metrics *metrics.Client
}

func NewDispatcher(send SendFunc, m *metrics.Client) *Dispatcher {
	return &Dispatcher{send: send, metrics: m}
}

// Dispatch returns refreshErr when the refresh failed. Otherwise the request is
// marked retried, given the new bearer token and sent again without re-signing.
// Whatever comes back, including another 401, is final.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request, token string, refreshErr error) (*Response, error) {
	if refreshErr != nil {
		return nil, refreshErr
	}
	if req.Retried {
		return nil, ErrAlreadyRetried
	}

	req.Retried = true
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set(HeaderAuthorization, bearer(token))
	d.metrics.ObserveRetry()
	return d.send(ctx, req)
}
