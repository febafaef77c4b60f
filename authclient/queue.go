package authclient

import (
	"context"
	"sync"
)

type pendingResult struct {
	token string
	err   error
}

// PendingRequest is a request parked until the in-flight refresh completes.
// It settles exactly once; later Resolve or Reject calls are ignored.
type PendingRequest struct {
	once   sync.Once
	result chan pendingResult
}

func newPendingRequest() *PendingRequest {
	return &PendingRequest{result: make(chan pendingResult, 1)}
}

func (p *PendingRequest) Resolve(token string) {
	p.once.Do(func() { p.result <- pendingResult{token: token} })
}

func (p *PendingRequest) Reject(err error) {
	p.once.Do(func() { p.result <- pendingResult{err: err} })
}

// Wait blocks until the request settles or ctx is done.
func (p *PendingRequest) Wait(ctx context.Context) (string, error) {
	select {
	case r := <-p.result:
		return r.token, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// PendingQueue holds PendingRequests in arrival order. It does no locking of its own.
type PendingQueue struct {
	items []*PendingRequest
}

// Enqueue appends a new PendingRequest and returns it.
func (q *PendingQueue) Enqueue() *PendingRequest {
	p := newPendingRequest()
	q.items = append(q.items, p)
	return p
}

// Resolve settles every queued request with token, in FIFO order, and empties the queue.
func (q *PendingQueue) Resolve(token string) int {
	items := q.drain()
	for _, p := range items {
		p.Resolve(token)
	}
	return len(items)
}

// Reject settles every queued request with err, in FIFO order, and empties the queue.
func (q *PendingQueue) Reject(err error) int {
	items := q.drain()
	for _, p := range items {
		p.Reject(err)
	}
	return len(items)
}

func (q *PendingQueue) Len() int {
	return len(q.items)
}

func (q *PendingQueue) drain() []*PendingRequest {
	items := q.items
	q.items = nil
	return items
}
