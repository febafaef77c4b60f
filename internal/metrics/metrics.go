package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Client collects authenticated API client metrics. A nil *Client is a no-op.
type Client struct {
	Requests  *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
	Queued    prometheus.Counter
	Retries   prometheus.Counter
}

// NewClient creates the client collectors and registers them when reg is not nil.
func NewClient(reg prometheus.Registerer) *Client {
	m := &Client{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "requests_total", Help: "Requests sent by status code."},
			[]string{"code"},
		),
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "token_refreshes_total", Help: "Token refresh calls by outcome."},
			[]string{"outcome"},
		),
		Queued: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "refresh_waiters_total", Help: "Requests parked while a refresh was in flight."},
		),
		Retries: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "client", Name: "retries_total", Help: "Requests resubmitted after a refresh."},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Refreshes, m.Queued, m.Retries)
	}
	return m
}

func (m *Client) ObserveRequest(code int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Client) ObserveRefresh(err error) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome(err)).Inc()
}

func (m *Client) ObserveQueued() {
	if m == nil {
		return
	}
	m.Queued.Inc()
}

func (m *Client) ObserveRetry() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}

// Server collects reference storefront server metrics. A nil *Server is a no-op.
type Server struct {
	Requests  *prometheus.CounterVec
	Logins    *prometheus.CounterVec
	Rotations *prometheus.CounterVec
}

func NewServer(reg prometheus.Registerer) *Server {
	m := &Server{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "server", Name: "http_requests_total", Help: "HTTP requests by method, route and status code."},
			[]string{"method", "route", "code"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "server", Name: "logins_total", Help: "Login attempts by outcome."},
			[]string{"outcome"},
		),
		Rotations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Subsystem: "server", Name: "refresh_rotations_total", Help: "Refresh token rotations by outcome."},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Logins, m.Rotations)
	}
	return m
}

func (m *Server) ObserveRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

func (m *Server) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome(err)).Inc()
}

func (m *Server) ObserveRotation(err error) {
	if m == nil {
		return
	}
	m.Rotations.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
