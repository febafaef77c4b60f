package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/storefront-client/authmodel"
)

var (
	// ErrNoSession is returned when a refresh is needed but there is no session or refresh token.
	ErrNoSession = errors.New("no session")

	// ErrRefreshFailed wraps every refresh failure. The underlying cause stays reachable with errors.Is / errors.As.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrAlreadyRetried guards against a second resubmission of the same request.
	ErrAlreadyRetried = errors.New("request already retried")

	// ErrInvalidCredentials is returned by Login when the server answers 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// HTTPError is a final response with a status code >= 400.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// IsStatus reports whether err carries an *HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == code
}

// newHTTPError uses the server's {"message": ...} body when present, the status text otherwise.
func newHTTPError(method, url string, statusCode int, body []byte) *HTTPError {
	message := http.StatusText(statusCode)
	var errResp authmodel.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && strings.TrimSpace(errResp.Message) != "" {
		message = errResp.Message
	}
	return &HTTPError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Message:    message,
		Body:       body,
	}
}

func refreshFailed(err error) error {
	if errors.Is(err, ErrRefreshFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
}
