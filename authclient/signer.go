package authclient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/storefront-client/sessions"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)

// Signer attaches the current access token to outgoing requests.
type Signer struct {
	store *sessions.Store
}

func NewSigner(store *sessions.Store) *Signer {
	return &Signer{store: store}
}

// Sign reads the store at call time, so a token refreshed a moment ago is used.
// Without an access token the Authorization header is left untouched.
func (s *Signer) Sign(req *Request) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if token := s.store.AccessToken(); token != "" {
		req.Header.Set(HeaderAuthorization, bearer(token))
	}
}

func bearer(token string) string {
	return "Bearer " + token
}
