package transport

import "net/http"

// Authenticator attaches authentication material to an outgoing request.
// The material itself is opaque to the transport.
type Authenticator interface {
	Apply(req *http.Request)
}

// SessionCookie authenticates with an existing JSESSIONID.
type SessionCookie struct {
	ID string
}

// Apply sets the session cookie.
func (s SessionCookie) Apply(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: s.ID})
}

// BearerToken authenticates with an OAuth style bearer token.
type BearerToken struct {
	Token string
}

// Apply sets the Authorization header.
func (b BearerToken) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.Token)
}
