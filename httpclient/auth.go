package httpclient

import (
	"encoding/base64"
	"strings"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
)

// AuthConfig describes the credentials attached to a request.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username is the basic auth username (AuthBasic).
	Username string
	// Password is the basic auth password (AuthBasic).
	Password string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// ResolveAuth picks the credentials for a request: a non-empty token wins,
// otherwise basic auth applies only when both username and password are set.
// Returns nil when neither applies.
func ResolveAuth(token, username, password string) *AuthConfig {
	switch {
	case token != "":
		return BearerAuth(token)
	case username != "" && password != "":
		return BasicAuth(username, password)
	default:
		return nil
	}
}

// Header returns the Authorization header value, or "" for AuthNone.
func (a *AuthConfig) Header() string {
	if a == nil {
		return ""
	}
	switch a.Type {
	case AuthBearer:
		return "Bearer " + a.Token
	case AuthBasic:
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(a.Username+":"+a.Password))
	default:
		return ""
	}
}

// Apply sets the Authorization header on headers, replacing any entry whose
// name differs only in case. It is a no-op for a nil config.
func (a *AuthConfig) Apply(headers map[string]string) {
	v := a.Header()
	if v == "" {
		return
	}
	for k := range headers {
		if strings.EqualFold(k, "Authorization") {
			delete(headers, k)
		}
	}
	headers["Authorization"] = v
}
