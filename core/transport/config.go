package transport

import "fmt"

// Config holds configuration for the remote policy API.
type Config struct {
	// BaseURL is the API root, e.g. https://zsapi.zscaler.net/api/v1.
	// When empty it is derived from Cloud.
	BaseURL string `mapstructure:"base_url" default:""`
	// Cloud is the vendor cloud name used to derive BaseURL.
	Cloud string `mapstructure:"cloud" default:"zscaler" validate:"required"`
	// SessionID is the JSESSIONID of an authenticated session.
	SessionID string `mapstructure:"session_id" default:""`
	// APIToken is a bearer token, used when SessionID is empty.
	APIToken string `mapstructure:"api_token" default:""`
	// TimeoutSeconds bounds a single attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60" validate:"min=1,max=600"`
	// MaxAttempts is the number of attempts for one call, the first included.
	MaxAttempts int `mapstructure:"max_attempts" default:"3" validate:"min=1,max=10"`
	// BackoffBase is the exponential backoff base in seconds: base^attempt.
	BackoffBase float64 `mapstructure:"backoff_base" default:"2" validate:"gte=1,lte=10"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"url-policy-sync/1.0"`
}

// Endpoint returns BaseURL, or the vendor URL derived from Cloud.
func (c Config) Endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return fmt.Sprintf("https://zsapi.%s.net/api/v1", c.Cloud)
}

// Authenticator returns the authenticator configured by SessionID or APIToken.
// It returns nil when neither is set.
func (c Config) Authenticator() Authenticator {
	switch {
	case c.SessionID != "":
		return SessionCookie{ID: c.SessionID}
	case c.APIToken != "":
		return BearerToken{Token: c.APIToken}
	default:
		return nil
	}
}
