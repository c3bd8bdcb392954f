package config

import "time"

// APIConfig describes how the portal reaches the remote property API
type APIConfig interface {
	GetAPIBaseURL() string
	GetTokenJWKSURL() string
	GetTokenIssuer() string
	GetPaymentPollAttempts() int
	GetPaymentPollInterval() time.Duration
}

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:5000")
}

// GetTokenJWKSURL is optional. When empty, freshly issued tokens are not signature checked.
func (API) GetTokenJWKSURL() string {
	return GetEnv("TOKEN_JWKS_URL", "")
}

func (API) GetTokenIssuer() string {
	return GetEnv("TOKEN_ISSUER", "")
}

func (API) GetPaymentPollAttempts() int {
	return GetEnvInt("PAYMENT_POLL_ATTEMPTS", 5)
}

func (API) GetPaymentPollInterval() time.Duration {
	return GetEnvDuration("PAYMENT_POLL_INTERVAL", 2*time.Second)
}
