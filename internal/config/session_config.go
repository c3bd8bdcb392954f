package config

import "time"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type SessionConfig interface {
	GetSessionStore() string
	GetRedisURL() string
	GetSessionSecret() string
	GetMaxSessionAge() time.Duration
	GetSessionExpiredRedirectDelay() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetSessionStore is either "memory" or "redis"
func (Session) GetSessionStore() string {
	return GetEnv("SESSION_STORE", SessionStoreMemory)
}

func (Session) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

// GetSessionSecret, when set, encrypts persisted bearer tokens at rest.
func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", "")
}

func (Session) GetMaxSessionAge() time.Duration {
	return GetEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour)
}

func (Session) GetSessionExpiredRedirectDelay() time.Duration {
	return GetEnvDuration("SESSION_EXPIRED_REDIRECT_DELAY", 3*time.Second)
}
