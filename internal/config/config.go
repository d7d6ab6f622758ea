package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetCredentialsFile() string
	GetHTTPTimeout() time.Duration
	GetCheckInterval() time.Duration
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

// New loads a local .env file when one exists and returns the env-backed
// configuration.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
