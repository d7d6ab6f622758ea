package config

import (
	"os"
	"strings"
	"time"
)

const (
	appNameVar         = "CONSULTA_APP_NAME"
	apiURLVar          = "CONSULTA_API_URL"
	credentialsFileVar = "CONSULTA_CREDENTIALS_FILE"
	httpTimeoutVar     = "CONSULTA_HTTP_TIMEOUT"
	checkIntervalVar   = "CONSULTA_CHECK_INTERVAL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "consulta")
}

// GetAPIBaseURL returns the backend base URL including the API prefix
// (e.g. "https://consultas.example.pe/api").
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8000/api"), "/")
}

// GetCredentialsFile returns the credential store path. Empty means the
// store's default under the user's home directory.
func (EnvVars) GetCredentialsFile() string {
	return GetEnv(credentialsFileVar, "")
}

func (EnvVars) GetHTTPTimeout() time.Duration {
	return getDuration(httpTimeoutVar, 120*time.Second)
}

func (EnvVars) GetCheckInterval() time.Duration {
	return getDuration(checkIntervalVar, 5*time.Minute)
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
