package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	apiBaseURLVar      = "API_BASE_URL"
	credentialsFileVar = "CREDENTIALS_FILE"
	refreshWindowVar   = "REFRESH_WINDOW_SECONDS"
	httpTimeoutVar     = "HTTP_TIMEOUT_SECONDS"
)

type Client struct{}

var _ ClientConfig = Client{}

// GetAPIBaseURL returns the base URL of the remote auth API
// (e.g. "https://auth.example.com"). Endpoint paths are appended to it.
func (Client) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8080")
}

// GetCredentialsFile returns the path of the file holding the persisted
// token pair. Defaults to a dotfile in the user's home directory.
func (Client) GetCredentialsFile() string {
	if file := os.Getenv(credentialsFileVar); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".auth-credentials.json"
	}
	return filepath.Join(home, ".auth-credentials.json")
}

// GetRefreshWindow returns how close to expiry an access token may get
// before outgoing requests refresh it first.
func (Client) GetRefreshWindow() time.Duration {
	return getSeconds(refreshWindowVar, 60*time.Second)
}

func (Client) GetHTTPTimeout() time.Duration {
	return getSeconds(httpTimeoutVar, 30*time.Second)
}

func getSeconds(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
