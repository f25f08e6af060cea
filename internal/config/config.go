package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const apiKeyEnv = "DEEPSEEK_API_KEY"

// ErrMissingAPIKey is returned when the required API key is absent from the
// environment and any .env file.
var ErrMissingAPIKey = errors.New(apiKeyEnv + " environment variable not set")

var (
	Dev     bool
	LogPath string
)

// APIKey loads .env if present and returns the DeepSeek API key.
func APIKey() (string, error) {
	_ = godotenv.Load()

	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
