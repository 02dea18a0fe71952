//go:build dev

package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv reads ENV_FILE (default .env) into the process environment.
// Variables already set take precedence.
func loadDotEnv() error {
	path := ".env"
	if raw := strings.TrimSpace(os.Getenv("ENV_FILE")); raw != "" {
		path = raw
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
