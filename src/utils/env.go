package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

func envFilename(goEnv string) string {
	switch goEnv {
	case "", "development":
		return DEV_ENV_FILENAME
	case "production":
		return PROD_ENV_FILENAME
	default:
		return fmt.Sprintf(".env.%s", goEnv)
	}
}

// InitEnvironmentVariables loads the .env file of goEnv from dir. Variables already set in
// the process environment take precedence.
func InitEnvironmentVariables(dir, goEnv string) error {
	envFile := filepath.Join(dir, envFilename(goEnv))

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %w", envFile, err)
	}

	log.Debugf("loaded environment from %s", envFile)
	return nil
}

func GetEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s environment variable not set", key)
	}

	return value, nil
}
