package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFileVar names an alternative dotenv file.
const envFileVar = "IMPERILATOR_ENV_FILE"

// loadDotEnv loads environment variables from .env, or from the file named
// by IMPERILATOR_ENV_FILE, when present. Existing process environment
// variables are not overridden.
func loadDotEnv() error {
	path := ".env"
	explicit := false
	if p := os.Getenv(envFileVar); p != "" {
		path, explicit = p, true
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
