package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretsDir is where Docker mounts secrets.
var SecretsDir = "/run/secrets"

// ErrSecretNotFound is returned when neither the secret file nor the
// fallback environment variable holds a value.
var ErrSecretNotFound = errors.New("secret not found")

// ReadSecret reads /run/secrets/<name>, trimming whitespace. An empty file is an error.
func ReadSecret(name string) (string, error) {
	filePath := filepath.Join(SecretsDir, name)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}

// ReadSecretOrEnv prefers the secret file and falls back to envVar, which is
// what local runs without Docker secrets use.
func ReadSecretOrEnv(name, envVar string) (string, error) {
	if secret, err := ReadSecret(name); err == nil {
		return secret, nil
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s (file %s or env %s)", ErrSecretNotFound, name, filepath.Join(SecretsDir, name), envVar)
}
