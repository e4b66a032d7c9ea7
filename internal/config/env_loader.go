package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadEnvFiles loads KEY=VALUE pairs from .env files in the base
// directory. Later files win; variables already present in the
// process environment are never overwritten. Missing files are not an
// error.
func LoadEnvFiles(baseDir string) error {
	loaded := make(map[string]string)

	for _, filename := range []string{".env", ".env.local"} {
		path := filepath.Join(baseDir, filename)
		if err := parseEnvFile(path, loaded); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", filename, err)
		}
	}

	for key, value := range loaded {
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setting %s: %w", key, err)
			}
		}
	}
	return nil
}

func parseEnvFile(path string, into map[string]string) error {
	file, err := os.Open(path) // #nosec G304 -- path is rooted at the caller's base dir
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		into[key] = os.ExpandEnv(value)
	}
	return scanner.Err()
}
