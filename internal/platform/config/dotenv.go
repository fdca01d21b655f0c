package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDotEnvFile is the file loaded by service commands when present.
const DefaultDotEnvFile = ".env"

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables already set in the environment are left untouched.
// Missing files are skipped so a bare deployment needs no .env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnvFile}
	}
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
