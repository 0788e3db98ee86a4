package env

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files.
//
// ENV_PATH, when set, replaces the default paths. Otherwise every default path
// is preceded by its "<path>.<env>" overlay, so a storefront started with
// ENV=staging reads .env.staging before .env. Files that do not exist are
// skipped. Variables already present in the environment are never overridden,
// which makes earlier files win.
//
// Only the local environment requires at least one file to be found.
func LoadDotEnv(env string, defaultPaths ...string) error {
	var candidates []string
	if p := os.Getenv("ENV_PATH"); p != "" {
		candidates = []string{p}
	} else {
		slog.Info("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths, "env", env)
		for _, p := range defaultPaths {
			if env != "" {
				candidates = append(candidates, p+"."+env)
			}
			candidates = append(candidates, p)
		}
	}

	var loaded []string
	for _, p := range candidates {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Error("Failed to parse environment file", "path", p, "error", err)
			return err
		}
		loaded = append(loaded, p)
	}

	if len(loaded) == 0 {
		if env == "local" || env == "" {
			err := errors.New("no environment file found")
			slog.Error("Failed to load environment variables in local mode", "paths", candidates, "error", err)
			return err
		}
		slog.Debug("Skipping .env ...", "env", env)
		return nil
	}

	slog.Debug("Environment files loaded", "paths", loaded)
	return nil
}
