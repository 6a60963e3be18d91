package config

import (
	"os"

	"github.com/joho/godotenv"
)

// ServerEnv carries the environment-sourced settings of the API server.
// Values come from the process environment, optionally seeded from a .env
// file so local development matches the deployed layout.
type ServerEnv struct {
	Listen         string // HTTP listen address
	DBPath         string // SQLite database file
	ModelServerURL string // empty selects the local heuristic scorer
	ScalerPath     string // fitted scaler JSON; empty skips normalization
}

// LoadServerEnv reads .env (when present) and the environment. Missing
// variables fall back to development defaults.
func LoadServerEnv() ServerEnv {
	// A missing .env file is not an error; deployments set real env vars.
	_ = godotenv.Load()

	return ServerEnv{
		Listen:         envOr("UBI_LISTEN", ":8080"),
		DBPath:         envOr("UBI_DB_PATH", "ubi_data.db"),
		ModelServerURL: os.Getenv("UBI_MODEL_SERVER_URL"),
		ScalerPath:     os.Getenv("UBI_SCALER_PATH"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
