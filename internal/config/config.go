package config

import (
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	PredictorURL     string
	PredictorTimeout time.Duration

	DBDriver string // memory|sqlite|postgres
	DBDSN    string

	ModelVersion string // overrides the engine default when set

	LogLevel  string
	LogFormat string // json|console

	CORSAllowedOrigins []string

	ExportDir string // optional CSV archive directory, empty disables
}

// FromEnv builds the config from the environment. MODE defaults to local and
// flips to remote when PREDICTOR_URL is set without an explicit MODE.
func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	predictorURL := os.Getenv("PREDICTOR_URL")
	if mode == "" {
		mode = ModeLocal
		if predictorURL != "" {
			mode = ModeRemote
		}
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		PredictorURL:       predictorURL,
		PredictorTimeout:   envDuration("PREDICTOR_TIMEOUT", 8*time.Second),
		DBDriver:           envOr("DB_DRIVER", "memory"),
		DBDSN:              envOr("DATABASE_URL", ""),
		ModelVersion:       os.Getenv("MODEL_VERSION"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "json"),
		CORSAllowedOrigins: csvOr("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		ExportDir:          os.Getenv("EXPORT_DIR"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
