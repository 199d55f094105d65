package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the agenda service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	SessionFile   string
	SessionSecret string
	SessionTTL    time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// the rest and reporting localized error messages for bad entries. The
// session secret is optional; when absent the server generates a random one
// at startup.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		SQLiteDSN:   "file:agenda.db?_pragma=foreign_keys(1)",
		SessionFile: "agenda-session.json",
		SessionTTL:  24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("AGENDA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "AGENDA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("AGENDA_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if path := strings.TrimSpace(os.Getenv("AGENDA_SESSION_FILE")); path != "" {
		cfg.SessionFile = path
	}

	cfg.SessionSecret = strings.TrimSpace(os.Getenv("AGENDA_SESSION_SECRET"))

	if ttlValue := strings.TrimSpace(os.Getenv("AGENDA_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "AGENDA_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valor inválido: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
