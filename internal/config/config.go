package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FailureMode selects what the gate does when the classifier is unreachable
// or returns garbage. This is a security-relevant policy decision, so it is
// an explicit configuration value and never an implicit code path.
type FailureMode string

const (
	// FailOpen lets the login attempt proceed unscored.
	FailOpen FailureMode = "open"
	// FailClosed denies the login attempt outright.
	FailClosed FailureMode = "closed"
)

// IsValid reports whether the mode is a recognized policy.
func (m FailureMode) IsValid() bool {
	return m == FailOpen || m == FailClosed
}

// Config holds all application configuration.
type Config struct {
	Addr            string
	DBPath          string
	OracleURL       string
	OracleTimeout   time.Duration
	FailureMode     FailureMode
	AuditPath       string
	SessionTTL      time.Duration
	DefaultAdmin    string
	DefaultPassword string
	Debug           bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("AUTHGATE_ADDR", ":8080")
	cfg.DBPath = getEnv("AUTHGATE_DB", getDefaultDBPath())
	cfg.OracleURL = getEnv("AUTHGATE_ORACLE", "http://127.0.0.1:5002/predict")
	oracleTimeout := getEnvInt("AUTHGATE_ORACLE_TIMEOUT", 5)
	failMode := getEnv("AUTHGATE_FAIL_MODE", string(FailOpen))
	cfg.AuditPath = getEnv("AUTHGATE_AUDIT_LOG", "login_features_log.csv")
	cfg.DefaultAdmin = getEnv("AUTHGATE_ADMIN_EMAIL", "admin@localhost")
	cfg.DefaultPassword = getEnv("AUTHGATE_ADMIN_PASSWORD", "changeit")

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.StringVar(&cfg.OracleURL, "oracle", cfg.OracleURL, "Scoring endpoint of the threat classifier")
	flag.IntVar(&oracleTimeout, "oracle-timeout", oracleTimeout, "Classifier call timeout in seconds")
	flag.StringVar(&failMode, "fail-mode", failMode, "Gate behavior when the classifier fails: open or closed")
	flag.StringVar(&cfg.AuditPath, "audit-log", cfg.AuditPath, "Path to the feature audit CSV")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	cfg.OracleTimeout = time.Duration(oracleTimeout) * time.Second
	cfg.SessionTTL = 24 * time.Hour

	cfg.FailureMode = FailureMode(failMode)
	if !cfg.FailureMode.IsValid() {
		log.Printf("Warning: unknown fail-mode %q, falling back to open", failMode)
		cfg.FailureMode = FailOpen
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "authgate.db"
	}

	gateDir := filepath.Join(home, ".authgate")
	if err := os.MkdirAll(gateDir, 0755); err != nil {
		log.Printf("Warning: Could not create .authgate directory, using current dir: %v", err)
		return "authgate.db"
	}

	return filepath.Join(gateDir, "authgate.db")
}
