package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the admin service.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseTimeout time.Duration

	// ResponseFetchLimit caps how many records one refresh pulls.
	ResponseFetchLimit int

	SessionTTL time.Duration

	AuditEnabled    bool
	AuditSQLitePath string

	LogLevel  string
	LogFormat string
}

// FromEnv loads configuration from environment variables with sensible
// defaults. A config file and a secrets file may seed defaults for
// variables not already set in the environment.
func FromEnv() Config {
	loadConfigDefaultsFromFile()
	loadSecretsDefaultsFromFile()

	return Config{
		ListenAddr:         getEnv("APP_LISTEN_ADDR", ":8080"),
		ReadTimeout:        time.Duration(getEnvInt("APP_READ_TIMEOUT_SEC", 10)) * time.Second,
		WriteTimeout:       time.Duration(getEnvInt("APP_WRITE_TIMEOUT_SEC", 20)) * time.Second,
		ShutdownTimeout:    time.Duration(getEnvInt("APP_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		SupabaseURL:        getEnv("APP_SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("APP_SUPABASE_ANON_KEY", ""),
		SupabaseTimeout:    time.Duration(getEnvInt("APP_SUPABASE_TIMEOUT_SEC", 15)) * time.Second,
		ResponseFetchLimit: getEnvInt("APP_RESPONSE_FETCH_LIMIT", 500),
		SessionTTL:         time.Duration(getEnvInt("APP_SESSION_TTL_MIN", 480)) * time.Minute,
		AuditEnabled:       getEnvBool("APP_AUDIT_ENABLED", false),
		AuditSQLitePath:    getEnv("APP_AUDIT_SQLITE_PATH", ""),
		LogLevel:           getEnv("APP_LOG_LEVEL", "info"),
		LogFormat:          getEnv("APP_LOG_FORMAT", "json"),
	}
}

// godotenv.Load never overrides variables already present in the
// environment, so explicit env wins over file defaults.
func loadConfigDefaultsFromFile() {
	bootstrapCandidates := []string{
		"./cobit-admin.env",
		"/etc/default/cobit-admin",
	}
	for _, candidate := range bootstrapCandidates {
		_ = godotenv.Load(absPath(candidate))
	}

	candidates := make([]string, 0, 2)
	if explicit := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "/etc/cobit-admin/config.env")

	for _, candidate := range candidates {
		if godotenv.Load(absPath(candidate)) == nil {
			return
		}
	}
}

func loadSecretsDefaultsFromFile() {
	candidates := make([]string, 0, 3)
	if explicit := strings.TrimSpace(os.Getenv("APP_SECRETS_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	if credDir := strings.TrimSpace(os.Getenv("CREDENTIALS_DIRECTORY")); credDir != "" {
		credName := strings.TrimSpace(os.Getenv("APP_SECRETS_CREDENTIAL_NAME"))
		if credName == "" {
			credName = "app-secrets"
		}
		candidates = append(candidates, filepath.Join(credDir, credName))
	}
	candidates = append(candidates, "/etc/cobit-admin/secrets.env")
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if godotenv.Load(candidate) == nil {
			return
		}
	}
}

func absPath(candidate string) string {
	if filepath.IsAbs(candidate) {
		return candidate
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, candidate)
	}
	return candidate
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}
