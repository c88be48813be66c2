package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// TokenSecret signs and verifies member tokens (HS256). The demo
	// server and inboxctl must agree on it.
	TokenSecret string
	// DemoMemberID is the member the embedded fixture feed belongs to.
	DemoMemberID string
	// LogDir, when set, redirects log output to timestamped files
	// under that directory instead of stdout.
	LogDir string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TokenSecret:  getEnv("TOKEN_SECRET", "herald-dev-secret"),
		DemoMemberID: getEnv("DEMO_MEMBER_ID", "member-demo"),
		LogDir:       getEnv("LOG_DIR", ""),
		// Debug defaults to true outside production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
