package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment. Core
// packages receive the slices of this struct they care about through their
// constructors and never read the process environment themselves.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// BaseURL is the frontend base used when building confirmation and
	// password-reset links embedded in emails.
	BaseURL string

	JWTSecret   string
	TokenSecret string

	BarcodeAPIURL string
	BarcodeAPIKey string

	RecaptchaSecret string

	PostmarkToken string
	FromEmail     string
	ContactEmail  string

	SignupEnabled bool
}

// Load reads configuration from PRICECHECK_* environment variables. A .env
// file in the working directory is applied first if present.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:            getenv("PRICECHECK_PORT", "8080"),
		DBPath:          getenv("PRICECHECK_DB_PATH", "pricecheck.db"),
		LogLevel:        getenv("PRICECHECK_LOG_LEVEL", "info"),
		BaseURL:         getenv("PRICECHECK_BASE_URL", "http://localhost:8080"),
		JWTSecret:       os.Getenv("PRICECHECK_JWT_SECRET"),
		TokenSecret:     os.Getenv("PRICECHECK_TOKEN_SECRET"),
		BarcodeAPIURL:   getenv("PRICECHECK_BARCODE_API_URL", "https://api.barcodelookup.com/v3/products"),
		BarcodeAPIKey:   os.Getenv("PRICECHECK_BARCODE_API_KEY"),
		RecaptchaSecret: os.Getenv("PRICECHECK_RECAPTCHA_SECRET"),
		PostmarkToken:   os.Getenv("PRICECHECK_POSTMARK_TOKEN"),
		FromEmail:       getenv("PRICECHECK_FROM_EMAIL", "noreply@pricecheck.app"),
		ContactEmail:    os.Getenv("PRICECHECK_CONTACT_EMAIL"),
		SignupEnabled:   getenv("PRICECHECK_SIGNUP_ENABLED", "true") != "false",
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
