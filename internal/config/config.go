package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI       string `json:"mongo_uri"`
	MongoDatabase  string `json:"mongo_database"`
	UserCollection string `json:"mongo_user_collection"`

	// Redis configuration
	RedisEnabled  bool   `json:"redis_enabled"`
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// OTP configuration
	OTPTTL            time.Duration `json:"otp_ttl"`
	OTPIssuanceWindow time.Duration `json:"otp_issuance_window"`
	OTPIssuanceMax    int64         `json:"otp_issuance_max"`
	OTPAttemptWindow  time.Duration `json:"otp_attempt_window"`
	OTPAttemptMax     int64         `json:"otp_attempt_max"`

	// Token configuration
	JWTSecret         string        `json:"-"`
	AccessTokenExpiry time.Duration `json:"access_token_expiry"`
	BlacklistTTL      time.Duration `json:"blacklist_ttl"`

	// Google sign-in configuration
	GoogleClientID string `json:"google_client_id"`

	// SMS gateway configuration
	SMSEnabled      bool   `json:"sms_enabled"`
	SMSGatewayURL   string `json:"sms_gateway_url"`
	SMSGatewayToken string `json:"-"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	otpTTL, err := time.ParseDuration(getEnvOrDefault("OTP_TTL", "5m"))
	if err != nil {
		return fmt.Errorf("invalid OTP_TTL: %w", err)
	}

	issuanceWindow, err := time.ParseDuration(getEnvOrDefault("OTP_ISSUANCE_WINDOW", "1h"))
	if err != nil {
		return fmt.Errorf("invalid OTP_ISSUANCE_WINDOW: %w", err)
	}

	issuanceMax, err := strconv.ParseInt(getEnvOrDefault("OTP_ISSUANCE_MAX", "3"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid OTP_ISSUANCE_MAX: %w", err)
	}

	attemptWindow, err := time.ParseDuration(getEnvOrDefault("OTP_ATTEMPT_WINDOW", "5m"))
	if err != nil {
		return fmt.Errorf("invalid OTP_ATTEMPT_WINDOW: %w", err)
	}

	attemptMax, err := strconv.ParseInt(getEnvOrDefault("OTP_ATTEMPT_MAX", "3"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid OTP_ATTEMPT_MAX: %w", err)
	}

	tokenExpiryMinutes, err := strconv.Atoi(getEnvOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", "1440"))
	if err != nil {
		return fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}

	blacklistTTL, err := time.ParseDuration(getEnvOrDefault("TOKEN_BLACKLIST_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_BLACKLIST_TTL: %w", err)
	}

	// Signing key is required; there is no safe default
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:       getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnvOrDefault("MONGODB_DATABASE", "edtech_auth"),
		UserCollection: getEnvOrDefault("MONGODB_USER_COLLECTION", "users"),

		// Redis configuration
		RedisEnabled:  getEnvOrDefault("REDIS_ENABLED", "true") == "true",
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// OTP configuration
		OTPTTL:            otpTTL,
		OTPIssuanceWindow: issuanceWindow,
		OTPIssuanceMax:    issuanceMax,
		OTPAttemptWindow:  attemptWindow,
		OTPAttemptMax:     attemptMax,

		// Token configuration
		JWTSecret:         jwtSecret,
		AccessTokenExpiry: time.Duration(tokenExpiryMinutes) * time.Minute,
		BlacklistTTL:      blacklistTTL,

		// Google sign-in configuration
		GoogleClientID: getEnvOrDefault("GOOGLE_CLIENT_ID", ""),

		// SMS gateway configuration
		SMSEnabled:      getEnvOrDefault("SMS_ENABLED", "false") == "true",
		SMSGatewayURL:   getEnvOrDefault("SMS_GATEWAY_URL", ""),
		SMSGatewayToken: getEnvOrDefault("SMS_GATEWAY_TOKEN", ""),

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
