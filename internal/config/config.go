package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// StoreTimeout bounds every key-value store round-trip so a degraded
	// store cannot stall the request pipeline.
	StoreTimeout time.Duration

	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTExpiryMinutes int

	OTPLifetime    time.Duration
	OTPLength      int
	OTPMaxAttempts int

	LoginRateMax       int
	LoginRateWindow    time.Duration
	OTPRateMax         int
	OTPRateWindow      time.Duration
	RegisterRateMax    int
	RegisterRateWindow time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Roles string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			Roles: getEnv("DYNAMO_TABLE_ROLES", "roles"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		StoreTimeout:  getEnvDuration("STORE_TIMEOUT", 2*time.Second),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "go-auth-core"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "go-auth-core"),
		JWTExpiryMinutes: getEnvInt("JWT_EXPIRY_MINUTES", 60),

		OTPLifetime:    getEnvDuration("OTP_LIFETIME", 5*time.Minute),
		OTPLength:      getEnvInt("OTP_LENGTH", 6),
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),

		LoginRateMax:       getEnvInt("LOGIN_RATE_MAX", 5),
		LoginRateWindow:    getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		OTPRateMax:         getEnvInt("OTP_RATE_MAX", 3),
		OTPRateWindow:      getEnvDuration("OTP_RATE_WINDOW", time.Minute),
		RegisterRateMax:    getEnvInt("REGISTER_RATE_MAX", 5),
		RegisterRateWindow: getEnvDuration("REGISTER_RATE_WINDOW", time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
