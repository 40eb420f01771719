package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string
	LogLevel  slog.Level

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
	MaxDBConns   int32

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxRetries   int

	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	ResendAPIKey string
	MailFrom     string
	AppURL       string
	AdminEmail   string

	DirectoryCacheTTL     time.Duration
	PasswordResetTTL      time.Duration
	IdempotencyTTL        time.Duration
	EvidenceURLTTL        time.Duration
	MaxUploadBytes        int64
	LoginFailureThreshold int
	LoginLockoutWindow    time.Duration

	ReviewCommitteeCap int
	ReviewWindowLimit  int
	ReviewWindow       time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxyHeaders keys rate limits on X-Forwarded-For / X-Real-IP. Only
	// enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
		AppURL   string `yaml:"app_url"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
		KafkaTopic   string   `yaml:"kafka_topic"`
		S3Bucket     string   `yaml:"s3_bucket"`
		S3Region     string   `yaml:"s3_region"`
		S3Endpoint   string   `yaml:"s3_endpoint"`
		MailFrom     string   `yaml:"mail_from"`
		AdminEmail   string   `yaml:"admin_email"`
	} `yaml:"dependencies"`
	Moderation struct {
		CommitteeReviewCap int `yaml:"committee_review_cap"`
		ReviewWindowLimit  int `yaml:"review_window_limit"`
		ReviewWindowDays   int `yaml:"review_window_days"`
		MaxUploadMB        int `yaml:"max_upload_mb"`
	} `yaml:"moderation"`
	HTTP struct {
		RateLimitRPS      float64 `yaml:"rate_limit_rps"`
		RateLimitBurst    int     `yaml:"rate_limit_burst"`
		TrustProxyHeaders bool    `yaml:"trust_proxy_headers"`
	} `yaml:"http"`
}

// LoadConfig reads the YAML file at path when it exists, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "campaigngrade-api",
		LogLevel:              slog.LevelInfo,
		HTTPPort:              8080,
		GRPCPort:              9090,
		KafkaTopic:            "campaigngrade.reviews",
		MaxDBConns:            20,
		OutboxPollInterval:    2 * time.Second,
		OutboxBatchSize:       100,
		OutboxMaxRetries:      5,
		JWTIssuer:             "campaigngrade",
		TokenTTL:              24 * time.Hour,
		BcryptCost:            12,
		S3Bucket:              "verification-evidence",
		S3Region:              "us-east-1",
		AppURL:                "https://campaign-grade.com",
		AdminEmail:            "admin@campaign-grade.com",
		DirectoryCacheTTL:     5 * time.Minute,
		PasswordResetTTL:      time.Hour,
		IdempotencyTTL:        7 * 24 * time.Hour,
		EvidenceURLTTL:        5 * time.Minute,
		MaxUploadBytes:        10 << 20,
		LoginFailureThreshold: 5,
		LoginLockoutWindow:    15 * time.Minute,
		ReviewCommitteeCap:    3,
		ReviewWindowLimit:     10,
		ReviewWindow:          30 * 24 * time.Hour,
		RateLimitRPS:          10,
		RateLimitBurst:        30,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		applyFile(&cfg, f)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.LogLevel = parseLevel(envOrDefault("LOG_LEVEL", ""), cfg.LogLevel)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_INTERVAL_MS", int(cfg.OutboxPollInterval.Milliseconds()))) * time.Millisecond
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.TokenTTL = time.Duration(envInt("TOKEN_TTL_MINUTES", int(cfg.TokenTTL.Minutes()))) * time.Minute
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)

	cfg.S3Bucket = envOrDefault("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = envOrDefault("S3_REGION", envOrDefault("AWS_REGION", cfg.S3Region))
	cfg.S3Endpoint = envOrDefault("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKeyID = envOrDefault("S3_ACCESS_KEY_ID", cfg.S3AccessKeyID)
	cfg.S3SecretAccessKey = envOrDefault("S3_SECRET_ACCESS_KEY", cfg.S3SecretAccessKey)

	cfg.ResendAPIKey = envOrDefault("RESEND_API_KEY", cfg.ResendAPIKey)
	cfg.MailFrom = envOrDefault("MAIL_FROM", cfg.MailFrom)
	cfg.AppURL = envOrDefault("APP_URL", cfg.AppURL)
	cfg.AdminEmail = envOrDefault("ADMIN_EMAIL", cfg.AdminEmail)

	cfg.DirectoryCacheTTL = time.Duration(envInt("DIRECTORY_CACHE_TTL_SECONDS", int(cfg.DirectoryCacheTTL.Seconds()))) * time.Second
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.EvidenceURLTTL = time.Duration(envInt("EVIDENCE_URL_TTL_SECONDS", int(cfg.EvidenceURLTTL.Seconds()))) * time.Second
	cfg.LoginFailureThreshold = envInt("LOGIN_FAILURE_THRESHOLD", cfg.LoginFailureThreshold)
	cfg.ReviewCommitteeCap = envInt("REVIEW_COMMITTEE_CAP", cfg.ReviewCommitteeCap)
	cfg.ReviewWindowLimit = envInt("REVIEW_WINDOW_LIMIT", cfg.ReviewWindowLimit)
	cfg.ReviewWindow = time.Duration(envInt("REVIEW_WINDOW_DAYS", int(cfg.ReviewWindow.Hours()/24))) * 24 * time.Hour
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.TrustProxyHeaders = envBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); raw != "" {
		if v, convErr := strconv.ParseFloat(raw, 64); convErr == nil && v > 0 {
			cfg.RateLimitRPS = v
		}
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	return cfg, nil
}

// Validate checks the settings the API and worker need beyond the database.
func (c Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("missing REDIS_URL")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}
	return c.ValidateWorker()
}

// ValidateWorker checks the subset of settings the outbox worker reads.
func (c Config) ValidateWorker() error {
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("outbox poll interval must be positive")
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("outbox batch size must be positive")
	}
	return nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	cfg.LogLevel = parseLevel(f.Service.LogLevel, cfg.LogLevel)
	if f.Service.AppURL != "" {
		cfg.AppURL = f.Service.AppURL
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
	}
	if f.Dependencies.KafkaTopic != "" {
		cfg.KafkaTopic = f.Dependencies.KafkaTopic
	}
	if f.Dependencies.S3Bucket != "" {
		cfg.S3Bucket = f.Dependencies.S3Bucket
	}
	if f.Dependencies.S3Region != "" {
		cfg.S3Region = f.Dependencies.S3Region
	}
	cfg.S3Endpoint = f.Dependencies.S3Endpoint
	if f.Dependencies.MailFrom != "" {
		cfg.MailFrom = f.Dependencies.MailFrom
	}
	if f.Dependencies.AdminEmail != "" {
		cfg.AdminEmail = f.Dependencies.AdminEmail
	}
	if f.Moderation.CommitteeReviewCap > 0 {
		cfg.ReviewCommitteeCap = f.Moderation.CommitteeReviewCap
	}
	if f.Moderation.ReviewWindowLimit > 0 {
		cfg.ReviewWindowLimit = f.Moderation.ReviewWindowLimit
	}
	if f.Moderation.ReviewWindowDays > 0 {
		cfg.ReviewWindow = time.Duration(f.Moderation.ReviewWindowDays) * 24 * time.Hour
	}
	if f.Moderation.MaxUploadMB > 0 {
		cfg.MaxUploadBytes = int64(f.Moderation.MaxUploadMB) << 20
	}
	if f.HTTP.RateLimitRPS > 0 {
		cfg.RateLimitRPS = f.HTTP.RateLimitRPS
	}
	if f.HTTP.RateLimitBurst > 0 {
		cfg.RateLimitBurst = f.HTTP.RateLimitBurst
	}
	cfg.TrustProxyHeaders = f.HTTP.TrustProxyHeaders
}

func parseLevel(raw string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
