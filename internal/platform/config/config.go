// Package config builds the service configuration from the environment.
// FromEnv runs once in main; the resulting Config is passed to constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    Server
	Log       Log
	Auth      Auth
	Postgres  Postgres
	Catalog   CatalogDB
	Calendar  CatalogDB
	Redis     RedisConfig
	Kafka     Kafka
	OCR       OCR
	Storage   Storage
	Ticketing Ticketing
	Email     Email
	Jobs      Jobs
	Timeouts  Timeouts
	RateLimit RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	AdminToken      string
}

type Log struct {
	Level  string
	Format string
}

// Auth configures service-to-service JWT validation on /v1.
type Auth struct {
	Required   bool
	SigningKey string
	Issuer     string
	Audience   string
}

// Postgres is the record store. An empty URL selects the in-memory stores.
type Postgres struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// CatalogDB is a read-only academic catalog connection (program catalog or
// academic calendar). An empty URL disables the lookups it serves.
type CatalogDB struct {
	URL      string
	MaxConns int32
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CatalogTTL bounds how long resolved catalog lookups are cached.
	CatalogTTL time.Duration
	// IntakeLockTTL bounds how long a crashed intake can hold its lock.
	IntakeLockTTL time.Duration
}

// Kafka configures the audit sink. No brokers means in-memory audit.
type Kafka struct {
	Brokers    []string
	AuditTopic string
	ClientID   string
	// AuditGroup is the consumer group that materializes the audit topic
	// into Postgres.
	AuditGroup string
}

type OCR struct {
	Endpoint      string
	Email         string
	EncryptKey    string
	EncryptVector string
}

// Storage selects the blob backend: "oss" or "local".
type Storage struct {
	Backend         string
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	PublicBaseURL   string
	LocalDir        string
}

type Ticketing struct {
	BaseURL    string
	Username   string
	Password   string
	WebhookURL string
	WebhookKey string
	TokenTTL   time.Duration
}

type Email struct {
	APIURL   string
	APIKey   string
	FromAddr string
	FromName string
}

type Jobs struct {
	StatusSnapshotSpec string
}

// RateLimit bounds write requests per client IP on /v1. Zero disables it.
type RateLimit struct {
	Writes int
	Window time.Duration
}

// Timeouts bound every collaborator call.
type Timeouts struct {
	OCR       time.Duration
	Storage   time.Duration
	Catalog   time.Duration
	Ticketing time.Duration
	Email     time.Duration
}

// FromEnv loads an optional .env file and reads the environment so main stays lean.
// Explicit environment variables win over .env values.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: Server{
			Addr:            getEnv("HOMOLOGATION_ADDR", ":8080"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
		},
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: Auth{
			Required:   getBool("AUTH_REQUIRED", false),
			SigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "homologations"),
			Audience:   getEnv("JWT_AUDIENCE", "homologations-api"),
		},
		Postgres: Postgres{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Catalog: CatalogDB{
			URL:      os.Getenv("PROGRAM_CATALOG_URL"),
			MaxConns: int32(getInt("PROGRAM_CATALOG_MAX_CONNS", 5)),
		},
		Calendar: CatalogDB{
			URL:      os.Getenv("ACADEMIC_CALENDAR_URL"),
			MaxConns: int32(getInt("ACADEMIC_CALENDAR_MAX_CONNS", 5)),
		},
		Redis: RedisConfig{
			URL:           os.Getenv("REDIS_URL"),
			PoolSize:      getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:  getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:   getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:  getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CatalogTTL:    getDuration("CATALOG_CACHE_TTL", 10*time.Minute),
			IntakeLockTTL: getDuration("INTAKE_LOCK_TTL", 2*time.Minute),
		},
		Kafka: Kafka{
			Brokers:    getList("KAFKA_BROKERS"),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "homologation.audit"),
			ClientID:   getEnv("KAFKA_CLIENT_ID", "homologation-service"),
			AuditGroup: getEnv("KAFKA_AUDIT_GROUP", "homologation-audit-materializer"),
		},
		OCR: OCR{
			Endpoint:      os.Getenv("OCR_ENDPOINT"),
			Email:         os.Getenv("OCR_EMAIL"),
			EncryptKey:    os.Getenv("SECURA_ENCRYPT_KEY"),
			EncryptVector: os.Getenv("SECURA_ENCRYPT_VECTOR"),
		},
		Storage: Storage{
			Backend:         getEnv("STORAGE_BACKEND", "local"),
			Endpoint:        os.Getenv("OSS_ENDPOINT"),
			Bucket:          os.Getenv("OSS_BUCKET"),
			AccessKeyID:     os.Getenv("OSS_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("OSS_ACCESS_KEY_SECRET"),
			PublicBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "./data/uploads"),
		},
		Ticketing: Ticketing{
			BaseURL:    getEnv("ZOHO_API_URL", "https://zoho.cunapp.pro/api"),
			Username:   os.Getenv("ZOHO_USERNAME"),
			Password:   os.Getenv("ZOHO_PASSWORD"),
			WebhookURL: getEnv("ZOHO_WEBHOOK_URL", "https://flow.zoho.com/707796366/flow/webhook/incoming"),
			WebhookKey: os.Getenv("ZOHO_WEBHOOK_KEY"),
			TokenTTL:   getDuration("ZOHO_TOKEN_TTL", 2*time.Hour),
		},
		Email: Email{
			APIURL:   getEnv("ZEPTOMAIL_API_URL", "https://api.zeptomail.com/v1.1/email"),
			APIKey:   os.Getenv("ZEPTOMAIL_API_KEY"),
			FromAddr: getEnv("ZEPTOMAIL_FROM_EMAIL", "noreply@homologaciones.edu.co"),
			FromName: getEnv("ZEPTOMAIL_FROM_NAME", "Sistema de Homologaciones"),
		},
		Jobs: Jobs{
			StatusSnapshotSpec: getEnv("STATUS_SNAPSHOT_CRON", "@every 5m"),
		},
		Timeouts: Timeouts{
			OCR:       getDuration("OCR_TIMEOUT", 30*time.Second),
			Storage:   getDuration("STORAGE_TIMEOUT", 20*time.Second),
			Catalog:   getDuration("CATALOG_TIMEOUT", 5*time.Second),
			Ticketing: getDuration("TICKETING_TIMEOUT", 15*time.Second),
			Email:     getDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimit{
			Writes: getInt("RATE_LIMIT_WRITES", 30),
			Window: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if cfg.Auth.Required && len(cfg.Auth.SigningKey) < 16 {
		return nil, fmt.Errorf("JWT_SIGNING_KEY must be at least 16 bytes when AUTH_REQUIRED=true")
	}
	switch cfg.Storage.Backend {
	case "local", "oss":
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.Storage.Backend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
