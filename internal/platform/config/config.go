package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server    Server
	Auth      Auth
	Postgres  Postgres
	Redis     RedisConfig
	Kafka     Kafka
	Messaging Messaging
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Auth configures bearer token validation.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Postgres selects durable storage. An empty DSN runs the in-memory stores.
type Postgres struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
}

// RedisConfig configures the message rate limiter. An empty URL disables limiting.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit outbox relay. No brokers disables the relay.
type Kafka struct {
	Brokers        []string
	AuditTopic     string
	RelayInterval  time.Duration
	RelayBatchSize int
}

// Messaging bounds how fast a sender can post messages.
type Messaging struct {
	RateLimit  int
	RateWindow time.Duration
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            envString("TALENTLINK_ADDR", ":8080"),
			LogLevel:        envString("LOG_LEVEL", "info"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: Auth{
			// Development default; override in every deployed environment.
			JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envString("JWT_ISSUER", "talentlink"),
			JWTAudience:   envString("JWT_AUDIENCE", "talentlink-api"),
		},
		Postgres: Postgres{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxIdle:  envDuration("DATABASE_CONN_MAX_IDLE", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 500*time.Millisecond),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 500*time.Millisecond),
		},
		Kafka: Kafka{
			Brokers:        envList("KAFKA_BROKERS"),
			AuditTopic:     envString("KAFKA_AUDIT_TOPIC", "talentlink.audit"),
			RelayInterval:  envDuration("OUTBOX_RELAY_INTERVAL", time.Second),
			RelayBatchSize: envInt("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		Messaging: Messaging{
			RateLimit:  envInt("MESSAGE_RATE_LIMIT", 30),
			RateWindow: envDuration("MESSAGE_RATE_WINDOW", time.Minute),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
