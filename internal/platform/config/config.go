package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "coverline/pkg/platform/strings"
)

// Server captures process-level configuration. FromEnv keeps main lean; the
// engines receive only the slices they need.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Admin is the administrator identity seeded into the role registry.
	Admin string

	// PostgresURL enables the postgres stores when set; the in-memory stores
	// back the process otherwise.
	PostgresURL string

	Redis RedisConfig

	// KafkaBrokers enables the Kafka event sink when non-empty.
	KafkaBrokers []string
	KafkaTopic   string

	// RedisStream names the stream the redis event sink appends to.
	RedisStream string

	// InitialLiquidity seeds the in-process risk pool ledger (minor units).
	InitialLiquidity int64

	Policy PolicyBounds
}

// PolicyBounds carries the issuance validation bounds.
type PolicyBounds struct {
	RiskPool        string
	MinCoverage     int64
	MaxCoverage     int64
	MinPremium      int64
	MaxPremium      int64
	MinDurationDays uint32
	MaxDurationDays uint32
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("COVERLINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	admin := os.Getenv("COVERLINE_ADMIN")
	if admin == "" {
		admin = "admin"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = platformstrings.DedupeAndTrim(strings.Split(raw, ","))
	}
	topic := os.Getenv("KAFKA_EVENTS_TOPIC")
	if topic == "" {
		topic = "coverline.events"
	}

	stream := os.Getenv("REDIS_EVENTS_STREAM")
	if stream == "" {
		stream = "coverline:events"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Admin:         admin,
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:     brokers,
		KafkaTopic:       topic,
		RedisStream:      stream,
		InitialLiquidity: envInt64("POOL_INITIAL_LIQUIDITY", 0),
		Policy: PolicyBounds{
			RiskPool:        envString("RISK_POOL_REF", "risk-pool"),
			MinCoverage:     envInt64("POLICY_MIN_COVERAGE", 1),
			MaxCoverage:     envInt64("POLICY_MAX_COVERAGE", 1_000_000_000_000),
			MinPremium:      envInt64("POLICY_MIN_PREMIUM", 1),
			MaxPremium:      envInt64("POLICY_MAX_PREMIUM", 1_000_000_000_000),
			MinDurationDays: uint32(envInt("POLICY_MIN_DURATION_DAYS", 1)),
			MaxDurationDays: uint32(envInt("POLICY_MAX_DURATION_DAYS", 365)),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
