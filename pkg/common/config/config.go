package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database
	PostgresHost         string
	PostgresPort         string
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresSSLMode      string
	PostgresMaxOpenConns int
	TwosidesTable        string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Pseudo-RPC
	Transport         string // kafka, redis, memory
	RequestTopic      string
	ResponseTopic     string
	ResponderGroupID  string
	RPCTimeout        time.Duration
	ProviderMode      string // direct, remote, fixture
	ResponderBackend  string // direct, fixture
	EmbedResponder    bool
	FixturePath       string
	ReportConcurrency int

	// Condition descriptions
	WikiBaseURL        string
	WikiRequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 6*time.Minute),

		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:         getEnv("POSTGRES_USER", "twosides"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", "twosides123"),
		PostgresDB:           getEnv("POSTGRES_DB", "twosides"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresMaxOpenConns: getIntEnv("POSTGRES_MAX_OPEN_CONNS", 10),
		TwosidesTable:        getEnv("TWOSIDES_TABLE", "effect_nsides.twosides"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "twosides-bridge"),

		Transport:         getEnv("TRANSPORT", "kafka"),
		RequestTopic:      getEnv("REQUEST_TOPIC", "twosides.requests"),
		ResponseTopic:     getEnv("RESPONSE_TOPIC", "twosides.responses"),
		ResponderGroupID:  getEnv("RESPONDER_GROUP_ID", ""),
		RPCTimeout:        getDuration("RPC_TIMEOUT", 5*time.Minute),
		ProviderMode:      getEnv("PROVIDER_MODE", "remote"),
		ResponderBackend:  getEnv("RESPONDER_BACKEND", "direct"),
		EmbedResponder:    getBoolEnv("EMBED_RESPONDER", false),
		FixturePath:       getEnv("FIXTURE_PATH", ""),
		ReportConcurrency: getIntEnv("REPORT_CONCURRENCY", 4),

		WikiBaseURL:        getEnv("WIKI_BASE_URL", "https://en.wikipedia.org"),
		WikiRequestTimeout: getDuration("WIKI_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Comma separated, blanks dropped.
func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
