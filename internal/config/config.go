package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/geoindex"
	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the hazard map service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - HTTPPort: The port of the public REST API.
// - HealthPort: The port for the monitoring server (health checks and metrics).
// - ProviderType: The type of geocoding provider to use (google, nominatim).
// - APIKey: The API key for accessing the provider (required for Google).
// - Region: Region bias for geocoding, a ccTLD or comma separated country codes.
// - Workers: The number of concurrent workers geocoding pending reports.
// - Interval: The duration between polls for pending reports.
// - Database: Configuration settings for the PostgreSQL database.
// - Kafka: Where hazard updates are published. No brokers disables publishing.
type Config struct {
	Env            string
	HTTPPort       int
	HealthPort     int
	ProviderType   string
	APIKey         string
	Region         string
	Workers        int
	Interval       time.Duration
	AddrPrefix     string   // Address prefix for more accurate geocoding
	H3Resolution   int      // Resolution at which observations are merged into one hazard
	NearbyRadius   float64  // Default radius of nearby searches, in meters
	AllowedOrigins []string // CORS origins allowed to call the API
	Database       PostgresConfig
	Kafka          KafkaConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// KafkaConfig holds the brokers and topic hazard updates are published to.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MustLoad reads the configuration from the environment. Values missing from the environment
// are taken from the env file named by HAZARDS_ENV_FILE (default .env), then from defaults.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	env := mustReadEnvFile(os.Getenv("HAZARDS_ENV_FILE"))

	interval, err := time.ParseDuration(env.get("HAZARDS_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		panic("failed to parse interval from configuration")
	}

	httpPort, err := strconv.Atoi(env.get("HAZARDS_HTTP_PORT", "8000"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := strconv.Atoi(env.get("HAZARDS_HEALTH_PORT", "8081"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(env.get("HAZARDS_WORKERS", "4"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	resolution, err := strconv.Atoi(env.get("HAZARDS_H3_RESOLUTION", strconv.Itoa(geoindex.DefaultResolution)))
	if err != nil || !geoindex.ValidResolution(resolution) {
		panic("failed to parse H3 resolution from configuration, must be an integer between 0 and 15")
	}

	radius, err := strconv.ParseFloat(env.get("HAZARDS_NEARBY_RADIUS", "1500"), 64)
	if err != nil || radius <= 0 {
		panic("failed to parse nearby radius from configuration, must be a positive number of meters")
	}

	return &Config{
		Env:            env.get("HAZARDS_ENV", "production"),
		HTTPPort:       httpPort,
		HealthPort:     healthPort,
		ProviderType:   env.get("HAZARDS_PROVIDER_TYPE", "nominatim"),
		APIKey:         env.get("HAZARDS_PROVIDER_KEY", ""),
		Region:         env.get("HAZARDS_PROVIDER_REGION", ""),
		Workers:        workers,
		Interval:       interval,
		AddrPrefix:     env.get("HAZARDS_ADDRESS_PREFIX", ""),
		H3Resolution:   resolution,
		NearbyRadius:   radius,
		AllowedOrigins: splitList(env.get("HAZARDS_ALLOWED_ORIGINS", "*")),
		Database: PostgresConfig{
			Host:     env.get("DB_HOST", ""),
			Port:     env.get("DB_PORT", "5432"),
			User:     env.get("DB_USERNAME", ""),
			Password: env.get("DB_PASSWORD", ""),
			Name:     env.get("DB_NAME", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(env.get("KAFKA_BROKERS", "")),
			Topic:   env.get("KAFKA_TOPIC", "hazard-updates"),
		},
	}
}

// fileEnv holds the values read from the env file. The process environment takes precedence.
type fileEnv map[string]string

func mustReadEnvFile(path string) fileEnv {
	if path == "" {
		path = ".env"
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileEnv{}
	}
	if err != nil {
		panic("failed to read env file " + path + ": " + err.Error())
	}

	return values
}

func (e fileEnv) get(key, override string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := e[key]; exists {
		return value
	}

	return override
}

func splitList(raw string) []string {
	var items []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
