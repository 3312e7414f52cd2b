package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/scrimlab/scrim-stats/internal/models"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Match store
	StoreDriver     string
	MongoURL        string
	MongoDatabase   string
	MongoCollection string
	PostgresURL     string
	SQLitePath      string

	// Result cache (optional)
	RedisURL string
	CacheTTL time.Duration

	// Worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Auth
	APITokens []string

	// Aggregation
	Teams        models.TrackedTeams
	BucketDays   int
	QueryTimeout time.Duration
}

// BucketWidth is the configured timeline period length.
func (c *Config) BucketWidth() time.Duration {
	return time.Duration(c.BucketDays) * 24 * time.Hour
}

// LoadDotEnv loads the first .env file found near the working directory.
// It returns the path loaded, or "" when none was found.
func LoadDotEnv() string {
	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoDatabase:   getEnv("MONGO_DATABASE", "lol_match_database"),
		MongoCollection: getEnv("MONGO_COLLECTION", "scrim_matches"),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 1000),
		BatchSize:     getEnvInt("BATCH_SIZE", 100),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		BucketDays:   getEnvInt("BUCKET_DAYS", 14),
		QueryTimeout: getEnvDuration("QUERY_TIMEOUT", 10*time.Second),
	}

	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"))
	cfg.APITokens = splitList(os.Getenv("API_TOKENS"))

	if cfg.BucketDays <= 0 {
		return nil, fmt.Errorf("BUCKET_DAYS must be positive, got %d", cfg.BucketDays)
	}

	// Critical configuration - fail if missing
	var err error
	switch cfg.StoreDriver {
	case "mongo":
		cfg.MongoURL, err = getEnvRequired("MONGO_URL")
	case "postgres":
		cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL")
	case "sqlite":
		cfg.SQLitePath, err = getEnvRequired("SQLITE_PATH")
	default:
		err = fmt.Errorf("unsupported STORE_DRIVER %q (want mongo, postgres or sqlite)", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	teams, err := loadTeams(os.Getenv("TEAMS_FILE"), os.Getenv("TRACKED_TEAMS"))
	if err != nil {
		return nil, err
	}
	if cfg.Teams, err = models.NewTrackedTeams(teams); err != nil {
		return nil, err
	}

	return cfg, nil
}

type teamsFile struct {
	Teams map[string][]string `yaml:"teams"`
}

// loadTeams reads the team-to-roster mapping from a YAML file, or from the
// inline form "Alpha=r1|r2,Beta=r3". The file wins when both are set.
func loadTeams(path, inline string) (map[string][]string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read TEAMS_FILE: %w", err)
		}
		var f teamsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse TEAMS_FILE: %w", err)
		}
		return f.Teams, nil
	}

	teams := make(map[string][]string)
	for _, entry := range splitList(inline) {
		name, rosters, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("TRACKED_TEAMS entry %q: want Team=roster1|roster2", entry)
		}
		name = strings.TrimSpace(name)
		if _, dup := teams[name]; dup {
			return nil, fmt.Errorf("TRACKED_TEAMS: team %q listed twice", name)
		}
		teams[name] = strings.Split(rosters, "|")
	}
	return teams, nil
}

// TeamsYAML renders tracked teams in the TEAMS_FILE format.
func TeamsYAML(teams models.TrackedTeams) ([]byte, error) {
	f := teamsFile{Teams: make(map[string][]string, teams.Len())}
	for _, name := range teams.Names() {
		f.Teams[name] = teams.Rosters(name)
	}
	return yaml.Marshal(f)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
