package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by -t / STORE_TYPE.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

const (
	defaultPort       = 3318
	defaultSQLiteURL  = "file:pollboard.db"
	defaultLoginDelay = 800 * time.Millisecond
	defaultEventTopic = "poll-events"
)

type Config struct {
	Port         int
	StoreType    string
	StoreURL     string
	LoginDelay   time.Duration
	SeedDemo     bool
	LogLevel     string
	EventBrokers []string
	EventTopic   string
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var loginDelay, seed, brokers string

	fs := flag.NewFlagSet("pollboard", flag.ContinueOnError)

	// Network and storage (CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreType, "t", "", "Store type (memory, sqlite, postgres or redis)")
	fs.StringVar(&cfg.StoreURL, "d", "", "Store URL or DSN")

	// Behaviour
	fs.StringVar(&loginDelay, "login-delay", "", "Simulated login round trip (e.g. 800ms)")
	fs.StringVar(&seed, "seed", "", "Seed demo polls when nothing is stored (true/false)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Events
	fs.StringVar(&brokers, "event-brokers", "", "Comma-separated Kafka brokers")
	fs.StringVar(&cfg.EventTopic, "event-topic", "", "Kafka topic for poll events")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = StoreSQLite
		}
	}
	cfg.StoreType = strings.ToLower(cfg.StoreType)

	if cfg.StoreURL == "" {
		cfg.StoreURL = os.Getenv("STORE_URL")
	}
	switch cfg.StoreType {
	case StoreMemory:
	case StoreSQLite:
		if cfg.StoreURL == "" {
			cfg.StoreURL = defaultSQLiteURL
		}
	case StorePostgres, StoreRedis:
		if cfg.StoreURL == "" {
			return Config{}, fmt.Errorf("store URL required for %s (use -d or STORE_URL env)", cfg.StoreType)
		}
	default:
		return Config{}, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}

	if loginDelay == "" {
		loginDelay = os.Getenv("LOGIN_DELAY")
	}
	cfg.LoginDelay = defaultLoginDelay
	if loginDelay != "" {
		d, err := time.ParseDuration(loginDelay)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid login delay %q", loginDelay)
		}
		cfg.LoginDelay = d
	}

	if seed == "" {
		seed = os.Getenv("SEED_DEMO_POLLS")
	}
	cfg.SeedDemo = true
	if seed != "" {
		b, err := strconv.ParseBool(seed)
		if err != nil {
			return Config{}, fmt.Errorf("invalid seed flag %q", seed)
		}
		cfg.SeedDemo = b
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if brokers == "" {
		brokers = os.Getenv("EVENT_BROKERS")
	}
	cfg.EventBrokers = splitList(brokers)

	if cfg.EventTopic == "" {
		cfg.EventTopic = os.Getenv("EVENT_TOPIC")
		if cfg.EventTopic == "" {
			cfg.EventTopic = defaultEventTopic
		}
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
