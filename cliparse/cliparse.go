package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/bandit-demo/bandit"
)

// Storage backends
const (
	DatabaseMemory   = "memory"
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	TokenBudget    int
	SessionTTL     time.Duration
	RandomSeed     uint64
	SessionKeySalt string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("bandit-demo", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (memory, sqlite or postgres)")

	// Game config
	fs.IntVar(&cfg.TokenBudget, "budget", 0, "Tokens per session")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle time before a session is discarded")
	fs.Uint64Var(&cfg.RandomSeed, "seed", 0, "Random seed (0 for non-deterministic)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionKeySalt, "key-salt", "", "Session key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseMemory
		}
	}
	switch cfg.DatabaseType {
	case DatabaseMemory:
	case DatabaseSQLite, DatabasePostgres:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		}
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.TokenBudget == 0 {
		if s := os.Getenv("TOKEN_BUDGET"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_BUDGET env variable")
			}
			cfg.TokenBudget = n
		} else {
			cfg.TokenBudget = bandit.DefaultBudget
		}
	}
	if cfg.TokenBudget <= 0 {
		return Config{}, errors.New("token budget must be positive")
	}
	if cfg.TokenBudget > bandit.MaxBudget {
		return Config{}, fmt.Errorf("token budget must not exceed %d", bandit.MaxBudget)
	}

	if cfg.SessionTTL == 0 {
		if s := os.Getenv("SESSION_TTL"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = d
		} else {
			cfg.SessionTTL = 30 * time.Minute
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must not be negative")
	}

	if cfg.RandomSeed == 0 {
		if s := os.Getenv("RANDOM_SEED"); s != "" {
			seed, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid RANDOM_SEED env variable")
			}
			cfg.RandomSeed = seed
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionKeySalt == "" {
		cfg.SessionKeySalt = os.Getenv("SESSION_KEY_SALT")
	}
	if cfg.SessionKeySalt == "" {
		return Config{}, errors.New("SESSION_KEY_SALT required")
	}

	return cfg, nil
}

// loadEnvFile applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
