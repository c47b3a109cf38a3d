package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminIP      string
	CodePool     int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Optional .env for dev; real env variables win
	_ = godotenv.Load()

	fs := flag.NewFlagSet("classpoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Classroom config
	fs.StringVar(&cfg.AdminIP, "admin-ip", "", "Client IP allowed on instructor routes")
	fs.IntVar(&cfg.CodePool, "codes", 0, "Size of the anonymized code pool")

	if err := fs.Parse(args); err != nil {
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
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.AdminIP == "" {
		cfg.AdminIP = os.Getenv("ADMIN_IP")
		if cfg.AdminIP == "" {
			// Instructor runs the server on their own machine
			cfg.AdminIP = "127.0.0.1"
		}
	}

	if cfg.CodePool == 0 {
		if poolStr := os.Getenv("CODE_POOL"); poolStr != "" {
			pool, err := strconv.Atoi(poolStr)
			if err != nil {
				return Config{}, errors.New("invalid CODE_POOL env variable")
			}
			cfg.CodePool = pool
		} else {
			cfg.CodePool = 1000
		}
	}

	return cfg, nil
}
