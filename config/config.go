// Package config reads runtime configuration for the tableside binaries
// from the environment, with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Client configures the terminal ordering client.
type Client struct {
	// APIBaseURL is the restaurant backend this client talks to.
	APIBaseURL string
	// DataDir holds the credential database and client log file.
	DataDir string
	// LogLevel sets zap's minimum level for the client log file.
	LogLevel string
}

// Server configures the development backend.
type Server struct {
	Host            string
	Port            string
	DBPath          string
	UploadDir       string
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
	LogLevel        string
	// Seed loads a demo menu and accounts into an empty database.
	Seed bool
}

// LoadClient reads client configuration, applying defaults where possible.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	dataDir := os.Getenv("TABLESIDE_DATA_DIR")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dataDir = filepath.Join(base, "tableside")
	}

	return &Client{
		APIBaseURL: getEnv("TABLESIDE_API_URL", "http://localhost:8000"),
		DataDir:    dataDir,
		LogLevel:   getEnv("TABLESIDE_LOG_LEVEL", "info"),
	}, nil
}

// LoadServer reads dev backend configuration, applying defaults where
// possible.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	return &Server{
		Host:            getEnv("TABLESIDE_SERVER_HOST", "127.0.0.1"),
		Port:            getEnv("TABLESIDE_SERVER_PORT", "8000"),
		DBPath:          getEnv("TABLESIDE_SERVER_DB", "tableside.db"),
		UploadDir:       getEnv("TABLESIDE_SERVER_UPLOADS", "uploads"),
		JWTSecret:       getEnv("TABLESIDE_JWT_SECRET", "dev-secret"),
		TokenTTLMinutes: getEnvAsInt("TABLESIDE_TOKEN_TTL_MINUTES", 60),
		BcryptCost:      getEnvAsInt("TABLESIDE_BCRYPT_COST", 10),
		LogLevel:        getEnv("TABLESIDE_LOG_LEVEL", "info"),
		Seed:            getEnvAsBool("TABLESIDE_SERVER_SEED", true),
	}, nil
}

// Addr returns the dev backend bind address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
