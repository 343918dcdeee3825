package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultPhotosSubDir = "nominee_photos"

const (
	defaultCleanupQueueSize = 100
	defaultCleanupWorkers   = 2
	defaultPhotoMaxSize     = 1200
	defaultTokenTTLHours    = 24
)

type Config struct {
	// database path
	DatabasePath string

	// storage configuration
	StoragePath  string // root for stored assets
	PhotosSubDir string // URL segment and directory name for nominee photos
	PhotosPath   string // full calculated path for nominee photos

	// photo processing settings
	PhotoMaxSize int // longest side in pixels after processing

	// cleanup worker settings
	CleanupQueueSize int
	CleanupWorkers   int

	// auth settings
	JWTSecret     []byte
	TokenTTLHours int

	// initial admin account, used only when the users table is empty
	AdminUsername string
	AdminPassword string

	// CORS
	AllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "awards.db")

	storage := getEnvOrDefault("STORAGE_PATH", filepath.Join(".", "storage"))
	absStorage, err := filepath.Abs(storage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage '%s': %w", storage, err)
	}
	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	absPhotosPath := filepath.Join(absStorage, photosSubDir)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	origins := strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := Config{
		DatabasePath:     dbPath,
		StoragePath:      absStorage,
		PhotosSubDir:     photosSubDir,
		PhotosPath:       absPhotosPath,
		PhotoMaxSize:     getEnvIntOrDefault("PHOTO_MAX_SIZE", defaultPhotoMaxSize),
		CleanupQueueSize: getEnvIntOrDefault("CLEANUP_QUEUE_SIZE", defaultCleanupQueueSize),
		CleanupWorkers:   getEnvIntOrDefault("CLEANUP_WORKERS", defaultCleanupWorkers),
		JWTSecret:        []byte(secret),
		TokenTTLHours:    getEnvIntOrDefault("TOKEN_TTL_HOURS", defaultTokenTTLHours),
		AdminUsername:    os.Getenv("ADMIN_USERNAME"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins:   origins,
	}

	return cfg, nil
}
