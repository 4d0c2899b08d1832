package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/paint-mix/api/api"
	"github.com/paint-mix/api/datastore"
	"github.com/paint-mix/api/email"
	"github.com/paint-mix/api/migrations"
	"github.com/paint-mix/api/mixing"
	"github.com/paint-mix/api/scheduler"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Get configuration from environment
	config := api.Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		DatabaseType:      getEnv("DB_TYPE", "postgres"),
		DatabaseUser:      getEnv("DB_USER", "postgres"),
		DatabasePassword:  getEnv("DB_PASSWORD", ""),
		DatabaseName:      getEnv("DB_NAME", "paintmix"),
		SSLMode:           getEnv("SSL_MODE", "disable"),
		JwtSecret:         getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JwtAccessDuration: getEnvInt("JWT_ACCESS_DURATION", 86400), // 24 hours
		JwtDomain:         getEnv("JWT_DOMAIN", ""),
		AllowedOrigins:    getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:5173"),
		DevMode:           getEnvBool("DEV_MODE", true),
	}

	// Create database connection
	connStr := datastore.BuildDBConnStr(
		config.DatabasePassword,
		config.DatabaseUser,
		getEnv("DB_HOST", "localhost"),
		config.DatabaseName,
		config.SSLMode,
	)

	dbConn, dbErr := datastore.NewDB(config.DatabaseType, connStr)
	if dbErr != nil {
		log.Fatalf("Failed to connect to database: %v", dbErr)
	}
	defer dbConn.Close()

	// Run database migrations
	fmt.Println("Running database migrations...")
	if err := migrations.RunMigrations(dbConn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create user repository
	userRepo, userRepoErr := datastore.NewUserDatabase(dbConn)
	if userRepoErr != nil {
		log.Fatalf("Failed to create user repository: %v", userRepoErr)
	}

	// Create token repository
	tokenRepo, tokenRepoErr := datastore.NewTokenDatabase(dbConn)
	if tokenRepoErr != nil {
		log.Fatalf("Failed to create token repository: %v", tokenRepoErr)
	}

	// Create settings repository
	settingsRepo, settingsRepoErr := datastore.NewSettingsDatabase(dbConn)
	if settingsRepoErr != nil {
		log.Fatalf("Failed to create settings repository: %v", settingsRepoErr)
	}

	// Create paint catalogue repository
	paintRepo, paintRepoErr := datastore.NewPaintDatabase(dbConn)
	if paintRepoErr != nil {
		log.Fatalf("Failed to create paint repository: %v", paintRepoErr)
	}

	// Create mailer
	mailer := email.NewResend(
		getEnv("RESEND_API_KEY", ""),
		getEnv("EMAIL_FROM", "Paint Mix <noreply@paintmix.local>"),
		config.BaseURL,
	)

	// Create application
	app := &api.Application{
		Config:       config,
		UserRepo:     userRepo,
		TokenRepo:    tokenRepo,
		SettingsRepo: settingsRepo,
		PaintRepo:    paintRepo,
		Mailer:       mailer,
		Mixer:        mixing.NewService(),
	}

	// Start scheduler for nightly token purge
	tokenScheduler := scheduler.NewScheduler(tokenRepo)
	tokenScheduler.Start()

	// Create and start server
	mux := http.NewServeMux()

	fmt.Println("Paint Mix API Starting...")
	if err := app.Serve(mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

func getEnvSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return strings.Split(value, ",")
}
