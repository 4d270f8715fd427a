package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// On production, environment variables are set directly.
	err := godotenv.Load()
	if err != nil {
		// .env file not found is not an error - it might be on production
		// Environment variables are already available in os.Getenv()
		return nil
	}
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - application cannot function without these
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("WARNING: DATABASE_URL not set - using local sqlite store")
	}
	if os.Getenv("CATALOG_API_URL") == "" {
		log.Println("WARNING: CATALOG_API_URL not set - defaulting to the public catalog")
	}
	if os.Getenv("IDENTITY_API_URL") == "" {
		log.Println("WARNING: IDENTITY_API_URL not set - defaulting to the public identity endpoint")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("DEMO_PASSWORD") == "" {
		log.Println("WARNING: DEMO_PASSWORD not set - offline login uses the built-in demo credentials")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
