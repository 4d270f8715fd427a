package database

import (
	"os"

	"kota-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the local persistence store. A DATABASE_URL selects postgres;
// without one the store is a sqlite file next to the binary, which matches the
// single-device, not-shared contract of the cart slots.
func Connect() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	path := os.Getenv("STORE_PATH")
	if path == "" {
		path = "kota.db"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Slot{})
}
