package config

import (
	"fmt"
	"os"

	"github.com/soumaisfe-svg/vida-fit-control-1/models"
	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.Log.Warn().Msg("no .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		utils.Log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		utils.Log.Fatal().Err(err).Msg("AutoMigrate failed")
	}
}

// Migrate runs schema migration against any *gorm.DB, so tests can reuse it
// with an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.HabitRecord{},
		&models.StepSession{},
		&models.Subscription{},
		&models.AIReport{},
		&models.CoinTransaction{},
		&models.Alert{},
		&models.UserDevice{},
	)
}
