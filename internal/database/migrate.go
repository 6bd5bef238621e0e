package database

import (
	"log"

	"stockgame/internal/models"
)

func AutoMigrate() error {
	err := DB.AutoMigrate(
		&models.Room{},
		&models.Player{},
		&models.StockRecommendation{},
		&models.DailyPrice{},
		&models.NewsArticle{},
	)

	if err != nil {
		log.Printf("Failed to auto-migrate: %v", err)
		return err
	}

	log.Println("Database migration completed successfully")
	return nil
}
