package initializers

import (
	"github.com/krishisathi/agrisetu-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Advisory{},
	)
	Log.Info("Database synced successfully.")
}
