package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/krishisathi/agrisetu-api/controllers"
	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/payments"
	"github.com/krishisathi/agrisetu-api/repositories"
	"github.com/krishisathi/agrisetu-api/routes"
	"github.com/krishisathi/agrisetu-api/services"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	gateway := payments.NewClientFromEnv()
	orderService := services.NewOrderService(
		repositories.NewOrderRepository(initializers.DB),
		repositories.NewProductRepository(initializers.DB),
		gateway,
		initializers.Log,
	)
	controllers.ConfigureOrders(orderService, gateway)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server)
	routes.ProductRoutes(server)
	routes.CartRoutes(server)
	routes.OrderRoutes(server)
	routes.AdvisoryRoutes(server)

	server.Run()
}
