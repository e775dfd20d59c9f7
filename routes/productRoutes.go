package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/krishisathi/agrisetu-api/controllers"
	"github.com/krishisathi/agrisetu-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/products", controllers.GetProducts)
	server.GET("/products/seed", controllers.SeedProducts)
	server.GET("/products/:id", controllers.GetProduct)

	admin := server.Group("/products", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateProduct)
		admin.DELETE("/:id", controllers.DeleteProduct)
		admin.POST("/images", controllers.UploadProductImage)
	}
}
