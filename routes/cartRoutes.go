package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/krishisathi/agrisetu-api/controllers"
	"github.com/krishisathi/agrisetu-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/sync", controllers.SyncCart)
		cart.DELETE("", controllers.ClearCart)
	}
}
