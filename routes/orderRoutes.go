package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/krishisathi/agrisetu-api/controllers"
	"github.com/krishisathi/agrisetu-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("/mine", controllers.GetMyOrders)
		orders.GET("/razorpay-key", controllers.GetRazorpayKey)
		orders.POST("/razorpay", controllers.CreateRazorpayOrder)
		orders.POST("/verify", controllers.VerifyPayment)

		admin := orders.Group("", middlewares.RequireAdmin())
		{
			admin.GET("", controllers.GetAllOrders)
			admin.PUT("/:id/status", controllers.UpdateOrderStatus)
		}
	}
}
