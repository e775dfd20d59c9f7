package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krishisathi/agrisetu-api/controllers"
	"github.com/krishisathi/agrisetu-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	// 20 attempts per 15 minutes per IP on the credential endpoints.
	authLimiter := middlewares.RateLimit(20, 15*time.Minute)

	auth := server.Group("/auth")
	{
		auth.POST("/register", authLimiter, controllers.Register)
		auth.POST("/login", authLimiter, controllers.Login)
		auth.GET("/refresh", controllers.RefreshToken)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/seed", controllers.SeedUsers)
	}
}
