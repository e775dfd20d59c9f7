package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/krishisathi/agrisetu-api/controllers"
)

func AdvisoryRoutes(server *gin.Engine) {
	server.GET("/advisories", controllers.GetAdvisories)
	server.GET("/advisories/seed", controllers.SeedAdvisories)
	server.POST("/ai/chat", controllers.ChatWithAI)
}
