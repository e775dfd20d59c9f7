package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/models"
)

// GetAdvisories returns the latest crop advisories.
func GetAdvisories(ctx *gin.Context) {
	var advisories []models.Advisory
	result := initializers.DB.Order("created_at DESC").Limit(50).Find(&advisories)
	if result.Error != nil {
		initializers.Log.Errorw("Failed to fetch advisories", "error", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch advisories")
		return
	}
	ctx.JSON(http.StatusOK, advisories)
}

// SeedAdvisories replaces the feed with demo advisories for local
// development.
func SeedAdvisories(ctx *gin.Context) {
	demo := []models.Advisory{
		{
			Title:   "Paddy Sow Timing — North India (Rabi)",
			Content: "Recommended sowing window for HD 2967 is late Oct–early Nov. Use recommended seed rate and seed treatment with Azospirillum.",
			Tags:    datatypes.JSON([]byte(`["paddy","sowing"]`)),
			Region:  "North",
		},
		{
			Title:   "Soil pH correction before planting",
			Content: "If pH < 6.0, apply lime at recommended rate from soil test. Use 50% of full dose 2 weeks before sowing.",
			Tags:    datatypes.JSON([]byte(`["soil","pH"]`)),
			Region:  "All",
		},
	}

	if err := initializers.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Advisory{}).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Seed failed")
		return
	}
	if err := initializers.DB.Create(&demo).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Seed failed")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Advisories seeded", "count": len(demo)})
}
