package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/models"
	"github.com/krishisathi/agrisetu-api/services"
)

func findOrCreateCart(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := initializers.DB.Where("user_id = ?", userID).Preload("Items").First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = initializers.DB.Create(&cart).Error
	}
	return cart, err
}

// GetCart returns the caller's persisted cart.
func GetCart(ctx *gin.Context) {
	cart, err := findOrCreateCart(ctx.GetUint("userID"))
	if err != nil {
		initializers.Log.Errorw("Failed to fetch cart", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// SyncCart merges the client-held draft cart into the persisted one after
// login.
func SyncCart(ctx *gin.Context) {
	var body struct {
		Items []models.CartItem `json:"items"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart, err := findOrCreateCart(ctx.GetUint("userID"))
	if err != nil {
		initializers.Log.Errorw("Failed to load cart for sync", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Cart sync failed")
		return
	}

	merged := services.MergeCartItems(cart.Items, body.Items)
	for i := range merged {
		merged[i].ID = 0
		merged[i].CartID = cart.ID
	}

	err = initializers.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(merged) == 0 {
			return nil
		}
		return tx.Create(&merged).Error
	})
	if err != nil {
		initializers.Log.Errorw("Cart sync failed", "cartId", cart.ID, "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Cart sync failed")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart synced successfully"})
}

// ClearCart empties the caller's persisted cart, typically after checkout.
func ClearCart(ctx *gin.Context) {
	cart, err := findOrCreateCart(ctx.GetUint("userID"))
	if err != nil {
		initializers.Log.Errorw("Failed to load cart", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		initializers.Log.Errorw("Failed to clear cart", "cartId", cart.ID, "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}
