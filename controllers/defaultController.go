package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHealth is the liveness probe.
func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Agrisetu API 🚜. Marketplace for fertilizers, seeds, tools, and crop advisories.

The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account
- GET "/auth/refresh" - Refresh the access token
- POST "/auth/logout" - Revoke the refresh token

PRODUCT
- GET "/products" - Get the catalog
- GET "/products/:id" - Get product by ID
- POST "/products" - Create product (admin)
- DELETE "/products/:id" - Delete product (admin)
- POST "/products/images" - Upload product image (admin)

CART
- GET "/cart" - Get my cart
- POST "/cart/sync" - Merge local cart into my cart
- DELETE "/cart" - Clear my cart

ORDER
- POST "/orders" - Create COD/direct order
- GET "/orders/mine" - Get my orders
- GET "/orders" - Get all orders (admin)
- PUT "/orders/:id/status" - Update order status (admin)
- GET "/orders/razorpay-key" - Get gateway public key
- POST "/orders/razorpay" - Create payment intent
- POST "/orders/verify" - Verify payment and finalize order

ADVISORY
- GET "/advisories" - Latest crop advisories
- POST "/ai/chat" - Ask the AI advisor`

	ctx.JSON(http.StatusOK, gin.H{"message": message})
}
