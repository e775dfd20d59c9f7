package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/payments"
	"github.com/krishisathi/agrisetu-api/services"
	"github.com/krishisathi/agrisetu-api/utils"
)

var (
	orderService *services.OrderService
	gateway      *payments.Client
)

// ConfigureOrders wires the order lifecycle service and the payment gateway
// adapter into the order handlers. Called once from main.
func ConfigureOrders(svc *services.OrderService, gw *payments.Client) {
	orderService = svc
	gateway = gw
}

func currentUserID(ctx *gin.Context) uint {
	return ctx.GetUint("userID")
}

func orderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrEmptyItems):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, services.ErrInvalidQty):
		return http.StatusBadRequest, "Item quantity must be at least 1"
	case errors.Is(err, services.ErrTotalMismatch):
		return http.StatusBadRequest, "Order total does not match item prices"
	case errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest, "Unknown order status"
	case errors.Is(err, services.ErrInvalidSignature):
		return http.StatusBadRequest, "Invalid signature"
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, services.ErrStatusConflict):
		return http.StatusConflict, "Order status was changed by someone else, reload and retry"
	}
	return http.StatusInternalServerError, msgInternalServerError
}

// sendOrderConfirmation emails the customer best-effort; checkout never
// fails because of mail delivery.
func sendOrderConfirmation(ctx *gin.Context, orderID uint, totalAmount float64, itemCount int) {
	claims, exists := ctx.Get("user")
	if !exists {
		return
	}
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return
	}
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	if email == "" {
		return
	}

	data := utils.OrderEmailData{
		Name:        name,
		OrderID:     orderID,
		TotalAmount: totalAmount,
		ItemCount:   itemCount,
		OrdersURL:   os.Getenv("FRONTEND_URL") + "/my-orders",
	}
	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := utils.SendOrderConfirmationEmail(email, data, templatePath); err != nil {
		initializers.Log.Warnw("Order confirmation email not sent", "orderId", orderID, "error", err)
	}
}

// CreateOrder handles COD checkout and the direct online path.
func CreateOrder(ctx *gin.Context) {
	var input services.OrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		initializers.Log.Warnw("Order binding failed", "error", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := orderService.CreateOrder(ctx.Request.Context(), currentUserID(ctx), input)
	if err != nil {
		status, message := orderErrorStatus(err)
		if status == http.StatusInternalServerError {
			initializers.Log.Errorw("Order creation failed", "error", err)
		}
		sendErrorResponse(ctx, status, message)
		return
	}

	sendOrderConfirmation(ctx, order.ID, order.TotalAmount, len(order.Items))
	ctx.JSON(http.StatusCreated, order)
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(ctx *gin.Context) {
	orders, err := orderService.ListOrdersForUser(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		initializers.Log.Errorw("Failed to fetch user orders", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetAllOrders lists every order with owner identity resolved. Admin only.
func GetAllOrders(ctx *gin.Context) {
	orders, err := orderService.ListAllOrders(ctx.Request.Context())
	if err != nil {
		initializers.Log.Errorw("Failed to fetch orders", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus transitions an order's status and reports the per-line
// stock compensation outcome. Admin only.
func UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse order id")
		return
	}

	var body struct {
		OrderStatus string `json:"orderStatus" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, adjustments, err := orderService.TransitionStatus(ctx.Request.Context(), uint(orderID), body.OrderStatus)
	if err != nil {
		status, message := orderErrorStatus(err)
		if status == http.StatusInternalServerError {
			initializers.Log.Errorw("Status transition failed", "orderId", orderID, "error", err)
		}
		sendErrorResponse(ctx, status, message)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"order":            order,
		"stockAdjustments": adjustments,
	})
}

// GetRazorpayKey hands the public key id to the checkout widget, flagging
// demo mode when no real gateway credentials are configured.
func GetRazorpayKey(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"key":      gateway.Key(),
		"demoMode": gateway.DemoMode(),
	})
}

// CreateRazorpayOrder creates a gateway payment intent for the cart total.
func CreateRazorpayOrder(ctx *gin.Context) {
	var body struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	intent, err := gateway.CreateIntent(body.Amount)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidAmount) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Amount must be greater than zero")
			return
		}
		initializers.Log.Errorw("Razorpay order creation failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Razorpay order creation failed")
		return
	}

	ctx.JSON(http.StatusOK, intent)
}

// VerifyPayment checks the gateway signature and finalizes the online order.
func VerifyPayment(ctx *gin.Context) {
	var body struct {
		RazorpayOrderID   string              `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string              `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string              `json:"razorpay_signature" binding:"required"`
		OrderData         services.OrderInput `json:"orderData" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := orderService.FinalizeOnlineOrder(
		ctx.Request.Context(),
		currentUserID(ctx),
		body.RazorpayOrderID,
		body.RazorpayPaymentID,
		body.RazorpaySignature,
		body.OrderData,
	)
	if err != nil {
		status, message := orderErrorStatus(err)
		if status == http.StatusInternalServerError {
			initializers.Log.Errorw("Payment verification failed", "error", err)
		}
		sendErrorResponse(ctx, status, message)
		return
	}

	sendOrderConfirmation(ctx, order.ID, order.TotalAmount, len(order.Items))
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Payment verified and order created",
		"order":   order,
	})
}
