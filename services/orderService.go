package services

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/krishisathi/agrisetu-api/metrics"
	"github.com/krishisathi/agrisetu-api/models"
)

var (
	ErrEmptyItems       = errors.New("order: cart is empty")
	ErrInvalidQty       = errors.New("order: item quantity must be at least 1")
	ErrTotalMismatch    = errors.New("order: total does not match item prices")
	ErrOrderNotFound    = errors.New("order: not found")
	ErrInvalidStatus    = errors.New("order: unknown order status")
	ErrStatusConflict   = errors.New("order: status was changed concurrently")
	ErrInvalidSignature = errors.New("order: invalid payment signature")
	ErrProductNotFound  = errors.New("product: not found or insufficient stock")
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	// CompareAndSwapStatus persists newStatus only if the order still holds
	// prevStatus, and reports whether the swap took effect.
	CompareAndSwapStatus(ctx context.Context, id uint, prevStatus, newStatus string) (bool, error)
}

type ProductStore interface {
	// AdjustStock adds delta to the product's stock as a single atomic
	// update, never read-modify-write.
	AdjustStock(ctx context.Context, productID uint, delta int) error
}

type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// OrderInput is the client-submitted checkout payload: snapshotted line
// items, the shipping address, and the claimed total.
type OrderInput struct {
	Items           []models.OrderItem     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	TotalAmount     float64                `json:"totalAmount"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// StockAdjustment is the per-line outcome of a compensation pass. Failures
// never abort the pass or the status transition; they are reported so the
// administrator can reconcile inventory by hand.
type StockAdjustment struct {
	ProductID uint   `json:"productId"`
	Qty       int    `json:"qty"`
	Direction string `json:"direction"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// OrderService is the sole authority for creating orders, finalizing online
// payments, and transitioning order status with its stock compensation.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	verifier SignatureVerifier
	log      *zap.SugaredLogger
}

func NewOrderService(orders OrderStore, products ProductStore, verifier SignatureVerifier, log *zap.SugaredLogger) *OrderService {
	return &OrderService{orders: orders, products: products, verifier: verifier, log: log}
}

func (s *OrderService) validateInput(in OrderInput) error {
	if len(in.Items) == 0 {
		return ErrEmptyItems
	}

	var total float64
	for _, item := range in.Items {
		if item.Qty < 1 {
			return ErrInvalidQty
		}
		total += item.Price * float64(item.Qty)
	}

	// The client-claimed total is never trusted; it must match the sum of
	// the snapshotted line prices to the paisa.
	if math.Abs(total-in.TotalAmount) > 0.01 {
		return ErrTotalMismatch
	}
	return nil
}

func (s *OrderService) materialize(userID uint, in OrderInput) *models.Order {
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}

	paymentStatus := models.PaymentStatusCompleted
	if method == models.PaymentMethodCOD {
		// COD settles at physical delivery.
		paymentStatus = models.PaymentStatusPending
	}

	return &models.Order{
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		TotalAmount:     in.TotalAmount,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		OrderStatus:     models.OrderStatusPending,
	}
}

// CreateOrder persists a new order from a cart snapshot. Covers both COD and
// the direct online path; stock is not touched here, only on the Delivered
// edge.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, in OrderInput) (*models.Order, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	order := s.materialize(userID, in)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(order.PaymentMethod).Inc()
	return order, nil
}

// FinalizeOnlineOrder verifies the gateway signature over
// "<gatewayOrderID>|<gatewayPaymentID>" and, only on a match, materializes
// the order with payment marked completed. Nothing is persisted on a
// mismatch.
func (s *OrderService) FinalizeOnlineOrder(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID, signature string, in OrderInput) (*models.Order, error) {
	if !s.verifier.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		metrics.PaymentVerifications.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidSignature
	}
	metrics.PaymentVerifications.WithLabelValues("verified").Inc()

	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	if in.PaymentMethod == "" || in.PaymentMethod == models.PaymentMethodCOD {
		in.PaymentMethod = models.PaymentMethodOnline
	}

	order := s.materialize(userID, in)
	order.PaymentStatus = models.PaymentStatusCompleted
	order.PaymentID = gatewayPaymentID

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(order.PaymentMethod).Inc()
	return order, nil
}

// ListOrdersForUser returns the caller's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// ListAllOrders returns every order with owner identity resolved, newest
// first. Admin gating happens at the route middleware.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}

// TransitionStatus sets a new order status and runs stock compensation on
// the Delivered edges. The previous-status guard is enforced as a
// compare-and-swap on the store, so concurrent transitions cannot fire the
// same edge twice.
func (s *OrderService) TransitionStatus(ctx context.Context, orderID uint, newStatus string) (*models.Order, []StockAdjustment, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, nil, ErrInvalidStatus
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	prev := order.OrderStatus

	swapped, err := s.orders.CompareAndSwapStatus(ctx, orderID, prev, newStatus)
	if err != nil {
		return nil, nil, err
	}
	if !swapped {
		return nil, nil, ErrStatusConflict
	}
	order.OrderStatus = newStatus
	metrics.StatusTransitions.WithLabelValues(newStatus).Inc()

	// Stock reflects committed inventory only once delivery is confirmed;
	// the edge detection keeps repeated writes of the same status from
	// compensating twice.
	var adjustments []StockAdjustment
	switch {
	case newStatus == models.OrderStatusDelivered && prev != models.OrderStatusDelivered:
		adjustments = s.compensate(ctx, order, -1)
	case prev == models.OrderStatusDelivered && newStatus != models.OrderStatusDelivered:
		adjustments = s.compensate(ctx, order, 1)
	}

	return order, adjustments, nil
}

func (s *OrderService) compensate(ctx context.Context, order *models.Order, sign int) []StockAdjustment {
	direction := "decrement"
	if sign > 0 {
		direction = "increment"
	}

	adjustments := make([]StockAdjustment, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID == 0 {
			// Lines without a resolvable product reference are skipped.
			continue
		}

		adj := StockAdjustment{ProductID: item.ProductID, Qty: item.Qty, Direction: direction, OK: true}
		if err := s.products.AdjustStock(ctx, item.ProductID, sign*item.Qty); err != nil {
			adj.OK = false
			adj.Error = err.Error()
			s.log.Warnw("Stock adjustment failed",
				"orderId", order.ID,
				"productId", item.ProductID,
				"direction", direction,
				"error", err,
			)
			metrics.StockAdjustments.WithLabelValues(direction, "error").Inc()
		} else {
			metrics.StockAdjustments.WithLabelValues(direction, "ok").Inc()
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments
}
