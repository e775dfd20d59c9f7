package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/models"
)

type fakeOrderStore struct {
	nextID uint
	orders map[uint]*models.Order

	// beforeCAS, when set, runs at the start of CompareAndSwapStatus to
	// simulate a concurrent writer between the read and the swap.
	beforeCAS func()
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{nextID: 1, orders: map[uint]*models.Order{}}
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	order.ID = s.nextID
	s.nextID++
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uint) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) FindByUser(_ context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) FindAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) CompareAndSwapStatus(_ context.Context, id uint, prevStatus, newStatus string) (bool, error) {
	if s.beforeCAS != nil {
		s.beforeCAS()
	}
	o, ok := s.orders[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if o.OrderStatus != prevStatus {
		return false, nil
	}
	o.OrderStatus = newStatus
	return true, nil
}

type fakeProductStore struct {
	stock map[uint]int
}

func (s *fakeProductStore) AdjustStock(_ context.Context, productID uint, delta int) error {
	current, ok := s.stock[productID]
	if !ok || current+delta < 0 {
		return ErrProductNotFound
	}
	s.stock[productID] = current + delta
	return nil
}

type hmacVerifier struct{ secret string }

func (v hmacVerifier) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(signature))
}

func newTestService(orders *fakeOrderStore, products *fakeProductStore) *OrderService {
	return NewOrderService(orders, products, hmacVerifier{secret: "s"}, zap.NewNop().Sugar())
}

func sampleAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName: "Ram Kumar",
		Phone:    "9876543210",
		Address:  "Village Rampur",
		City:     "Lucknow",
		State:    "Uttar Pradesh",
		Pincode:  "226001",
	}
}

func TestCreateOrderCOD(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	in := OrderInput{
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Urea 46% Nitrogen Fertilizer (50kg)", Price: 580, Qty: 2},
		},
		ShippingAddress: sampleAddress(),
		TotalAmount:     1160,
		PaymentMethod:   models.PaymentMethodCOD,
	}

	order, err := svc.CreateOrder(context.Background(), 7, in)
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, in.Items, order.Items)
	assert.Equal(t, float64(1160), order.TotalAmount)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	_, err := svc.CreateOrder(context.Background(), 7, OrderInput{
		ShippingAddress: sampleAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, ErrEmptyItems)
	assert.Empty(t, orders.orders, "nothing should be persisted")
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), &fakeProductStore{stock: map[uint]int{}})

	_, err := svc.CreateOrder(context.Background(), 7, OrderInput{
		Items:           []models.OrderItem{{ProductID: 1, Price: 100, Qty: 0}},
		ShippingAddress: sampleAddress(),
		TotalAmount:     0,
	})
	assert.ErrorIs(t, err, ErrInvalidQty)
}

func TestCreateOrderRejectsTotalMismatch(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	_, err := svc.CreateOrder(context.Background(), 7, OrderInput{
		Items:           []models.OrderItem{{ProductID: 1, Price: 580, Qty: 2}},
		ShippingAddress: sampleAddress(),
		TotalAmount:     999,
	})
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Empty(t, orders.orders)
}

func TestFinalizeOnlineOrder(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	in := OrderInput{
		Items:           []models.OrderItem{{ProductID: 3, Name: "DAP Fertilizer", Price: 1350, Qty: 1}},
		ShippingAddress: sampleAddress(),
		TotalAmount:     1350,
		PaymentMethod:   models.PaymentMethodOnline,
	}

	sig := hmacVerifier{secret: "s"}
	mac := hmac.New(sha256.New, []byte(sig.secret))
	mac.Write([]byte("order_1|pay_1"))
	signature := hex.EncodeToString(mac.Sum(nil))

	order, err := svc.FinalizeOnlineOrder(context.Background(), 7, "order_1", "pay_1", signature, in)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, "pay_1", order.PaymentID)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
}

func TestFinalizeOnlineOrderRejectsBadSignature(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	in := OrderInput{
		Items:           []models.OrderItem{{ProductID: 3, Price: 1350, Qty: 1}},
		ShippingAddress: sampleAddress(),
		TotalAmount:     1350,
	}

	// Signature computed over a different payment id must be rejected.
	mac := hmac.New(sha256.New, []byte("s"))
	mac.Write([]byte("order_1|pay_2"))
	wrong := hex.EncodeToString(mac.Sum(nil))

	_, err := svc.FinalizeOnlineOrder(context.Background(), 7, "order_1", "pay_1", wrong, in)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, orders.orders, "no order may be created on signature mismatch")
}

func deliveredFixture(t *testing.T) (*OrderService, *fakeOrderStore, *fakeProductStore, uint) {
	t.Helper()
	orders := newFakeOrderStore()
	products := &fakeProductStore{stock: map[uint]int{1: 150}}
	svc := newTestService(orders, products)

	order, err := svc.CreateOrder(context.Background(), 7, OrderInput{
		Items:           []models.OrderItem{{ProductID: 1, Name: "Urea", Price: 580, Qty: 2}},
		ShippingAddress: sampleAddress(),
		TotalAmount:     1160,
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)
	return svc, orders, products, order.ID
}

func TestTransitionToDeliveredDecrementsStock(t *testing.T) {
	svc, _, products, orderID := deliveredFixture(t)

	order, adjustments, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusDelivered, order.OrderStatus)
	assert.Equal(t, 148, products.stock[1])
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].OK)
	assert.Equal(t, "decrement", adjustments[0].Direction)
}

func TestRepeatedDeliveredIsNoOp(t *testing.T) {
	svc, _, products, orderID := deliveredFixture(t)

	_, _, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusDelivered)
	require.NoError(t, err)

	_, adjustments, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusDelivered)
	require.NoError(t, err)

	assert.Empty(t, adjustments, "steady-state Delivered must not compensate again")
	assert.Equal(t, 148, products.stock[1])
}

func TestLeavingDeliveredRestoresStock(t *testing.T) {
	svc, _, products, orderID := deliveredFixture(t)

	_, _, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, 148, products.stock[1])

	order, adjustments, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusShipped, order.OrderStatus)
	assert.Equal(t, 150, products.stock[1], "decrement then increment must net to zero")
	require.Len(t, adjustments, 1)
	assert.Equal(t, "increment", adjustments[0].Direction)
}

func TestTransitionBetweenNonDeliveredStatesSkipsStock(t *testing.T) {
	svc, _, products, orderID := deliveredFixture(t)

	_, adjustments, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusShipped)
	require.NoError(t, err)

	assert.Empty(t, adjustments)
	assert.Equal(t, 150, products.stock[1])
}

func TestTransitionStatusUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrderStore(), &fakeProductStore{stock: map[uint]int{}})

	_, _, err := svc.TransitionStatus(context.Background(), 404, models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, orderID := deliveredFixture(t)

	_, _, err := svc.TransitionStatus(context.Background(), orderID, "Teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionStatusConflict(t *testing.T) {
	svc, orders, products, orderID := deliveredFixture(t)

	// Another admin wins the race between our read and our swap.
	orders.beforeCAS = func() {
		orders.beforeCAS = nil
		orders.orders[orderID].OrderStatus = models.OrderStatusDelivered
		products.stock[1] = 148
	}

	_, _, err := svc.TransitionStatus(context.Background(), orderID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, 148, products.stock[1], "losing admin must not compensate")
}

func TestCompensationIsBestEffortPerLine(t *testing.T) {
	orders := newFakeOrderStore()
	products := &fakeProductStore{stock: map[uint]int{1: 10}}
	svc := newTestService(orders, products)

	order, err := svc.CreateOrder(context.Background(), 7, OrderInput{
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Urea", Price: 100, Qty: 2},
			{ProductID: 99, Name: "Ghost product", Price: 50, Qty: 1},
			{Name: "Manual line item", Price: 25, Qty: 1},
		},
		ShippingAddress: sampleAddress(),
		TotalAmount:     275,
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	updated, adjustments, err := svc.TransitionStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.NoError(t, err, "a bad line must not block the transition")

	assert.Equal(t, models.OrderStatusDelivered, updated.OrderStatus)
	assert.Equal(t, 8, products.stock[1])

	// Lines without a product reference are skipped entirely; failing
	// lines are reported, not propagated.
	require.Len(t, adjustments, 2)
	assert.True(t, adjustments[0].OK)
	assert.False(t, adjustments[1].OK)
	assert.Equal(t, ErrProductNotFound.Error(), adjustments[1].Error)
}

func TestListOrdersForUserScoping(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestService(orders, &fakeProductStore{stock: map[uint]int{}})

	mkOrder := func(userID uint) {
		_, err := svc.CreateOrder(context.Background(), userID, OrderInput{
			Items:           []models.OrderItem{{ProductID: 1, Price: 100, Qty: 1}},
			ShippingAddress: sampleAddress(),
			TotalAmount:     100,
			PaymentMethod:   models.PaymentMethodCOD,
		})
		require.NoError(t, err)
	}
	mkOrder(1)
	mkOrder(1)
	mkOrder(2)

	mine, err := svc.ListOrdersForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, uint(1), o.UserID)
	}

	all, err := svc.ListAllOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMergeCartItems(t *testing.T) {
	existing := []models.CartItem{
		{Model: gorm.Model{ID: 1}, CartID: 5, ProductID: 1, Qty: 2, Price: 580},
	}
	incoming := []models.CartItem{
		{ProductID: 1, Qty: 1, Price: 600}, // price drift: keep price-at-add
		{ProductID: 2, Qty: 3, Price: 1350},
		{ProductID: 0, Qty: 1, Price: 10}, // no product reference: dropped
		{ProductID: 3, Qty: 0, Price: 99}, // zero quantity: dropped
	}

	merged := MergeCartItems(existing, incoming)
	require.Len(t, merged, 2)

	assert.Equal(t, uint(1), merged[0].ProductID)
	assert.Equal(t, 3, merged[0].Qty)
	assert.Equal(t, float64(580), merged[0].Price)

	assert.Equal(t, uint(2), merged[1].ProductID)
	assert.Equal(t, 3, merged[1].Qty)
	assert.Equal(t, float64(1350), merged[1].Price)
}
