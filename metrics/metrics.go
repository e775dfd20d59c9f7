package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrisetu",
		Name:      "orders_created_total",
		Help:      "Orders created, by payment method.",
	}, []string{"method"})

	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrisetu",
		Name:      "payment_verifications_total",
		Help:      "Online payment signature verifications, by result.",
	}, []string{"result"})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrisetu",
		Name:      "stock_adjustments_total",
		Help:      "Per-line stock compensations on order status edges.",
	}, []string{"direction", "result"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agrisetu",
		Name:      "order_status_transitions_total",
		Help:      "Administrator order status transitions, by target status.",
	}, []string{"status"})
)
