package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPair(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("rzp_test_key", "s", "")

	good := signPair("s", "order_1", "pay_1")
	assert.True(t, c.VerifySignature("order_1", "pay_1", good))

	// Flipping any part of the signed pair must fail verification.
	assert.False(t, c.VerifySignature("order_1", "pay_2", good))
	assert.False(t, c.VerifySignature("order_2", "pay_1", good))
	assert.False(t, c.VerifySignature("order_1", "pay_1", signPair("s", "order_1", "pay_2")))
	assert.False(t, c.VerifySignature("order_1", "pay_1", "not-a-signature"))
	assert.False(t, c.VerifySignature("order_1", "pay_1", ""))

	other := NewClient("rzp_test_key", "different-secret", "")
	assert.False(t, other.VerifySignature("order_1", "pay_1", good))
}

func TestCreateIntent(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_Nx123",
			"amount":   gotBody["amount"],
			"currency": "INR",
			"receipt":  gotBody["receipt"],
			"status":   "created",
		})
	}))
	defer srv.Close()

	c := NewClient("rzp_test_key", "secret", srv.URL)
	intent, err := c.CreateIntent(1160)
	require.NoError(t, err)

	assert.Equal(t, "order_Nx123", intent.ID)
	assert.Equal(t, int64(116000), intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.True(t, strings.HasPrefix(intent.Receipt, "receipt_"))

	// The gateway charges in the minor unit.
	assert.Equal(t, float64(116000), gotBody["amount"])
}

func TestCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	c := NewClient("rzp_test_key", "secret", "")

	_, err := c.CreateIntent(0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = c.CreateIntent(-10)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateIntentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := NewClient("rzp_test_key", "wrong", srv.URL)
	_, err := c.CreateIntent(500)
	assert.ErrorIs(t, err, ErrGateway)
}

func TestDemoMode(t *testing.T) {
	assert.True(t, NewClient("", "", "").DemoMode())
	assert.False(t, NewClient("rzp_live_abc", "secret", "").DemoMode())
}
