package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.razorpay.com"

	// Placeholder credentials keep local setups working without a real
	// gateway account; the key endpoint reports demoMode so the frontend
	// can simulate checkout instead of opening the gateway widget.
	placeholderKeyID  = "rzp_test_placeholder"
	placeholderSecret = "placeholder_secret"
)

var (
	ErrInvalidAmount = errors.New("payments: amount must be greater than zero")
	ErrGateway       = errors.New("payments: gateway request failed")
)

// Intent is the gateway-side pending-transaction descriptor returned by the
// orders API, passed to the caller verbatim.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client wraps the Razorpay REST API and the shared-secret signature check.
type Client struct {
	http      *resty.Client
	keyID     string
	keySecret string
}

func NewClient(keyID, keySecret, baseURL string) *Client {
	if keyID == "" {
		keyID = placeholderKeyID
	}
	if keySecret == "" {
		keySecret = placeholderSecret
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:      resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"), "")
}

// Key returns the public key id handed to the frontend checkout widget.
func (c *Client) Key() string {
	return c.keyID
}

func (c *Client) DemoMode() bool {
	return c.keyID == placeholderKeyID
}

// CreateIntent creates a gateway payment intent for amount in the
// storefront's major currency unit. The gateway works in paise, hence the
// x100 conversion.
func (c *Client) CreateIntent(amount float64) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	body := map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
	}

	var intent Intent
	resp, err := c.http.R().
		SetBasicAuth(c.keyID, c.keySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&intent).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode(), resp.Body())
	}

	return &intent, nil
}

// VerifySignature reports whether signature proves the gateway confirmed
// payment paymentID against intent orderID. The gateway signs
// "<orderID>|<paymentID>" with the shared key secret (HMAC-SHA256, hex).
// Comparison is constant-time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
