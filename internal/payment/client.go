package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stitchline/orderapi/internal/config"
	"github.com/stitchline/orderapi/pkg/errors"
)

type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new payment gateway client
func NewClient(cfg config.GatewayConfig, logger *zap.Logger) *Client {
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL:   baseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreatePaymentOrder registers a payment intent with the gateway
func (c *Client) CreatePaymentOrder(ctx context.Context, amount float64, receipt string) (*PaymentOrder, error) {
	url := fmt.Sprintf("%s/v1/orders", c.baseURL)

	reqBody := createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: "USD",
		Receipt:  receipt,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Gateway create order request failed", zap.Error(err))
		return nil, &errors.ErrPaymentFailed{Stage: "create", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("Gateway create order rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, &errors.ErrPaymentFailed{
			Stage:   "create",
			Message: fmt.Sprintf("gateway returned status %d", resp.StatusCode),
		}
	}

	var orderResp createOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &PaymentOrder{
		ID:       orderResp.ID,
		Amount:   float64(orderResp.Amount) / 100,
		Currency: orderResp.Currency,
	}, nil
}

// VerifySignature checks the confirmation callback signature, computed
// by the gateway as HMAC-SHA256 over "<gateway_order_id>|<payment_id>".
func (c *Client) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return &errors.ErrPaymentFailed{Stage: "confirm", Message: "signature mismatch"}
	}
	return nil
}
