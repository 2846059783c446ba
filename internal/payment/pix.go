package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"cardapio-api/pkg/config"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// Charge modes
const (
	ModeMock     = "mock"
	ModeProvider = "provider"
)

// ChargeRequest describes a PIX charge to create for an order
type ChargeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OrderID     uint            `json:"orderId"`
}

// Charge is the result returned to the storefront: the copy-paste payload
// plus a rendered QR image
type Charge struct {
	PaymentID    string `json:"payment_id,omitempty"`
	Payload      string `json:"payload"`
	QRCodeBase64 string `json:"qr_code_base64"`
	Mode         string `json:"mode"`
}

// PixService creates PIX charges and reconciles provider webhooks. With no
// provider token configured it runs in mock mode so storefront checkout works
// in development without real payment-provider access.
type PixService struct {
	cfg    *config.PixConfig
	client *http.Client
}

// NewPixService creates the payment adapter from configuration
func NewPixService(cfg *config.PixConfig) *PixService {
	return &PixService{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// MockMode reports whether the adapter synthesizes payloads locally
func (s *PixService) MockMode() bool {
	return s.cfg.Token == ""
}

// CreateCharge produces a PIX payload and QR code for the given amount.
// In provider mode the idempotency key, when supplied by the caller, is
// forwarded so client retries do not create duplicate charges.
func (s *PixService) CreateCharge(ctx context.Context, req *ChargeRequest, idempotencyKey string) (*Charge, error) {
	if s.MockMode() {
		payload := MockPayload(req.Amount, req.Description, req.OrderID)
		qr, err := EncodeQR(payload)
		if err != nil {
			return nil, err
		}
		return &Charge{
			Payload:      payload,
			QRCodeBase64: qr,
			Mode:         ModeMock,
		}, nil
	}

	payment, err := s.createProviderCharge(ctx, req, idempotencyKey)
	if err != nil {
		return nil, err
	}

	qr, err := EncodeQR(payment.QRCode)
	if err != nil {
		return nil, err
	}
	return &Charge{
		PaymentID:    payment.ID,
		Payload:      payment.QRCode,
		QRCodeBase64: qr,
		Mode:         ModeProvider,
	}, nil
}

// MockPayload synthesizes a deterministic textual PIX payload embedding the
// amount, description and order id. Same input, same payload.
func MockPayload(amount decimal.Decimal, description string, orderID uint) string {
	return fmt.Sprintf("PIX|v1|order=%d|amount=%s|desc=%s", orderID, amount.StringFixed(2), description)
}

// EncodeQR renders a payload as a base64 PNG data URI
func EncodeQR(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
