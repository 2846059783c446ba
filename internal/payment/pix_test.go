package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardapio-api/internal/model"
	"cardapio-api/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPayloadDeterministic(t *testing.T) {
	amount := decimal.RequireFromString("29.00")
	a := MockPayload(amount, "Pedido #0001", 42)
	b := MockPayload(amount, "Pedido #0001", 42)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "order=42")
	assert.Contains(t, a, "amount=29.00")
	assert.Contains(t, a, "desc=Pedido #0001")
}

func TestEncodeQR(t *testing.T) {
	qr, err := EncodeQR("PIX|v1|order=1|amount=10.00|desc=test")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
	assert.Greater(t, len(qr), len("data:image/png;base64,"))
}

func TestCreateChargeMockMode(t *testing.T) {
	svc := NewPixService(&config.PixConfig{})
	require.True(t, svc.MockMode())

	charge, err := svc.CreateCharge(context.Background(), &ChargeRequest{
		Amount:      decimal.RequireFromString("15.50"),
		Description: "Pedido #0003",
		OrderID:     3,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, ModeMock, charge.Mode)
	assert.Empty(t, charge.PaymentID)
	assert.Contains(t, charge.Payload, "order=3")
	assert.True(t, strings.HasPrefix(charge.QRCodeBase64, "data:image/png;base64,"))
}

func TestCreateChargeProviderMode(t *testing.T) {
	var gotAuth, gotIdempotency string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": 123456789,
			"status": "pending",
			"external_reference": "7",
			"point_of_interaction": {
				"transaction_data": {"qr_code": "00020126BR.GOV.BCB.PIX-test-payload"}
			}
		}`))
	}))
	defer server.Close()

	svc := NewPixService(&config.PixConfig{BaseURL: server.URL, Token: "test-token"})
	require.False(t, svc.MockMode())

	charge, err := svc.CreateCharge(context.Background(), &ChargeRequest{
		Amount:      decimal.RequireFromString("29.00"),
		Description: "Pedido #0001",
		OrderID:     7,
	}, "retry-key-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "retry-key-1", gotIdempotency)
	assert.Equal(t, "pix", gotBody["payment_method_id"])
	assert.Equal(t, "7", gotBody["external_reference"])
	assert.InDelta(t, 29.00, gotBody["transaction_amount"].(float64), 0.001)

	assert.Equal(t, ModeProvider, charge.Mode)
	assert.Equal(t, "123456789", charge.PaymentID)
	assert.Equal(t, "00020126BR.GOV.BCB.PIX-test-payload", charge.Payload)
	assert.True(t, strings.HasPrefix(charge.QRCodeBase64, "data:image/png;base64,"))
}

func TestCreateChargeProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewPixService(&config.PixConfig{BaseURL: server.URL, Token: "bad-token"})
	_, err := svc.CreateCharge(context.Background(), &ChargeRequest{
		Amount:  decimal.RequireFromString("10.00"),
		OrderID: 1,
	}, "")
	assert.Error(t, err)
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/987", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 987, "status": "approved", "external_reference": "12"}`))
	}))
	defer server.Close()

	svc := NewPixService(&config.PixConfig{BaseURL: server.URL, Token: "test-token"})
	payment, err := svc.GetPayment(context.Background(), "987")
	require.NoError(t, err)

	assert.Equal(t, "987", payment.ID)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "12", payment.ExternalReference)
}

func TestMapProviderStatus(t *testing.T) {
	cases := []struct {
		provider    string
		wantPayment string
		wantOrder   string
	}{
		{"approved", model.PaymentStatusPaid, model.OrderStatusConfirmed},
		{"paid", model.PaymentStatusPaid, model.OrderStatusConfirmed},
		{"pending", model.PaymentStatusPending, ""},
		{"in_process", model.PaymentStatusPending, ""},
		{"cancelled", model.PaymentStatusFailed, model.OrderStatusCancelled},
		{"rejected", model.PaymentStatusFailed, model.OrderStatusCancelled},
		{"refunded", model.PaymentStatusFailed, model.OrderStatusCancelled},
		{"something_new", model.PaymentStatusPending, ""},
	}
	for _, tc := range cases {
		gotPayment, gotOrder := MapProviderStatus(tc.provider)
		assert.Equal(t, tc.wantPayment, gotPayment, tc.provider)
		assert.Equal(t, tc.wantOrder, gotOrder, tc.provider)
	}
}
