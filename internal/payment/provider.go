package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/model"
)

// ProviderPayment is the slice of the provider's payment resource we consume
type ProviderPayment struct {
	ID                string
	Status            string
	ExternalReference string
	QRCode            string
}

type providerPaymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	ExternalReference  string      `json:"external_reference"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode string `json:"qr_code"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (r *providerPaymentResponse) toPayment() *ProviderPayment {
	return &ProviderPayment{
		ID:                r.ID.String(),
		Status:            r.Status,
		ExternalReference: r.ExternalReference,
		QRCode:            r.PointOfInteraction.TransactionData.QRCode,
	}
}

// createProviderCharge creates a PIX charge at the payment provider
func (s *PixService) createProviderCharge(ctx context.Context, req *ChargeRequest, idempotencyKey string) (*ProviderPayment, error) {
	amount, _ := req.Amount.Float64()
	body := map[string]interface{}{
		"transaction_amount": amount,
		"description":        req.Description,
		"payment_method_id":  "pix",
		"external_reference": strconv.FormatUint(uint64(req.OrderID), 10),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/payments", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	if idempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, apperror.Provider("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Provider(fmt.Sprintf("payment provider returned status %d", resp.StatusCode), nil)
	}

	var parsed providerPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperror.Provider("failed to decode provider response", err)
	}

	payment := parsed.toPayment()
	if payment.QRCode == "" {
		return nil, apperror.Provider("provider response missing PIX payload", nil)
	}
	return payment, nil
}

// GetPayment fetches the current state of a payment from the provider.
// Webhook reconciliation always re-fetches rather than trusting the
// notification body.
func (s *PixService) GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, apperror.Provider("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.Provider(fmt.Sprintf("payment provider returned status %d", resp.StatusCode), nil)
	}

	var parsed providerPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperror.Provider("failed to decode provider response", err)
	}
	return parsed.toPayment(), nil
}

// MapProviderStatus translates a provider payment status into the order's
// payment status and, when the payment settles or fails, the order lifecycle
// status. An empty order status means the order is left unchanged.
func MapProviderStatus(providerStatus string) (paymentStatus, orderStatus string) {
	switch providerStatus {
	case "approved", "paid":
		return model.PaymentStatusPaid, model.OrderStatusConfirmed
	case "pending", "in_process":
		return model.PaymentStatusPending, ""
	case "cancelled", "rejected", "refunded":
		return model.PaymentStatusFailed, model.OrderStatusCancelled
	default:
		return model.PaymentStatusPending, ""
	}
}
