package handler

import (
	"net/http"
	"strconv"

	"cardapio-api/internal/apperror"
	"cardapio-api/internal/model"
	"cardapio-api/internal/payment"
	"cardapio-api/pkg/logger"
	"cardapio-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreatePixCharge creates a PIX charge (mock or provider-backed) for an order
func CreatePixCharge(c echo.Context) error {
	log := logger.FromContext(c)

	var req payment.ChargeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse PIX charge request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if !req.Amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	if req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "orderId is required"})
	}

	idempotencyKey := c.Request().Header.Get("X-Idempotency-Key")

	charge, err := pix.CreateCharge(c.Request().Context(), &req, idempotencyKey)
	if err != nil {
		log.Error("Failed to create PIX charge",
			zap.Uint("order_id", req.OrderID),
			zap.Error(err))
		return RenderError(c, err)
	}

	prometheus.PixChargeCounter.WithLabelValues(charge.Mode).Inc()

	// Remember the provider payment id on the order so the webhook and the
	// dashboard can correlate it. A missing order is not fatal here.
	if charge.PaymentID != "" {
		if err := orders.AttachPaymentID(c.Request().Context(), req.OrderID, charge.PaymentID); err != nil {
			log.Warn("Could not attach payment id to order",
				zap.Uint("order_id", req.OrderID),
				zap.String("payment_id", charge.PaymentID),
				zap.Error(err))
		}
	}

	log.Info("PIX charge created",
		zap.Uint("order_id", req.OrderID),
		zap.String("mode", charge.Mode),
		zap.String("amount", req.Amount.StringFixed(2)))
	return c.JSON(http.StatusCreated, charge)
}

// webhookPaymentID extracts the payment id from a provider notification.
// Providers vary between a JSON body ({"data": {"id": ...}} or {"id": ...})
// and query parameters ("data.id" or "id").
func webhookPaymentID(c echo.Context) string {
	var body struct {
		ID   interface{} `json:"id"`
		Data struct {
			ID interface{} `json:"id"`
		} `json:"data"`
	}
	if err := c.Bind(&body); err == nil {
		if id := asString(body.Data.ID); id != "" {
			return id
		}
		if id := asString(body.ID); id != "" {
			return id
		}
	}
	if id := c.QueryParam("data.id"); id != "" {
		return id
	}
	return c.QueryParam("id")
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	default:
		return ""
	}
}

// PaymentWebhook reconciles an asynchronous provider notification against the
// referenced order. Unknown references are acknowledged with 200 so the
// provider does not retry forever.
func PaymentWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	paymentID := webhookPaymentID(c)
	if paymentID == "" {
		log.Warn("Webhook notification without payment id")
		prometheus.WebhookCounter.WithLabelValues("error").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing payment id"})
	}

	// Nothing to reconcile in mock mode; acknowledge and move on
	if pix.MockMode() {
		log.Info("Webhook acknowledged in mock mode", zap.String("payment_id", paymentID))
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}

	// Never trust the notification body: fetch the payment from the provider
	providerPayment, err := pix.GetPayment(c.Request().Context(), paymentID)
	if err != nil {
		log.Error("Failed to fetch payment from provider",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		prometheus.WebhookCounter.WithLabelValues("error").Inc()
		return RenderError(c, err)
	}

	orderID, err := strconv.ParseUint(providerPayment.ExternalReference, 10, 32)
	if err != nil {
		log.Warn("Webhook payment without usable external reference",
			zap.String("payment_id", paymentID),
			zap.String("external_reference", providerPayment.ExternalReference))
		prometheus.WebhookCounter.WithLabelValues("unmatched").Inc()
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}

	paymentStatus, orderStatus := payment.MapProviderStatus(providerPayment.Status)

	err = orders.MarkPayment(c.Request().Context(), uint(orderID), paymentStatus, orderStatus, paymentID)
	if err != nil {
		if apperror.As(err).Code == apperror.CodeNotFound {
			// Answer 200 for unmatched payments, otherwise the provider
			// keeps retrying the notification
			log.Warn("Webhook references unknown order",
				zap.String("payment_id", paymentID),
				zap.Uint64("order_id", orderID))
			prometheus.WebhookCounter.WithLabelValues("unmatched").Inc()
			return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
		}
		log.Error("Failed to apply webhook to order",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		prometheus.WebhookCounter.WithLabelValues("error").Inc()
		return RenderError(c, err)
	}

	switch paymentStatus {
	case model.PaymentStatusPaid:
		prometheus.WebhookCounter.WithLabelValues("paid").Inc()
	case model.PaymentStatusFailed:
		prometheus.WebhookCounter.WithLabelValues("failed").Inc()
	default:
		prometheus.WebhookCounter.WithLabelValues("pending").Inc()
	}

	log.Info("Payment webhook reconciled",
		zap.String("payment_id", paymentID),
		zap.Uint64("order_id", orderID),
		zap.String("provider_status", providerPayment.Status),
		zap.String("payment_status", paymentStatus))
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
