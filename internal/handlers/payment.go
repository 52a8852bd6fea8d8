package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/rakshop/internal/services"
)

// PaymentHandler exposes KHQR generation and settlement-status endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type generateQRRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// GenerateQR builds a payment QR for the given cart.
func (h *PaymentHandler) GenerateQR(c *fiber.Ctx) error {
	var req generateQRRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.payments.GenerateQR(c.Context(), req.ProductIDs)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "product not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate QR code")
	}

	return c.JSON(fiber.Map{
		"qr_image_base64_uri": result.ImageURI,
		"payment_id":          result.Payment.ID,
	})
}

// CheckStatus reports the settlement status of a payment.
// The route name keeps the original public contract, typo included.
func (h *PaymentHandler) CheckStatus(c *fiber.Ctx) error {
	raw := c.Query("payment_id")
	if raw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payment_id is required")
	}

	paymentID, err := uuid.Parse(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment_id")
	}

	result, err := h.payments.CheckStatus(c.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		case errors.Is(err, services.ErrExternalService):
			return fiber.NewError(fiber.StatusBadGateway, "payment network unavailable")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"payment_status": result.Status,
		"md5":            result.Digest,
		"qrstring":       result.Payment,
	})
}
