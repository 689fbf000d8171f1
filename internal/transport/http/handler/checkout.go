package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/internal/service"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
	"github.com/alnoorcollection/storefront/pkg/utils"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// PlaceOrder accepts a multipart form so the payment proof can ride along
// with the customer fields.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()

	input := &service.CheckoutInput{
		SessionID:    sessionID(c),
		CustomerName: c.FormValue("name"),
		Email:        c.FormValue("email"),
		Phone:        c.FormValue("phone"),
		Address:      c.FormValue("address"),
		City:         c.FormValue("city"),
		PostalCode:   c.FormValue("postal_code"),
		Country:      c.FormValue("country"),
		Notes:        c.FormValue("notes"),
		PaymentType:  domain.PaymentType(c.FormValue("payment_type", string(domain.PaymentTypeCashOnDelivery))),
	}

	if v := c.FormValue("payment_method_id"); v != "" {
		methodID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "payment_method_id is invalid",
			})
		}
		input.PaymentMethodID = &methodID
	}

	if v := c.FormValue("product_id"); v != "" {
		productID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "product_id is invalid",
			})
		}

		quantity, err := strconv.ParseInt(c.FormValue("quantity", "1"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "quantity is invalid",
			})
		}

		input.BuyNow = &service.BuyNowInput{
			ProductID: productID,
			Quantity:  quantity,
		}
	}

	if file, err := c.FormFile("payment_proof"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "cannot read payment proof",
			})
		}
		defer src.Close()

		input.Proof = &service.ProofUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Content:     src,
		}
	}

	order, err := h.checkout.PlaceOrder(ctx, input)
	if err != nil {
		return h.checkoutError(c, ctx, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"checkout succeeded",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_number":  order.OrderNumber,
		"subtotal":      order.Subtotal,
		"delivery":      order.DeliveryCharges,
		"total":         order.Total,
		"total_display": domain.FormatPrice(order.Total),
		"status":        "success",
	})
}

func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, ctx context.Context, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(validationErrs),
		})
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrPaymentMethodRequired),
		errors.Is(err, service.ErrPaymentProofRequired),
		errors.Is(err, service.ErrProofTooLarge),
		errors.Is(err, service.ErrPaymentMethodDisabled):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrCheckoutInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrPaymentMethodNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repository.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	mylogger.Warn(
		ctx,
		h.logger,
		"checkout failed",
		zap.Error(err),
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
