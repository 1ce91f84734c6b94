package controllers

import (
	"math"

	"inevitable_academy_go/services"

	"github.com/gofiber/fiber/v2"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/sirupsen/logrus"
)

type CheckoutController struct{}

// CheckoutRequest carries the booking form. Amount is in major currency
// units; conversion to minor units happens server-side.
type CheckoutRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	SuccessURL  string  `json:"success_url"`
	CancelURL   string  `json:"cancel_url"`
}

// toMinorUnits converts a major-unit amount to minor units, rejecting
// anything that is not a positive whole number of cents after conversion.
func toMinorUnits(amount float64) (int64, bool) {
	cents := math.Round(amount * 100)
	// tolerate float representation error but nothing finer than a cent
	if cents <= 0 || math.Abs(amount*100-cents) > 1e-6 || cents > math.MaxInt64 {
		return 0, false
	}
	return int64(cents), true
}

// CreateCheckout creates a hosted checkout session and returns the redirect
// URL. Validation failures are 400s with a descriptive error; provider
// failures pass the upstream status code through.
func (cc *CheckoutController) CreateCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Amount == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is required"})
	}
	amountMinor, ok := toMinorUnits(req.Amount)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be a positive whole number of cents"})
	}

	description := req.Description
	if description == "" {
		description = "Inevitable Online Academy booking"
	}

	session, err := services.CreateCheckoutSession(amountMinor, description, req.SuccessURL)
	if err != nil {
		status := fiber.StatusBadGateway
		if mErr, ok := err.(*midtrans.Error); ok && mErr.StatusCode != 0 {
			status = mErr.StatusCode
		}
		logrus.WithError(err).Error("Failed to create checkout session")
		return c.Status(status).JSON(fiber.Map{"error": "Failed to create checkout"})
	}

	return c.JSON(session)
}
