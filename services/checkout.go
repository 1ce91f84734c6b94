package services

import (
	"fmt"

	"inevitable_academy_go/config"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sirupsen/logrus"
)

// SnapClient is the shared checkout-session client. InitCheckout must be
// called once at bootstrap before any session is created.
var SnapClient snap.Client

// InitCheckout configures the payment provider client from AppConfig
func InitCheckout() {
	env := midtrans.Sandbox
	if config.AppConfig.MidtransProduction {
		env = midtrans.Production
	}
	SnapClient.New(config.AppConfig.MidtransServerKey, env)

	if config.AppConfig.MidtransServerKey == "" {
		logrus.Warn("MIDTRANS_SERVER_KEY is empty; checkout sessions will fail until configured")
	}
}

// CheckoutSession is the result handed back to the browser for redirection
type CheckoutSession struct {
	Token       string `json:"token"`
	RedirectURL string `json:"checkout_url"`
}

// CreateCheckoutSession creates a hosted payment page for the given amount.
// amountMinor is in minor currency units (cents) and must already be
// validated as a positive integer by the caller. The provider's finish
// callback takes the role of the success URL; cancellation falls back to the
// same page with a cancelled status.
func CreateCheckoutSession(amountMinor int64, description, successURL string) (*CheckoutSession, error) {
	orderID := fmt.Sprintf("booking-%s", uuid.New().String())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amountMinor,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    amountMinor,
				Qty:      1,
				Name:     description,
				Category: "tutoring",
			},
		},
	}
	if successURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: successURL}
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"amount":   amountMinor,
	}).Info("Checkout session created")

	return &CheckoutSession{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}
