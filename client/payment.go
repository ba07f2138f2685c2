package client

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// expiryPattern accepts MM/YY card expiry dates.
var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// PaymentRequest settles a checked-out order. The card fields never touch
// local storage; they travel straight to the payment endpoint.
type PaymentRequest struct {
	OrderID        int64  `json:"orderId"`
	UserID         int64  `json:"userId"`
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	BillingAddress string `json:"billingAddress"`
}

// Validate enforces the card form contract before the round trip.
func (p PaymentRequest) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.OrderID, validation.Required),
		validation.Field(&p.UserID, validation.Required),
		validation.Field(&p.CardNumber, validation.Required, is.Digit, validation.Length(13, 19)),
		validation.Field(&p.CardHolderName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.ExpiryDate, validation.Required, validation.Match(expiryPattern)),
		validation.Field(&p.CVV, validation.Required, is.Digit, validation.Length(3, 4)),
		validation.Field(&p.BillingAddress, validation.Required, validation.Length(1, 500)),
	)
}

// Pay settles the order. A 401/403 surfaces as ErrInvalidSession; any other
// failure is a payment error for the form to display.
func (c *Client) Pay(ctx context.Context, userID int64, payment PaymentRequest) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/payment/pay/%d", userID), payment, nil)
}
