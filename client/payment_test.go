package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedspoon/tableside/client"
)

func validPayment() client.PaymentRequest {
	return client.PaymentRequest{
		OrderID:        31,
		UserID:         7,
		CardNumber:     "4111111111111111",
		CardHolderName: "Alice Kumar",
		ExpiryDate:     "09/27",
		CVV:            "123",
		BillingAddress: "123 Main St, Springfield, IL, 62704",
	}
}

func TestPaymentValidation(t *testing.T) {
	assert.NoError(t, validPayment().Validate())

	broken := func(mutate func(*client.PaymentRequest)) client.PaymentRequest {
		p := validPayment()
		mutate(&p)
		return p
	}

	tests := []struct {
		name    string
		payment client.PaymentRequest
	}{
		{"missing order", broken(func(p *client.PaymentRequest) { p.OrderID = 0 })},
		{"card too short", broken(func(p *client.PaymentRequest) { p.CardNumber = "4111" })},
		{"card not digits", broken(func(p *client.PaymentRequest) { p.CardNumber = "4111-1111-1111-1111" })},
		{"bad expiry month", broken(func(p *client.PaymentRequest) { p.ExpiryDate = "13/27" })},
		{"bad expiry shape", broken(func(p *client.PaymentRequest) { p.ExpiryDate = "2027-09" })},
		{"cvv too long", broken(func(p *client.PaymentRequest) { p.CVV = "12345" })},
		{"no billing address", broken(func(p *client.PaymentRequest) { p.BillingAddress = "" })},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.payment.Validate())
		})
	}
}

func TestPaySendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/pay/7", r.URL.Path)

		var req client.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(31), req.OrderID)
		assert.Equal(t, "Alice Kumar", req.CardHolderName)
	}))
	defer srv.Close()

	api := client.New(srv.URL, authed("tok-abc"))
	require.NoError(t, api.Pay(context.Background(), 7, validPayment()))
}

func TestNormalizePhone(t *testing.T) {
	got, err := client.NormalizePhone("98765 43210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	got, err = client.NormalizePhone("+14155552671")
	require.NoError(t, err)
	assert.Equal(t, "+14155552671", got)

	got, err = client.NormalizePhone("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = client.NormalizePhone("12")
	assert.Error(t, err)
}

func TestProfileValidation(t *testing.T) {
	profile := client.Profile{
		Name:  "Alice Kumar",
		Email: "alice@gildedspoon.com",
		Phone: "9876543210",
		Address: client.Address{
			Street:  "12 MG Road",
			City:    "Bengaluru",
			Pincode: "560001",
		},
	}
	assert.NoError(t, profile.Validate())

	profile.Email = "not-an-email"
	assert.Error(t, profile.Validate())

	profile.Email = "alice@gildedspoon.com"
	profile.Address.Pincode = "ABC123"
	assert.Error(t, profile.Validate())
}
