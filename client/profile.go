package client

import (
	"context"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion resolves national phone numbers when no country code
// is dialled. The restaurant operates in India.
const defaultPhoneRegion = "IN"

// Address is the delivery address block of a profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// Profile holds the user's saved account and delivery details.
type Profile struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Validate enforces the profile form contract.
func (p Profile) Validate() error {
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Required, is.Email),
	); err != nil {
		return err
	}
	if p.Phone != "" {
		if _, err := parsePhone(p.Phone); err != nil {
			return fmt.Errorf("phone: %w", err)
		}
	}
	return validation.ValidateStruct(&p.Address,
		validation.Field(&p.Address.Pincode, validation.Length(0, 10), is.Digit),
	)
}

// NormalizePhone formats a phone number into E.164, resolving bare national
// numbers against the restaurant's region. An empty input stays empty.
func NormalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	num, err := parsePhone(raw)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func parsePhone(raw string) (*phonenumbers.PhoneNumber, error) {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return nil, err
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number %q", raw)
	}
	return num, nil
}

// ProfileByUser fetches the saved profile for a user.
func (c *Client) ProfileByUser(ctx context.Context, userID int64) (Profile, error) {
	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/details/fetch/%d", userID), nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// SaveProfile validates, normalizes the phone number, and persists the
// profile.
func (c *Client) SaveProfile(ctx context.Context, userID int64, profile Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	normalized, err := NormalizePhone(profile.Phone)
	if err != nil {
		return err
	}
	profile.Phone = normalized

	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/details/add/%d", userID), profile, nil)
}
