package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/gildedspoon/tableside"
)

// Credentials is the login/registration payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate enforces the minimal form contract before the round trip.
func (p Credentials) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Password, validation.Required, validation.Length(1, 200)),
	)
}

type registerRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Role     tableside.Role `json:"role"`
}

// Login exchanges credentials for a bearer token. Any non-success outcome
// collapses into ErrLoginRejected: the backend does not distinguish unknown
// user from wrong password, and neither do we.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", tableside.ErrLoginRejected, err)
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Debug("login rejected with status %d", res.StatusCode)
		return "", fmt.Errorf("%w: status %d", tableside.ErrLoginRejected, res.StatusCode)
	}

	// The backend returns the raw credential as a JSON-encoded string.
	var token string
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %v", tableside.ErrLoginRejected, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", tableside.ErrLoginRejected)
	}
	return token, nil
}

// Register creates an account. New accounts sign up as diners; admin
// accounts are provisioned out of band.
func (c *Client) Register(ctx context.Context, creds Credentials, role tableside.Role) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}

	return c.doJSON(ctx, http.MethodPost, "/auth/register", registerRequest{
		Username: creds.Username,
		Password: creds.Password,
		Role:     role,
	}, nil)
}
