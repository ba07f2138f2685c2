package tableside

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultValidateTimeout = 10 * time.Second

// HTTPValidator verifies bearer credentials against the backend's
// GET /auth/validate endpoint. Every call is a fresh round trip; there is
// no caching and no retry.
type HTTPValidator struct {
	baseURL string
	client  *http.Client
	logger  Logger
}

// NewHTTPValidator returns a validator for the given backend base URL.
func NewHTTPValidator(baseURL string, client *http.Client) *HTTPValidator {
	if client == nil {
		client = &http.Client{Timeout: defaultValidateTimeout}
	}
	return &HTTPValidator{
		baseURL: baseURL,
		client:  client,
		logger:  defLogger{},
	}
}

func (v *HTTPValidator) WithLogger(logger Logger) *HTTPValidator {
	if logger != nil {
		v.logger = logger
	}
	return v
}

type validateResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Valid    bool   `json:"valid"`
}

// Validate satisfies the SessionValidator interface. A rejection, an
// authorization failure status, a transport error, and a malformed body are
// deliberately indistinguishable to callers: all collapse into
// ErrInvalidSession.
func (v *HTTPValidator) Validate(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/validate", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("validate round trip failed: %v", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		v.logger.Debug("validate rejected with status %d", res.StatusCode)
		return Identity{}, fmt.Errorf("%w: status %d", ErrInvalidSession, res.StatusCode)
	}

	var payload validateResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !payload.Valid {
		return Identity{}, fmt.Errorf("%w: backend reports invalid", ErrInvalidSession)
	}

	role, ok := ParseRole(payload.Role)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidSession, payload.Role)
	}

	return Identity{
		ID:       payload.ID,
		Username: payload.Username,
		Role:     role,
	}, nil
}
