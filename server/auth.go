package server

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gildedspoon/tableside"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller, loaded by the auth middleware.
type Principal struct {
	UserID   int64
	Username string
	Role     tableside.Role
}

// TokenManager issues and parses the HS256 bearer tokens the dev backend
// hands to clients. The client side treats them as opaque strings.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager with the given secret and TTL.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

type tokenClaims struct {
	UserID   int64          `json:"uid"`
	Username string         `json:"username"`
	Role     tableside.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for the user.
func (tm *TokenManager) Generate(user *User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Parse validates a token and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

type credentialsRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Role     tableside.Role `json:"role"`
}

func (r credentialsRequest) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 200)),
	)
}

// handleRegister creates an account. POST /auth/register
func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}
	if err := req.validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	role := req.Role
	if role == "" {
		role = tableside.RoleUser
	}
	if !role.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	user := &User{Username: req.Username, PasswordHash: string(hash), Role: role}
	if _, err := s.db.NewInsert().Model(user).Exec(c.Context()); err != nil {
		s.logger.Warn("register failed", zap.String("username", req.Username), zap.Error(err))
		return fiber.NewError(fiber.StatusConflict, "username taken")
	}

	s.logger.Info("account registered", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return c.SendStatus(fiber.StatusOK)
}

// handleLogin verifies credentials and returns the bearer token as a
// JSON-encoded string body. POST /auth/login
func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}

	user := new(User)
	err := s.db.NewSelect().Model(user).Where("username = ?", req.Username).Scan(c.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return err
	}

	s.logger.Info("login", zap.String("username", user.Username))
	return c.JSON(token)
}

// handleValidate exchanges a bearer token for the verified identity.
// GET /auth/validate
func (s *Server) handleValidate(c *fiber.Ctx) error {
	claims, err := s.claimsFromHeader(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	// The account must still exist; a token can outlive its user.
	user := new(User)
	if err := s.db.NewSelect().Model(user).Where("id = ?", claims.UserID).Scan(c.Context()); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
		"valid":    true,
	})
}

func (s *Server) claimsFromHeader(c *fiber.Ctx) (*tokenClaims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("missing bearer token")
	}
	return s.tokens.Parse(parts[1])
}

// requireAuth loads the principal from the bearer token.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	claims, err := s.claimsFromHeader(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	c.Locals(principalKey, &Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	})
	return c.Next()
}

// requireAdmin gates admin-only routes. Runs after requireAuth.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok || !principal.Role.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin role required")
	}
	return c.Next()
}

// requireSelfOrAdmin ensures the :userID route param matches the caller,
// unless the caller is an admin.
func (s *Server) requireSelfOrAdmin(c *fiber.Ctx) error {
	principal, ok := principalFrom(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "bad user id")
	}
	if int64(userID) != principal.UserID && !principal.Role.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "not your resource")
	}
	return c.Next()
}

func principalFrom(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok
}
