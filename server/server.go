// Package server implements the restaurant backend the tableside client
// talks to: accounts and bearer tokens, the menu, per-user carts, orders,
// payments and saved profiles, all backed by SQLite.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	"github.com/gildedspoon/tableside/config"
)

// Server is the development backend.
type Server struct {
	cfg    *config.Server
	db     *bun.DB
	app    *fiber.App
	tokens *TokenManager
	logger *zap.Logger
}

// New opens the database, creates the schema and wires every route.
func New(cfg *config.Server, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		db:     bun.NewDB(sqldb, sqlitedialect.New()),
		tokens: NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		logger: logger,
	}

	if err := s.createTables(context.Background()); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "tableside-server",
		ErrorHandler: s.errorHandler,
	})
	s.routes()

	if cfg.Seed {
		if err := s.seed(context.Background()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Server) createTables(ctx context.Context) error {
	models := []any{
		(*User)(nil),
		(*MenuItem)(nil),
		(*CartItem)(nil),
		(*Order)(nil),
		(*OrderItem)(nil),
		(*Payment)(nil),
		(*Profile)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (s *Server) routes() {
	auth := s.app.Group("/auth")
	auth.Post("/register", s.handleRegister)
	auth.Post("/login", s.handleLogin)
	auth.Get("/validate", s.handleValidate)

	menu := s.app.Group("/menu")
	menu.Get("/all", s.handleMenuAll)
	menu.Get("/:id", s.handleMenuByID)
	menu.Post("/add", s.requireAuth, s.requireAdmin, s.handleMenuAdd)
	menu.Delete("/delete/:id", s.requireAuth, s.requireAdmin, s.handleMenuDelete)

	order := s.app.Group("/order", s.requireAuth)
	order.Get("/all", s.requireAdmin, s.handleOrdersAll)
	order.Get("/cart/:userID", s.requireSelfOrAdmin, s.handleCartGet)
	order.Post("/cart/:userID/add", s.requireSelfOrAdmin, s.handleCartAdd)
	order.Delete("/cart/:userID/remove/:menuItemID", s.requireSelfOrAdmin, s.handleCartRemove)
	order.Post("/checkout/:userID", s.requireSelfOrAdmin, s.handleCheckout)
	order.Get("/user/:userID", s.requireSelfOrAdmin, s.handleOrdersByUser)

	payment := s.app.Group("/payment", s.requireAuth)
	payment.Post("/pay/:userID", s.requireSelfOrAdmin, s.handlePay)

	details := s.app.Group("/details", s.requireAuth)
	details.Get("/fetch/:userID", s.requireSelfOrAdmin, s.handleProfileFetch)
	details.Post("/add/:userID", s.requireSelfOrAdmin, s.handleProfileSave)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.logger.Info("listening", zap.String("addr", s.cfg.Addr()))
	return s.app.Listen(s.cfg.Addr())
}

// Serve accepts connections from an existing listener. Tests use this
// with an ephemeral port.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown drains in-flight requests and closes the database.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	return err
}
