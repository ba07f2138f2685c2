package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/gildedspoon/tableside/client"
)

// handleCartGet returns the user's open cart. GET /order/cart/:userID
func (s *Server) handleCartGet(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var items []*CartItem
	if err := s.db.NewSelect().Model(&items).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(c.Context()); err != nil {
		return err
	}
	if items == nil {
		items = []*CartItem{}
	}
	return c.JSON(fiber.Map{"items": items})
}

type cartAddRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

// handleCartAdd adds a dish to the cart, merging quantity with an
// existing line for the same dish. POST /order/cart/:userID/add
func (s *Server) handleCartAdd(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	exists, err := s.db.NewSelect().Model((*MenuItem)(nil)).
		Where("id = ?", req.MenuItemID).
		Exists(c.Context())
	if err != nil {
		return err
	}
	if !exists {
		return fiber.NewError(fiber.StatusNotFound, "menu item not found")
	}

	line := new(CartItem)
	err = s.db.NewSelect().Model(line).
		Where("user_id = ? AND menu_item_id = ?", userID, req.MenuItemID).
		Scan(c.Context())
	switch {
	case err == nil:
		line.Quantity += req.Quantity
		if _, err := s.db.NewUpdate().Model(line).WherePK().Exec(c.Context()); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		line = &CartItem{UserID: int64(userID), MenuItemID: req.MenuItemID, Quantity: req.Quantity}
		if _, err := s.db.NewInsert().Model(line).Exec(c.Context()); err != nil {
			return err
		}
	default:
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

// handleCartRemove drops a dish from the cart entirely.
// DELETE /order/cart/:userID/remove/:menuItemID
func (s *Server) handleCartRemove(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")
	menuItemID, err := c.ParamsInt("menuItemID")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "bad menu item id")
	}

	res, err := s.db.NewDelete().Model((*CartItem)(nil)).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Exec(c.Context())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "not in cart")
	}
	return c.SendStatus(fiber.StatusOK)
}

// handleCheckout freezes the cart into a PENDING order priced at the
// cart subtotal plus the delivery fee. POST /order/checkout/:userID
func (s *Server) handleCheckout(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var lines []*CartItem
	if err := s.db.NewSelect().Model(&lines).
		Where("user_id = ?", userID).
		Scan(c.Context()); err != nil {
		return err
	}
	if len(lines) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	var subtotal float64
	for _, line := range lines {
		item := new(MenuItem)
		if err := s.db.NewSelect().Model(item).
			Where("id = ?", line.MenuItemID).
			Scan(c.Context()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return err
		}
		subtotal += item.Price * float64(line.Quantity)
	}

	order := &Order{
		UserID:      int64(userID),
		TotalAmount: subtotal + client.DeliveryFee,
		Status:      OrderStatusPending,
	}

	err := s.db.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		for _, line := range lines {
			item := &OrderItem{OrderID: order.ID, MenuItemID: line.MenuItemID, Quantity: line.Quantity}
			if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
				return err
			}
		}
		_, err := tx.NewDelete().Model((*CartItem)(nil)).Where("user_id = ?", userID).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("order placed",
		zap.Int64("order", order.ID),
		zap.Int("user", userID),
		zap.Float64("total", order.TotalAmount),
	)
	return c.JSON(fiber.Map{"id": order.ID, "totalAmount": order.TotalAmount})
}

// handleOrdersByUser lists the user's orders, newest first.
// GET /order/user/:userID
func (s *Server) handleOrdersByUser(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var orders []*Order
	if err := s.db.NewSelect().Model(&orders).
		Relation("Items").
		Where("ord.user_id = ?", userID).
		Order("ord.id DESC").
		Scan(c.Context()); err != nil {
		return err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return c.JSON(orders)
}

// handleOrdersAll lists every order. GET /order/all, admin only.
func (s *Server) handleOrdersAll(c *fiber.Ctx) error {
	var orders []*Order
	if err := s.db.NewSelect().Model(&orders).
		Relation("Items").
		Order("ord.id DESC").
		Scan(c.Context()); err != nil {
		return err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return c.JSON(orders)
}
