package server

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gildedspoon/tableside/client"
)

// handlePay settles a PENDING order owned by the user. Card numbers are
// never stored, only the last four digits. POST /payment/pay/:userID
func (s *Server) handlePay(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var req client.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	order := new(Order)
	err := s.db.NewSelect().Model(order).
		Where("id = ? AND user_id = ?", req.OrderID, userID).
		Scan(c.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}
	if order.Status != OrderStatusPending {
		return fiber.NewError(fiber.StatusConflict, "order already settled")
	}

	payment := &Payment{
		ID:             uuid.NewString(),
		OrderID:        order.ID,
		UserID:         order.UserID,
		Amount:         order.TotalAmount,
		CardLast4:      req.CardNumber[len(req.CardNumber)-4:],
		BillingAddress: req.BillingAddress,
	}

	if _, err := s.db.NewInsert().Model(payment).Exec(c.Context()); err != nil {
		return err
	}

	order.Status = OrderStatusPaid
	if _, err := s.db.NewUpdate().Model(order).Column("status").WherePK().Exec(c.Context()); err != nil {
		return err
	}

	s.logger.Info("payment accepted",
		zap.String("payment", payment.ID),
		zap.Int64("order", order.ID),
		zap.Float64("amount", payment.Amount),
	)
	return c.JSON(payment)
}
