package server

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleMenuAll lists every dish. GET /menu/all
func (s *Server) handleMenuAll(c *fiber.Ctx) error {
	var items []*MenuItem
	if err := s.db.NewSelect().Model(&items).Order("id ASC").Scan(c.Context()); err != nil {
		return err
	}
	if items == nil {
		items = []*MenuItem{}
	}
	return c.JSON(items)
}

// handleMenuByID fetches one dish. GET /menu/:id
func (s *Server) handleMenuByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "bad menu item id")
	}

	item := new(MenuItem)
	if err := s.db.NewSelect().Model(item).Where("id = ?", id).Scan(c.Context()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}
	return c.JSON(item)
}

// handleMenuAdd creates a dish from a multipart form, optionally storing
// an uploaded image. POST /menu/add, admin only.
func (s *Server) handleMenuAdd(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must be a positive number")
	}

	item := &MenuItem{
		Name:        name,
		Price:       price,
		Description: c.FormValue("description"),
	}

	if file, err := c.FormFile("image"); err == nil {
		filename := uuid.NewString() + filepath.Ext(file.Filename)
		dest := filepath.Join(s.cfg.UploadDir, filename)
		if err := c.SaveFile(file, dest); err != nil {
			return fmt.Errorf("store image: %w", err)
		}
		item.ImageURL = "/uploads/" + filename
	}

	if _, err := s.db.NewInsert().Model(item).Exec(c.Context()); err != nil {
		return err
	}

	s.logger.Info("menu item added", zap.Int64("id", item.ID), zap.String("name", item.Name))
	return c.JSON(item)
}

// handleMenuDelete removes a dish. DELETE /menu/delete/:id, admin only.
func (s *Server) handleMenuDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "bad menu item id")
	}

	res, err := s.db.NewDelete().Model((*MenuItem)(nil)).Where("id = ?", id).Exec(c.Context())
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "menu item not found")
	}

	s.logger.Info("menu item deleted", zap.Int("id", id))
	return c.SendStatus(fiber.StatusOK)
}
