package server

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gildedspoon/tableside/client"
)

// handleProfileFetch returns the user's saved details, 404 when the
// profile has never been saved. GET /details/fetch/:userID
func (s *Server) handleProfileFetch(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	profile := new(Profile)
	err := s.db.NewSelect().Model(profile).Where("user_id = ?", userID).Scan(c.Context())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "no profile on file")
		}
		return err
	}
	return c.JSON(profile.payload())
}

// handleProfileSave upserts the user's details. POST /details/add/:userID
func (s *Server) handleProfileSave(c *fiber.Ctx) error {
	userID, _ := c.ParamsInt("userID")

	var req client.Profile
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed payload")
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile := &Profile{
		UserID:  int64(userID),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Street:  req.Address.Street,
		City:    req.Address.City,
		Pincode: req.Address.Pincode,
	}

	_, err := s.db.NewInsert().Model(profile).
		On("CONFLICT (user_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("email = EXCLUDED.email").
		Set("phone = EXCLUDED.phone").
		Set("street = EXCLUDED.street").
		Set("city = EXCLUDED.city").
		Set("pincode = EXCLUDED.pincode").
		Exec(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(profile.payload())
}
