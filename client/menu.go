package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
)

// MenuItem is a dish on the restaurant's menu.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

// NewMenuItem is the admin payload for adding a dish. The image is optional.
type NewMenuItem struct {
	Name        string
	Price       float64
	Description string
	ImageName   string
	Image       []byte
}

// Validate enforces the add-item form contract.
func (m NewMenuItem) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&m.Description, validation.Length(0, 2000)),
	)
}

// Menu fetches the full menu.
func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/menu/all", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MenuItemByID fetches a single dish.
func (c *Client) MenuItemByID(ctx context.Context, id int64) (MenuItem, error) {
	var item MenuItem
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/menu/%d", id), nil, &item); err != nil {
		return MenuItem{}, err
	}
	return item, nil
}

// AddMenuItem uploads a new dish as a multipart form (admin only).
func (c *Client) AddMenuItem(ctx context.Context, item NewMenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("name", item.Name); err != nil {
		return err
	}
	if err := form.WriteField("price", strconv.FormatFloat(item.Price, 'f', 2, 64)); err != nil {
		return err
	}
	if err := form.WriteField("description", item.Description); err != nil {
		return err
	}
	if len(item.Image) > 0 {
		name := item.ImageName
		if name == "" {
			name = "image"
		}
		part, err := form.CreateFormFile("image", name)
		if err != nil {
			return err
		}
		if _, err := part.Write(item.Image); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/menu/add", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkStatus(res)
}

// DeleteMenuItem removes a dish (admin only).
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/menu/delete/%d", id), nil, nil)
}
