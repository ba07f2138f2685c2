package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Cart math constants, shared with the checkout summary the backend shows.
const (
	// DeliveryFee is the flat per-order delivery charge.
	DeliveryFee = 40.0
	// TaxRate is applied to the subtotal on the summary line.
	TaxRate = 0.05
)

// CartItem is one line in the user's cart as the backend stores it: a menu
// item reference and a quantity, no pricing.
type CartItem struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

// CartLine is a cart item enriched with menu details for display.
type CartLine struct {
	CartItem
	Name     string
	Price    float64
	ImageURL string
}

// Total is the line total.
func (l CartLine) Total() float64 {
	return l.Price * float64(l.Quantity)
}

// CartSummary is the priced breakdown of a cart.
type CartSummary struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	GrandTotal  float64
}

// Summarize prices a set of cart lines: subtotal plus the flat delivery
// fee, with the tax shown as its own line.
func Summarize(lines []CartLine) CartSummary {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Total()
	}
	return CartSummary{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         subtotal * TaxRate,
		GrandTotal:  subtotal + DeliveryFee,
	}
}

type addToCartRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

// Cart fetches the raw cart for a user. The backend has served both a bare
// item array and an object wrapping one; both shapes are accepted.
func (c *Client) Cart(ctx context.Context, userID int64) ([]CartItem, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/order/cart/%d", userID), nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Items []CartItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}

	var items []CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unexpected cart payload: %w", err)
	}
	return items, nil
}

// AddToCart puts one unit of a menu item into the user's cart.
func (c *Client) AddToCart(ctx context.Context, userID, menuItemID int64, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/order/cart/%d/add", userID), addToCartRequest{
		MenuItemID: menuItemID,
		Quantity:   quantity,
	}, nil)
}

// RemoveFromCart deletes a menu item's line from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, userID, menuItemID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/order/cart/%d/remove/%d", userID, menuItemID), nil, nil)
}

// DetailedCart fetches the cart and enriches every line with its menu
// details, issuing the per-item lookups concurrently. A line whose lookup
// fails keeps a zero price and a placeholder name rather than sinking the
// whole cart.
func (c *Client) DetailedCart(ctx context.Context, userID int64) ([]CartLine, error) {
	items, err := c.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.enrich(ctx, items), nil
}

func (c *Client) enrich(ctx context.Context, items []CartItem) []CartLine {
	lines := make([]CartLine, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		lines[i] = CartLine{CartItem: item, Name: "Item Not Found"}
		if item.MenuItemID == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, item CartItem) {
			defer wg.Done()
			detail, err := c.MenuItemByID(ctx, item.MenuItemID)
			if err != nil {
				c.logger.Debug("menu lookup failed for item %d: %v", item.MenuItemID, err)
				return
			}
			lines[i].Name = detail.Name
			lines[i].Price = detail.Price
			lines[i].ImageURL = detail.ImageURL
		}(i, item)
	}
	wg.Wait()

	return lines
}
