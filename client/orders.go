package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Order is a placed order as returned by the backend.
type Order struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DetailedOrder carries the order with menu-enriched lines.
type DetailedOrder struct {
	Order
	Lines []CartLine
}

// CheckoutResult identifies the order produced from the cart, which the
// payment step settles.
type CheckoutResult struct {
	OrderID     int64   `json:"id"`
	TotalAmount float64 `json:"totalAmount"`
}

// Checkout converts the user's cart into a pending order.
func (c *Client) Checkout(ctx context.Context, userID int64) (CheckoutResult, error) {
	var result CheckoutResult
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/order/checkout/%d", userID), nil, &result); err != nil {
		return CheckoutResult{}, err
	}
	return result, nil
}

// Orders fetches the user's order history.
func (c *Client) Orders(ctx context.Context, userID int64) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/order/user/%d", userID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders fetches every order in the system (admin only).
func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.doJSON(ctx, http.MethodGet, "/order/all", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// DetailedOrders fetches the user's history and enriches every order's
// lines with menu details, concurrently per order.
func (c *Client) DetailedOrders(ctx context.Context, userID int64) ([]DetailedOrder, error) {
	orders, err := c.Orders(ctx, userID)
	if err != nil {
		return nil, err
	}

	detailed := make([]DetailedOrder, len(orders))
	for i, order := range orders {
		detailed[i] = DetailedOrder{
			Order: order,
			Lines: c.enrich(ctx, order.Items),
		}
	}
	return detailed, nil
}
