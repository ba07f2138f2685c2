package server

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/gildedspoon/tableside"
)

// User is an account that can log into the ordering client.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	Username      string         `bun:"username,notnull,unique" json:"username"`
	PasswordHash  string         `bun:"password_hash,notnull" json:"-"`
	Role          tableside.Role `bun:"role,notnull" json:"role"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
}

// MenuItem is a dish on the menu.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mnu"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Price         float64   `bun:"price,notnull" json:"price"`
	Description   string    `bun:"description" json:"description"`
	ImageURL      string    `bun:"image_url" json:"imageUrl"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"-"`
}

// CartItem is one line of a user's open cart.
type CartItem struct {
	bun.BaseModel `bun:"table:cart_items,alias:crt"`
	ID            int64 `bun:"id,pk,autoincrement" json:"-"`
	UserID        int64 `bun:"user_id,notnull" json:"-"`
	MenuItemID    int64 `bun:"menu_item_id,notnull" json:"menuItemId"`
	Quantity      int   `bun:"quantity,notnull" json:"quantity"`
}

// Order statuses.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
)

// Order is a checked-out cart awaiting (or past) payment.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:ord"`
	ID            int64        `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64        `bun:"user_id,notnull" json:"userId"`
	TotalAmount   float64      `bun:"total_amount,notnull" json:"totalAmount"`
	Status        string       `bun:"status,notnull" json:"status"`
	CreatedAt     time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	Items         []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"items"`
}

// OrderItem is a frozen cart line inside an order.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:ori"`
	ID            int64 `bun:"id,pk,autoincrement" json:"-"`
	OrderID       int64 `bun:"order_id,notnull" json:"-"`
	MenuItemID    int64 `bun:"menu_item_id,notnull" json:"menuItemId"`
	Quantity      int   `bun:"quantity,notnull" json:"quantity"`
}

// Payment records a settled order.
type Payment struct {
	bun.BaseModel  `bun:"table:payments,alias:pay"`
	ID             string    `bun:"id,pk" json:"id"`
	OrderID        int64     `bun:"order_id,notnull" json:"orderId"`
	UserID         int64     `bun:"user_id,notnull" json:"userId"`
	Amount         float64   `bun:"amount,notnull" json:"amount"`
	CardLast4      string    `bun:"card_last4" json:"cardLast4"`
	BillingAddress string    `bun:"billing_address" json:"billingAddress"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
}

// Profile holds a user's saved account and delivery details.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:prf"`
	UserID        int64  `bun:"user_id,pk" json:"-"`
	Name          string `bun:"name" json:"name"`
	Email         string `bun:"email" json:"email"`
	Phone         string `bun:"phone" json:"phone"`
	Street        string `bun:"street" json:"-"`
	City          string `bun:"city" json:"-"`
	Pincode       string `bun:"pincode" json:"-"`
}

// profilePayload is the wire shape with the nested address block.
type profilePayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address struct {
		Street  string `json:"street"`
		City    string `json:"city"`
		Pincode string `json:"pincode"`
	} `json:"address"`
}

func (p Profile) payload() profilePayload {
	var out profilePayload
	out.Name = p.Name
	out.Email = p.Email
	out.Phone = p.Phone
	out.Address.Street = p.Street
	out.Address.City = p.City
	out.Address.Pincode = p.Pincode
	return out
}
