// Package orders records checkouts and lets a shopper review past orders.
package orders

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates an order that does not exist for the session.
	ErrNotFound = errors.New("orders: order not found")
	// ErrEmptyCart indicates a checkout on an empty cart.
	ErrEmptyCart = errors.New("orders: cart is empty")
	// ErrDuplicateCheckout indicates a checkout request already processed.
	ErrDuplicateCheckout = errors.New("orders: checkout already processed")
)

// OrderStatus tracks an order through its manual-payment lifecycle.
type OrderStatus string

const (
	// StatusPending means payment has not been confirmed yet.
	StatusPending OrderStatus = "PENDING"
	// StatusConfirmed means payment was verified by an operator.
	StatusConfirmed OrderStatus = "CONFIRMED"
	// StatusCancelled means the order was abandoned or rejected.
	StatusCancelled OrderStatus = "CANCELLED"
)

// CustomerInfo is the delivery and contact form filled at checkout.
type CustomerInfo struct {
	Cedula    string `json:"cedula" validate:"required,min=5,max=20"`
	Nombres   string `json:"nombres" validate:"required,max=200"`
	Direccion string `json:"direccion" validate:"required,max=300"`
	Provincia string `json:"provincia" validate:"required,max=100"`
	Ciudad    string `json:"ciudad" validate:"required,max=100"`
	Whatsapp  string `json:"whatsapp" validate:"required,max=30"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

// OrderLine is one purchased product, frozen at checkout time.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Order is a recorded checkout.
type Order struct {
	ID        uuid.UUID    `json:"id"`
	Code      string       `json:"code"`
	SessionID string       `json:"-"`
	Customer  CustomerInfo `json:"customer_info"`
	Lines     []OrderLine  `json:"items"`
	Subtotal  float64      `json:"subtotal"`
	Shipping  float64      `json:"shipping"`
	Total     float64      `json:"total"`
	Status    OrderStatus  `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// CheckoutRequest is the payload the PWA posts at checkout. Subtotal and
// total arrive client-computed and are persisted verbatim. RequestID is an
// optional client-generated token guarding against double submission.
type CheckoutRequest struct {
	Customer  CustomerInfo `json:"customer_info" validate:"required"`
	Subtotal  float64      `json:"subtotal" validate:"gte=0"`
	Total     float64      `json:"total" validate:"gte=0"`
	RequestID string       `json:"request_id,omitempty" validate:"omitempty,max=64"`
}
