package models

import (
	"encoding/json"
	"strings"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"

	// OrderDelivered is a display alias of OrderCompleted.
	OrderDelivered OrderStatus = "Delivered"
)

// AllOrderStatuses lists the values the status dropdown offers.
var AllOrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled}

// ParseOrderStatus normalizes case of a known status. Unknown values are
// returned unchanged.
func ParseOrderStatus(s string) OrderStatus {
	trimmed := strings.TrimSpace(s)
	for _, known := range append(AllOrderStatuses, OrderDelivered) {
		if strings.EqualFold(trimmed, string(known)) {
			return known
		}
	}
	return OrderStatus(trimmed)
}

// Canonical folds Delivered into Completed.
func (s OrderStatus) Canonical() OrderStatus {
	if s == OrderDelivered {
		return OrderCompleted
	}
	return s
}

// Known reports whether s is one of the statuses the backend uses.
func (s OrderStatus) Known() bool {
	c := s.Canonical()
	for _, known := range AllOrderStatuses {
		if c == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	c := s.Canonical()
	return c == OrderCompleted || c == OrderCancelled
}

// Next returns the following status on the fulfilment path.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s.Canonical() {
	case OrderPending:
		return OrderProcessing, true
	case OrderProcessing:
		return OrderShipped, true
	case OrderShipped:
		return OrderCompleted, true
	default:
		return "", false
	}
}

func (s OrderStatus) CanCancel() bool {
	return s.Known() && !s.IsTerminal()
}

func (s OrderStatus) CanComplete() bool {
	return s.Known() && !s.IsTerminal()
}

// BadgeVariant maps a status string to the colour variant of its badge.
func BadgeVariant(status string) string {
	if strings.TrimSpace(status) == "" {
		return "dark"
	}
	switch ParseOrderStatus(status) {
	case OrderCompleted, OrderDelivered:
		return "success"
	case OrderCancelled:
		return "danger"
	case OrderShipped:
		return "info"
	case OrderProcessing:
		return "warning"
	case OrderPending:
		return "secondary"
	default:
		return "light"
	}
}

// OrderItem is a line of an order.
type OrderItem struct {
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

func (i *OrderItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductName string    `json:"product_name"`
		SKU         string    `json:"sku"`
		Quantity    flexInt   `json:"quantity"`
		UnitPrice   flexFloat `json:"unit_price"`
		Subtotal    flexFloat `json:"subtotal"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = OrderItem{
		ProductName: raw.ProductName,
		SKU:         raw.SKU,
		Quantity:    int(raw.Quantity),
		UnitPrice:   float64(raw.UnitPrice),
		Subtotal:    float64(raw.Subtotal),
	}
	if i.Subtotal == 0 && i.Quantity > 0 {
		i.Subtotal = float64(i.Quantity) * i.UnitPrice
	}
	return nil
}

// Order mirrors the backend order record.
type Order struct {
	ID          int64       `json:"id"`
	UserEmail   string      `json:"user_email"`
	OrderDate   string      `json:"order_date"`
	Source      string      `json:"source"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          flexInt     `json:"id"`
		UserEmail   string      `json:"user_email"`
		Email       string      `json:"email"`
		OrderDate   string      `json:"order_date"`
		CreatedAt   string      `json:"created_at"`
		Source      string      `json:"source"`
		TotalAmount flexFloat   `json:"total_amount"`
		Status      string      `json:"status"`
		Items       []OrderItem `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Order{
		ID:          int64(raw.ID),
		UserEmail:   firstNonEmpty(raw.UserEmail, raw.Email),
		OrderDate:   firstNonEmpty(raw.OrderDate, raw.CreatedAt),
		Source:      strings.ToLower(raw.Source),
		TotalAmount: float64(raw.TotalAmount),
		Status:      ParseOrderStatus(raw.Status),
		Items:       raw.Items,
	}
	return nil
}
