package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

// Delivery statuses an order moves through after confirmation. The order
// contents are frozen at finalization; only Status advances.
const (
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type LineItem struct {
	Item       string     `json:"item"`
	Quantity   int        `json:"quantity"`
	UnitPrice  menu.Price `json:"unit_price"`
	TotalPrice menu.Price `json:"total_price"`
}

// Order is the immutable confirmed-order snapshot. Everything except
// Status is fixed at the moment of finalization.
type Order struct {
	OrderID      string     `json:"order_id"`
	CustomerName string     `json:"customer_name"`
	Items        []LineItem `json:"order_items"`
	TotalPrice   menu.Price `json:"total_price"`
	OrderTime    time.Time  `json:"order_time"`
	ETA          time.Time  `json:"eta"`
	ETAMinutes   int        `json:"eta_minutes"`
	Status       string     `json:"status"`
	Compensation bool       `json:"compensation,omitempty"`
}

const orderIDLength = 8

// NewOrderID returns an 8-character uppercase identifier. The hex
// alphabet gives 16^8 combinations, collision-resistant for the expected
// order volume; the repository still rejects duplicates on append.
func NewOrderID() string {
	return strings.ToUpper(uuid.NewString()[:orderIDLength])
}
