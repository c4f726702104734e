package orders

import (
	"context"
	"errors"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

var (
	// ErrDuplicateID reports an append with an order id already stored.
	// The finalizer recovers by adopting the stored order, keeping
	// retried appends idempotent.
	ErrDuplicateID = errors.New("orders: duplicate order id")

	ErrNotFound      = errors.New("orders: order not found")
	ErrInvalidStatus = errors.New("orders: invalid status")
)

// QueryFilter narrows a repository query. Zero values match everything.
type QueryFilter struct {
	Status       string
	CustomerName string
	Limit        int
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalOrders       int            `json:"total_orders"`
	TotalRevenue      menu.Price     `json:"total_revenue"`
	AverageOrderValue menu.Price     `json:"average_order_value"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	PopularItems      []ItemCount    `json:"popular_items"`
}

// Repo is the order repository contract. Storage technology is an
// external collaborator's concern; the core only assumes append and
// query semantics.
type Repo interface {
	Append(ctx context.Context, order *Order) error
	Get(ctx context.Context, orderID string) (*Order, error)
	Query(ctx context.Context, filter QueryFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (*Order, error)
	Stats(ctx context.Context) (Stats, error)
}
