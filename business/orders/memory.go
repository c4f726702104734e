package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

// MemoryRepo is the in-process Repo used by the service and by tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	orders []*Order
	byID   map[string]*Order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]*Order),
	}
}

func (r *MemoryRepo) Append(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[order.OrderID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, order.OrderID)
	}

	stored := cloneOrder(order)
	r.orders = append(r.orders, stored)
	r.byID[stored.OrderID] = stored

	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, orderID string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.byID[orderID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}

	return cloneOrder(order), nil
}

func (r *MemoryRepo) Query(ctx context.Context, filter QueryFilter) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Order
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.CustomerName != "" &&
			!strings.Contains(strings.ToLower(order.CustomerName), strings.ToLower(filter.CustomerName)) {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}

	// Newest first.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].OrderTime.After(matched[j].OrderTime)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, orderID string, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.byID[orderID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}

	order.Status = status

	return cloneOrder(order), nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		OrdersByStatus: make(map[string]int),
		PopularItems:   []ItemCount{},
	}

	stats.TotalOrders = len(r.orders)
	if stats.TotalOrders == 0 {
		return stats, nil
	}

	itemCounts := make(map[string]int)
	for _, order := range r.orders {
		stats.TotalRevenue += order.TotalPrice
		stats.OrdersByStatus[order.Status]++
		for _, line := range order.Items {
			itemCounts[line.Item] += line.Quantity
		}
	}

	// Round half up on the average.
	n := menu.Price(stats.TotalOrders)
	stats.AverageOrderValue = (stats.TotalRevenue + n/2) / n

	for item, count := range itemCounts {
		stats.PopularItems = append(stats.PopularItems, ItemCount{Item: item, Count: count})
	}
	sort.Slice(stats.PopularItems, func(i, j int) bool {
		if stats.PopularItems[i].Count != stats.PopularItems[j].Count {
			return stats.PopularItems[i].Count > stats.PopularItems[j].Count
		}
		return stats.PopularItems[i].Item < stats.PopularItems[j].Item
	})
	if len(stats.PopularItems) > 5 {
		stats.PopularItems = stats.PopularItems[:5]
	}

	return stats, nil
}

func cloneOrder(order *Order) *Order {
	clone := *order
	clone.Items = make([]LineItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}

var _ Repo = (*MemoryRepo)(nil)
