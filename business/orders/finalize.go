package orders

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

// ErrPricing reports a line item that no longer resolves against the
// catalog at finalization time. The accumulator rejects unresolved items
// before they reach a draft, so hitting this is an internal-consistency
// fault: the turn fails closed and no order is emitted.
var ErrPricing = errors.New("orders: line item failed pricing")

// Finalize freezes a completed draft into an immutable Order: re-prices
// every line item from the catalog, generates the order id and draws the
// delivery estimate.
func Finalize(customerName string, lineItems map[string]int, catalog *menu.Catalog, eta *ETAPolicy, compensation bool) (*Order, error) {
	names := make([]string, 0, len(lineItems))
	for name := range lineItems {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]LineItem, 0, len(names))
	var total menu.Price

	for _, name := range names {
		quantity := lineItems[name]
		if quantity < 1 {
			return nil, fmt.Errorf("%w: %q has quantity %d", ErrPricing, name, quantity)
		}

		menuItem, err := catalog.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrPricing, name)
		}

		lineTotal := menuItem.Price * menu.Price(quantity)
		total += lineTotal

		items = append(items, LineItem{
			Item:       menuItem.Name,
			Quantity:   quantity,
			UnitPrice:  menuItem.Price,
			TotalPrice: lineTotal,
		})
	}

	now := time.Now()
	etaMinutes := eta.Draw(compensation)

	return &Order{
		OrderID:      NewOrderID(),
		CustomerName: customerName,
		Items:        items,
		TotalPrice:   total,
		OrderTime:    now,
		ETA:          now.Add(time.Duration(etaMinutes) * time.Minute),
		ETAMinutes:   etaMinutes,
		Status:       StatusConfirmed,
		Compensation: compensation,
	}, nil
}
