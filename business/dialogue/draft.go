package dialogue

import (
	"github.com/charcochicken/goVoiceOrder/business/menu"
)

// Draft is the mutable in-progress order owned by one session. Line item
// quantities accumulate additively across turns; the customer name is
// first-wins.
type Draft struct {
	lineItems    map[string]int // canonical menu name -> accumulated quantity
	customerName string
	compensation bool

	// pendingQty holds items mentioned with a single ambiguous quantity,
	// awaiting the customer's per-item answer. Their provisional quantity
	// is 1 until resolved.
	pendingQty []string
}

func NewDraft() *Draft {
	return &Draft{
		lineItems: make(map[string]int),
	}
}

// MergeResult reports what one turn's entities did to the draft.
type MergeResult struct {
	Added      map[string]int
	Unresolved []string

	// NeedsQuantity is set when a single quantity above one was paired
	// with several items, the only shape whose price is ambiguous.
	NeedsQuantity bool
}

// Merge folds a turn's food items and quantities into the draft per the
// accumulator rules: positional pairing when counts match, default
// quantity 1 otherwise, additive on re-mention, unresolved names
// rejected before any mutation of their line.
func (d *Draft) Merge(catalog *menu.Catalog, foodItems []string, quantities []int) MergeResult {
	result := MergeResult{Added: make(map[string]int)}

	type resolved struct {
		name string
		idx  int
	}
	var matched []resolved

	for i, raw := range foodItems {
		item, err := catalog.Resolve(raw)
		if err != nil {
			result.Unresolved = append(result.Unresolved, raw)
			continue
		}
		matched = append(matched, resolved{name: item.Name, idx: i})
	}

	countsAlign := len(quantities) == len(foodItems) && len(foodItems) > 0
	singleQty := len(quantities) == 1 && len(matched) == 1 && !countsAlign

	for _, m := range matched {
		quantity := 1
		switch {
		case countsAlign:
			quantity = quantities[m.idx]
		case singleQty:
			quantity = quantities[0]
		}
		if quantity < 1 {
			quantity = 1
		}

		d.lineItems[m.name] += quantity
		result.Added[m.name] += quantity
	}

	if len(quantities) == 1 && quantities[0] > 1 && len(matched) > 1 && !countsAlign {
		result.NeedsQuantity = true
		for _, m := range matched {
			d.pendingQty = append(d.pendingQty, m.name)
		}
	}

	return result
}

// ApplyQuantities interprets a turn as the answer to a pending quantity
// clarification. The answer may restate items with per-item counts, give
// bare counts positionally, or give one count for everything pending.
// It reports whether the turn was consumed as such an answer; a turn
// that is no quantity answer at all (new items, mismatched counts) is
// left untouched for the regular merge path. Resolved answers replace
// the provisional 1, they do not add to it.
func (d *Draft) ApplyQuantities(catalog *menu.Catalog, foodItems []string, quantities []int) bool {
	if len(d.pendingQty) == 0 {
		return true
	}

	switch {
	case len(foodItems) > 0 && len(foodItems) == len(quantities):
		for i, raw := range foodItems {
			item, err := catalog.Resolve(raw)
			if err != nil {
				continue
			}
			quantity := quantities[i]
			if quantity < 1 {
				quantity = 1
			}
			if d.removePending(item.Name) {
				d.lineItems[item.Name] = quantity
			} else {
				d.lineItems[item.Name] += quantity
			}
		}
		return true

	case len(foodItems) == 0 && len(quantities) == len(d.pendingQty):
		for i, name := range d.pendingQty {
			quantity := quantities[i]
			if quantity < 1 {
				quantity = 1
			}
			d.lineItems[name] = quantity
		}
		d.pendingQty = nil
		return true

	case len(foodItems) == 0 && len(quantities) == 1:
		quantity := quantities[0]
		if quantity < 1 {
			quantity = 1
		}
		for _, name := range d.pendingQty {
			d.lineItems[name] = quantity
		}
		d.pendingQty = nil
		return true
	}

	return false
}

func (d *Draft) removePending(name string) bool {
	for i, pending := range d.pendingQty {
		if pending == name {
			d.pendingQty = append(d.pendingQty[:i], d.pendingQty[i+1:]...)
			return true
		}
	}
	return false
}

// SetName records the customer name. The first non-empty name wins;
// later turns never overwrite it.
func (d *Draft) SetName(name string) bool {
	if d.customerName != "" || name == "" {
		return false
	}
	d.customerName = name
	return true
}

// AddItem seeds a line directly, bypassing extraction. Used by the
// complaint flow for complimentary items.
func (d *Draft) AddItem(canonicalName string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	d.lineItems[canonicalName] += quantity
}

func (d *Draft) SetCompensation() {
	d.compensation = true
}

func (d *Draft) Compensation() bool {
	return d.compensation
}

func (d *Draft) CustomerName() string {
	return d.customerName
}

func (d *Draft) Empty() bool {
	return len(d.lineItems) == 0
}

func (d *Draft) PendingQuantities() []string {
	pending := make([]string, len(d.pendingQty))
	copy(pending, d.pendingQty)
	return pending
}

// LineItems returns a copy of the accumulated lines.
func (d *Draft) LineItems() map[string]int {
	items := make(map[string]int, len(d.lineItems))
	for name, quantity := range d.lineItems {
		items[name] = quantity
	}
	return items
}

// Complete reports whether every required slot is filled: at least one
// line item, no pending quantity ambiguity, and a customer name.
func (d *Draft) Complete() bool {
	return len(d.lineItems) > 0 && len(d.pendingQty) == 0 && d.customerName != ""
}
