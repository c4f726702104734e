package orders

import (
	"testing"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

func TestNewOrderID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := NewOrderID()
		if len(id) != 8 {
			t.Fatalf("id %q has length %d, want 8", id, len(id))
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
				t.Fatalf("id %q contains %q, want uppercase hex", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q in 100 draws", id)
		}
		seen[id] = true
	}
}

func TestETAPolicyDraw(t *testing.T) {
	policy := NewSeededETAPolicy(15, 45, 42)

	for i := 0; i < 200; i++ {
		eta := policy.Draw(false)
		if eta < 15 || eta > 30 {
			t.Fatalf("normal draw = %d, want within [15,30]", eta)
		}
	}
	for i := 0; i < 200; i++ {
		eta := policy.Draw(true)
		if eta < 30 || eta > 45 {
			t.Fatalf("backlogged draw = %d, want within [30,45]", eta)
		}
	}
}

func TestETAPolicyDeterministicWhenSeeded(t *testing.T) {
	a := NewSeededETAPolicy(15, 45, 7)
	b := NewSeededETAPolicy(15, 45, 7)

	for i := 0; i < 20; i++ {
		if got, want := a.Draw(false), b.Draw(false); got != want {
			t.Fatalf("draw %d diverged: %d vs %d", i, got, want)
		}
	}
}

func TestETAPolicyClampsBounds(t *testing.T) {
	policy := NewSeededETAPolicy(0, -5, 1)

	if policy.MinMinutes != 1 || policy.MaxMinutes != 1 {
		t.Fatalf("bounds = [%d,%d], want [1,1]", policy.MinMinutes, policy.MaxMinutes)
	}
	if eta := policy.Draw(false); eta != 1 {
		t.Errorf("draw = %d, want 1", eta)
	}
}

func TestFinalize(t *testing.T) {
	catalog := menu.Default()
	eta := NewSeededETAPolicy(15, 45, 1)

	order, err := Finalize("أحمد", map[string]int{"شاورما دجاج": 2, "حمص": 1}, catalog, eta, false)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if order.CustomerName != "أحمد" {
		t.Errorf("customer = %q, want أحمد", order.CustomerName)
	}
	if order.TotalPrice != 3800 {
		t.Errorf("total = %d, want 3800", order.TotalPrice)
	}
	if order.Status != StatusConfirmed {
		t.Errorf("status = %q, want confirmed", order.Status)
	}
	if order.ETAMinutes < 15 || order.ETAMinutes > 45 {
		t.Errorf("eta = %d, want within [15,45]", order.ETAMinutes)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d lines, want 2", len(order.Items))
	}

	// Lines are sorted by item name for deterministic rendering.
	if order.Items[0].Item != "حمص" || order.Items[1].Item != "شاورما دجاج" {
		t.Errorf("line order = %q, %q", order.Items[0].Item, order.Items[1].Item)
	}
	if order.Items[1].Quantity != 2 || order.Items[1].TotalPrice != 3000 {
		t.Errorf("line = %+v, want quantity 2 total 3000", order.Items[1])
	}
}

func TestFinalizeRejectsBadLines(t *testing.T) {
	catalog := menu.Default()
	eta := NewSeededETAPolicy(15, 45, 1)

	tests := []struct {
		name  string
		items map[string]int
	}{
		{name: "unknownItem", items: map[string]int{"بيتزا": 1}},
		{name: "zeroQuantity", items: map[string]int{"حمص": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Finalize("أحمد", tt.items, catalog, eta, false); err == nil {
				t.Fatal("Finalize succeeded, want pricing error")
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false", status)
		}
	}
	if ValidStatus("shipped") {
		t.Error("ValidStatus(shipped) = true")
	}
}
