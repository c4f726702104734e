package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charcochicken/goVoiceOrder/business/menu"
)

func testOrder(id, customer string, total menu.Price, minutesAgo int) *Order {
	now := time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
	return &Order{
		OrderID:      id,
		CustomerName: customer,
		Items: []LineItem{
			{Item: "كباب", Quantity: 1, UnitPrice: total, TotalPrice: total},
		},
		TotalPrice: total,
		OrderTime:  now,
		ETA:        now.Add(20 * time.Minute),
		ETAMinutes: 20,
		Status:     StatusConfirmed,
	}
}

func TestMemoryRepoAppendAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	order := testOrder("AAAA1111", "أحمد", 2000, 0)
	if err := repo.Append(ctx, order); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.Get(ctx, "AAAA1111")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "أحمد" || got.TotalPrice != 2000 {
		t.Errorf("got = %+v", got)
	}

	// The stored copy is isolated from caller mutations.
	got.Items[0].Quantity = 99
	again, err := repo.Get(ctx, "AAAA1111")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Items[0].Quantity != 1 {
		t.Error("repository order mutated through a returned clone")
	}

	if _, err := repo.Get(ctx, "missing1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	if err := repo.Append(ctx, testOrder("AAAA1111", "أحمد", 2000, 0)); err != nil {
		t.Fatalf("append: %v", err)
	}
	err := repo.Append(ctx, testOrder("AAAA1111", "سامر", 1000, 0))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate append = %v, want ErrDuplicateID", err)
	}
}

func TestMemoryRepoQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	repo.Append(ctx, testOrder("AAAA1111", "أحمد خليل", 2000, 30))
	repo.Append(ctx, testOrder("BBBB2222", "سامر", 1000, 20))
	repo.Append(ctx, testOrder("CCCC3333", "أحمد قدور", 1500, 10))
	repo.UpdateStatus(ctx, "BBBB2222", StatusDelivered)

	tests := []struct {
		name    string
		filter  QueryFilter
		wantIDs []string
	}{
		{name: "allNewestFirst", filter: QueryFilter{}, wantIDs: []string{"CCCC3333", "BBBB2222", "AAAA1111"}},
		{name: "byStatus", filter: QueryFilter{Status: StatusDelivered}, wantIDs: []string{"BBBB2222"}},
		{name: "byCustomerSubstring", filter: QueryFilter{CustomerName: "أحمد"}, wantIDs: []string{"CCCC3333", "AAAA1111"}},
		{name: "limited", filter: QueryFilter{Limit: 2}, wantIDs: []string{"CCCC3333", "BBBB2222"}},
		{name: "noMatch", filter: QueryFilter{CustomerName: "ليلى"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("query = %d orders, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].OrderID != id {
					t.Errorf("result[%d] = %s, want %s", i, got[i].OrderID, id)
				}
			}
		})
	}
}

func TestMemoryRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	repo.Append(ctx, testOrder("AAAA1111", "أحمد", 2000, 0))

	order, err := repo.UpdateStatus(ctx, "AAAA1111", StatusReady)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if order.Status != StatusReady {
		t.Errorf("status = %q, want ready", order.Status)
	}

	if _, err := repo.UpdateStatus(ctx, "AAAA1111", "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("invalid status = %v, want ErrInvalidStatus", err)
	}
	if _, err := repo.UpdateStatus(ctx, "missing1", StatusReady); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing order = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoStats(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	empty, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if empty.TotalOrders != 0 || empty.TotalRevenue != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	repo.Append(ctx, testOrder("AAAA1111", "أحمد", 2000, 0))
	repo.Append(ctx, testOrder("BBBB2222", "سامر", 1001, 0))
	repo.UpdateStatus(ctx, "BBBB2222", StatusDelivered)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", stats.TotalOrders)
	}
	if stats.TotalRevenue != 3001 {
		t.Errorf("revenue = %d, want 3001", stats.TotalRevenue)
	}
	// 3001 / 2 rounds half up to 1501.
	if stats.AverageOrderValue != 1501 {
		t.Errorf("average = %d, want 1501", stats.AverageOrderValue)
	}
	if stats.OrdersByStatus[StatusConfirmed] != 1 || stats.OrdersByStatus[StatusDelivered] != 1 {
		t.Errorf("by status = %v", stats.OrdersByStatus)
	}
	if len(stats.PopularItems) != 1 || stats.PopularItems[0].Item != "كباب" || stats.PopularItems[0].Count != 2 {
		t.Errorf("popular = %v", stats.PopularItems)
	}
}
