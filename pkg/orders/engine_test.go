package orders

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/example/byteristo/pkg/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLineTotal(t *testing.T) {
	tax := 0.10
	tests := []struct {
		name     string
		price    float64
		quantity int
		taxRate  *float64
		want     float64
	}{
		{"no tax", 12.50, 2, nil, 25.00},
		{"with tax", 10.00, 2, &tax, 22.00},
		{"single unit", 4.00, 1, &tax, 4.40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.price, tt.quantity, tt.taxRate)
			if !almostEqual(got, tt.want) {
				t.Errorf("LineTotal(%v, %d) = %v, want %v", tt.price, tt.quantity, got, tt.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	items := []models.OrderItem{
		{TotalPrice: 22.00},
		{TotalPrice: 8.50},
	}

	total, discount, final := Totals(items)

	if !almostEqual(total, 30.50) {
		t.Errorf("total = %v, want 30.50", total)
	}
	if discount != 0 {
		t.Errorf("discount = %v, want 0", discount)
	}
	if !almostEqual(final, total-discount) {
		t.Errorf("final = %v, want total-discount = %v", final, total-discount)
	}
}

// The worked payment example: 2 units at 10.00 with 10% tax gives a line
// total of 22.00, paying 25.00 returns 3.00 change.
func TestPaymentExample(t *testing.T) {
	tax := 0.10
	line := LineTotal(10.00, 2, &tax)
	if !almostEqual(line, 22.00) {
		t.Fatalf("line total = %v, want 22.00", line)
	}

	_, _, final := Totals([]models.OrderItem{{TotalPrice: line}})
	if !almostEqual(final, 22.00) {
		t.Fatalf("final = %v, want 22.00", final)
	}

	amount := 25.00
	change, err := ChangeDue(&amount, final)
	if err != nil {
		t.Fatalf("ChangeDue returned error: %v", err)
	}
	if !almostEqual(change, 3.00) {
		t.Errorf("change = %v, want 3.00", change)
	}
}

func TestChangeDue(t *testing.T) {
	if change, err := ChangeDue(nil, 22.00); err != nil || change != 0 {
		t.Errorf("ChangeDue(nil) = %v, %v, want 0, nil", change, err)
	}

	low := 20.00
	if _, err := ChangeDue(&low, 22.00); err == nil {
		t.Error("ChangeDue with insufficient amount should fail")
	}

	exact := 22.00
	if change, err := ChangeDue(&exact, 22.00); err != nil || !almostEqual(change, 0) {
		t.Errorf("ChangeDue(exact) = %v, %v, want 0, nil", change, err)
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250314-\d{4}$`)

	for i := 0; i < 20; i++ {
		number := GenerateOrderNumber(now)
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match ORD-YYYYMMDD-NNNN", number)
		}
	}
}

func TestEstimatedCompletion(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	got := EstimatedCompletion(now, []int{10, 25, 15})
	if want := now.Add(30 * time.Minute); !got.Equal(want) {
		t.Errorf("EstimatedCompletion = %v, want %v", got, want)
	}

	// Empty prep times fall back to the 15 minute default
	got = EstimatedCompletion(now, nil)
	if want := now.Add(20 * time.Minute); !got.Equal(want) {
		t.Errorf("EstimatedCompletion(empty) = %v, want %v", got, want)
	}
}

func TestPromotePendingItems(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{
			{ID: "a", Status: ItemStatusPending},
			{ID: "b", Status: ItemStatusServed},
			{ID: "c", Status: ItemStatusPending},
		},
	}

	promoted := PromotePendingItems(order, StatusPreparing)

	if len(promoted) != 2 {
		t.Fatalf("promoted %d items, want 2", len(promoted))
	}
	if order.Items[0].Status != StatusPreparing || order.Items[2].Status != StatusPreparing {
		t.Error("pending items were not promoted")
	}
	if order.Items[1].Status != ItemStatusServed {
		t.Error("already advanced item must be left untouched")
	}
}

func TestPromotePendingItemsNonCascading(t *testing.T) {
	for _, status := range []string{StatusPending, StatusConfirmed, StatusPayed, StatusCancelled} {
		order := &models.Order{
			Items: []models.OrderItem{{ID: "a", Status: ItemStatusPending}},
		}
		if promoted := PromotePendingItems(order, status); promoted != nil {
			t.Errorf("status %q must not cascade, promoted %v", status, promoted)
		}
		if order.Items[0].Status != ItemStatusPending {
			t.Errorf("status %q mutated item status", status)
		}
	}
}

func TestAllItemsComplete(t *testing.T) {
	tests := []struct {
		name  string
		items []models.OrderItem
		want  bool
	}{
		{"empty", nil, false},
		{"all ready", []models.OrderItem{{Status: ItemStatusReady}, {Status: ItemStatusReady}}, true},
		{"ready and served", []models.OrderItem{{Status: ItemStatusReady}, {Status: ItemStatusServed}}, true},
		{"one preparing", []models.OrderItem{{Status: ItemStatusReady}, {Status: ItemStatusPreparing}}, false},
		{"cancelled item", []models.OrderItem{{Status: ItemStatusServed}, {Status: ItemStatusCancelled}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllItemsComplete(tt.items); got != tt.want {
				t.Errorf("AllItemsComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanPay(t *testing.T) {
	payable := map[string]bool{
		StatusPending:   false,
		StatusConfirmed: false,
		StatusPreparing: false,
		StatusReady:     true,
		StatusDelivered: true,
		StatusPayed:     false,
		StatusCancelled: false,
	}
	for status, want := range payable {
		if got := CanPay(status); got != want {
			t.Errorf("CanPay(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	deletable := map[string]bool{
		StatusPending:   true,
		StatusConfirmed: false,
		StatusPreparing: false,
		StatusReady:     false,
		StatusDelivered: false,
		StatusPayed:     false,
		StatusCancelled: true,
	}
	for status, want := range deletable {
		if got := CanDelete(status); got != want {
			t.Errorf("CanDelete(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusPayed, StatusCancelled} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false", status)
		}
	}
	if ValidStatus("shipped") {
		t.Error("ValidStatus must reject unknown values")
	}
	if ValidItemStatus("delivered") {
		t.Error("delivered is not an item status")
	}
}
