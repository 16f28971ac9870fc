package orders

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/byteristo/pkg/models"
)

// Order statuses. The lifecycle is a flat enumeration: the API accepts any
// member value for any order, the only guard is membership itself.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusPayed     = "payed"
	StatusCancelled = "cancelled"
)

// Order item statuses.
const (
	ItemStatusPending   = "pending"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
	ItemStatusCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentCash    = "cash"
	PaymentCard    = "card"
	PaymentDigital = "digital"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusDelivered, StatusPayed, StatusCancelled:
		return true
	}
	return false
}

func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady,
		ItemStatusServed, ItemStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentDigital:
		return true
	}
	return false
}

// ActiveStatuses are the statuses matched by the "active" pseudo-filter on
// the order listing.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusPreparing}

// LineTotal computes unit price x quantity x (1 + tax rate). A nil tax rate
// counts as zero.
func LineTotal(unitPrice float64, quantity int, taxRate *float64) float64 {
	tax := 0.0
	if taxRate != nil {
		tax = *taxRate
	}
	return unitPrice * float64(quantity) * (1 + tax)
}

// Totals sums the line totals. Discounts are not applied yet, so the
// discount is always zero and the final amount equals the total.
func Totals(items []models.OrderItem) (total, discount, final float64) {
	for _, item := range items {
		total += item.TotalPrice
	}
	discount = 0
	final = total - discount
	return total, discount, final
}

// GenerateOrderNumber builds a human-readable number of the form
// ORD-YYYYMMDD-NNNN. The random suffix is not collision checked; the
// unique index on the column is the only backstop.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), 1000+rand.Intn(9000))
}

// EstimatedCompletion returns now plus the longest preparation time across
// the order's lines plus a fixed 5 minute margin. It is a heuristic, not a
// kitchen scheduler.
func EstimatedCompletion(now time.Time, prepTimes []int) time.Time {
	maxPrep := 15
	if len(prepTimes) > 0 {
		maxPrep = prepTimes[0]
		for _, p := range prepTimes[1:] {
			if p > maxPrep {
				maxPrep = p
			}
		}
	}
	return now.Add(time.Duration(maxPrep+5) * time.Minute)
}

// PromotePendingItems applies the bulk cascade of an order status change:
// when the order moves to preparing, ready or delivered, every item still
// pending is promoted to the same status. Items already advanced are left
// untouched. It returns the ids of the items that changed.
func PromotePendingItems(order *models.Order, status string) []string {
	switch status {
	case StatusPreparing, StatusReady, StatusDelivered:
	default:
		return nil
	}
	var promoted []string
	for i := range order.Items {
		if order.Items[i].Status == ItemStatusPending {
			order.Items[i].Status = status
			promoted = append(promoted, order.Items[i].ID)
		}
	}
	return promoted
}

// AllItemsComplete reports whether every item has reached ready or served.
// An order with no items is never considered complete.
func AllItemsComplete(items []models.OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Status != ItemStatusReady && item.Status != ItemStatusServed {
			return false
		}
	}
	return true
}

// CanPay reports whether the order status admits payment.
func CanPay(status string) bool {
	return status == StatusReady || status == StatusDelivered
}

// CanDelete reports whether the order may be deleted.
func CanDelete(status string) bool {
	return status == StatusPending || status == StatusCancelled
}

// ChangeDue validates an optional tendered amount against the final amount
// and returns the change. A nil amount means exact payment and zero change;
// an amount below the final amount is rejected.
func ChangeDue(amount *float64, finalAmount float64) (float64, error) {
	if amount == nil {
		return 0, nil
	}
	if *amount < finalAmount {
		return 0, fmt.Errorf("payment amount (%.2f) is less than order total (%.2f)", *amount, finalAmount)
	}
	return *amount - finalAmount, nil
}
