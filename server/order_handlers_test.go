package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/example/byteristo/pkg/models"
	"github.com/google/uuid"
)

// Validation failures must be rejected at the handler boundary before any
// database work happens; these tests run without a database on purpose.

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleWaiter)

	recorder := doRequest(s, http.MethodPost, "/api/orders/", token,
		`{"table_number":4,"order_type":"dine_in","items":[]}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateOrderRejectsBadOrderType(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleWaiter)

	recorder := doRequest(s, http.MethodPost, "/api/orders/", token,
		`{"table_number":4,"order_type":"drive_through","items":[{"menu_item_id":"`+uuid.NewString()+`","quantity":1}]}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleWaiter)

	recorder := doRequest(s, http.MethodPost, "/api/orders/", token,
		`{"table_number":4,"order_type":"takeout","items":[{"menu_item_id":"`+uuid.NewString()+`","quantity":0}]}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateOrderRejectsBadTableNumber(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleWaiter)

	recorder := doRequest(s, http.MethodPost, "/api/orders/", token,
		`{"table_number":0,"order_type":"dine_in","items":[{"menu_item_id":"`+uuid.NewString()+`","quantity":1}]}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleChef)

	recorder := doRequest(s, http.MethodPut, "/api/orders/"+uuid.NewString()+"/status", token,
		`{"status":"shipped"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid status") {
		t.Errorf("body = %s, want invalid status message", recorder.Body.String())
	}
}

func TestUpdateOrderStatusRejectsBadID(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleChef)

	recorder := doRequest(s, http.MethodPut, "/api/orders/not-a-uuid/status", token,
		`{"status":"ready"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid order ID format") {
		t.Errorf("body = %s, want invalid ID message", recorder.Body.String())
	}
}

func TestUpdateOrderItemStatusRejectsOrderOnlyStatus(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleChef)

	// delivered belongs to the order enum, not the item enum
	recorder := doRequest(s, http.MethodPut,
		"/api/orders/"+uuid.NewString()+"/items/"+uuid.NewString()+"/status", token,
		`{"status":"delivered"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestPayOrderRejectsUnknownMethod(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleCashier)

	recorder := doRequest(s, http.MethodPost, "/api/orders/"+uuid.NewString()+"/pay", token,
		`{"payment_method":"barter"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid payment method") {
		t.Errorf("body = %s, want invalid payment method message", recorder.Body.String())
	}
}

func TestCreateMenuItemRejectsUnknownCategory(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleChef)

	recorder := doRequest(s, http.MethodPost, "/api/menu/", token,
		`{"name":"Espresso","price":1.2,"category":"drinks","preparation_time":2}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateMenuItemRejectsTaxOutOfRange(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleChef)

	recorder := doRequest(s, http.MethodPost, "/api/menu/", token,
		`{"name":"Espresso","price":1.2,"tax_amount":1.5,"category":"beverage","preparation_time":2}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestCreateProductRejectsBadEAN(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleManager)

	recorder := doRequest(s, http.MethodPost, "/api/inventory/", token,
		`{"ean":"12345","name":"Flour 1kg","price":1.1}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "EAN must be 8 or 13 digits") {
		t.Errorf("body = %s, want EAN message", recorder.Body.String())
	}
}

func TestAdjustQuantityRejectsUnknownOperation(t *testing.T) {
	s := newTestServer(t)
	token := makeToken(t, s, models.RoleManager)

	recorder := doRequest(s, http.MethodPatch, "/api/inventory/"+uuid.NewString()+"/quantity", token,
		`{"operation":"increment","amount":5}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}
