package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"chefcart-service/internal/domain"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.MaxAttempts = 3
	c.Backoff = time.Millisecond
	return c
}

func testCheckoutRequest() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		ID:         uuid.New(),
		SessionID:  "s1",
		CategoryID: "cat1",
		VendorID:   "v1",
		VendorName: "Asha's Kitchen",
		Items: []domain.CartLineItem{
			{ProductID: "p1", Name: "Dal Tadka", Price: 45, Quantity: 2, VendorID: "v1", VendorName: "Asha's Kitchen", CategoryID: "cat1"},
		},
		Subtotal:    90,
		DeliveryFee: 20,
		Total:       110,
		Point:       domain.Coordinates{Lat: 19.0863, Lon: 72.8826},
		DistanceKm:  1.5,
		CreatedAt:   time.Now(),
	}
}

var testCustomer = domain.CustomerDetails{
	Name:    "Priya",
	Phone:   "9820012345",
	Address: "14 Hill Road, Bandra West",
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	var got placeOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(placeOrderResponse{OrderID: "ord-42", Status: "pending"})
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))
	req := testCheckoutRequest()

	placed, err := placer.PlaceOrder(context.Background(), req, testCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placed.OrderID != "ord-42" || placed.Status != "pending" {
		t.Fatalf("placed = %+v", placed)
	}

	if got.CheckoutID != req.ID.String() {
		t.Fatalf("checkout id = %q, want %q", got.CheckoutID, req.ID.String())
	}
	if got.Total != 110 || got.Subtotal != 90 || got.DeliveryFee != 20 {
		t.Fatalf("amounts not forwarded: %+v", got)
	}
	if got.Customer != testCustomer {
		t.Fatalf("customer = %+v, want %+v", got.Customer, testCustomer)
	}
}

func TestPlaceOrderRejectionIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vendor closed", http.StatusConflict)
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))

	_, err := placer.PlaceOrder(context.Background(), testCheckoutRequest(), testCustomer)
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
}

func TestPlaceOrderMissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"pending"}`))
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))

	_, err := placer.PlaceOrder(context.Background(), testCheckoutRequest(), testCustomer)
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(placeOrderResponse{OrderID: "ord-7", Status: "pending"})
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))

	placed, err := placer.PlaceOrder(context.Background(), testCheckoutRequest(), testCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if placed.OrderID != "ord-7" {
		t.Fatalf("order id = %q, want ord-7", placed.OrderID)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("server saw %d calls, want 3", n)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))

	if _, err := placer.PlaceOrder(context.Background(), testCheckoutRequest(), testCustomer); err == nil {
		t.Fatalf("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("server saw %d calls, want 1", n)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	placer := NewHTTPOrderPlacer(testClient(t, srv.URL))

	_, err := placer.PlaceOrder(context.Background(), testCheckoutRequest(), testCustomer)
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("server saw %d calls, want MaxAttempts = 3", n)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	c.Backoff = time.Minute
	placer := NewHTTPOrderPlacer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := placer.PlaceOrder(ctx, testCheckoutRequest(), testCustomer)
	if err == nil {
		t.Fatalf("expected error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("cancellation not honored during backoff")
	}
}

func TestConfirmFeeSuccess(t *testing.T) {
	var got confirmFeeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/delivery/fee" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"distance":1.8,"fee":35,"time":25}`))
	}))
	defer srv.Close()

	confirmer := NewHTTPFeeConfirmer(testClient(t, srv.URL))

	quote, err := confirmer.ConfirmFee(context.Background(), domain.Coordinates{Lat: 19.0863, Lon: 72.8826})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.DistanceKm != 1.8 || quote.Fee != 35 || quote.EtaMinutes != 25 {
		t.Fatalf("quote = %+v", quote)
	}
	if got.Latitude != 19.0863 || got.Longitude != 72.8826 {
		t.Fatalf("coordinates not forwarded: %+v", got)
	}
}

func TestConfirmFeeFailureIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	confirmer := NewHTTPFeeConfirmer(testClient(t, srv.URL))

	_, err := confirmer.ConfirmFee(context.Background(), domain.Coordinates{Lat: 19.0863, Lon: 72.8826})
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("err = %v, want ErrNetworkFailure", err)
	}
}
