package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefcart-service/internal/adapters/cartstore"
	"chefcart-service/internal/api/dto"
	"chefcart-service/internal/domain"
	"chefcart-service/internal/ports"
	"chefcart-service/internal/services"
)

type stubPlacer struct {
	placed domain.PlacedOrder
	err    error
}

func (s *stubPlacer) PlaceOrder(ctx context.Context, req *domain.CheckoutRequest, customer domain.CustomerDetails) (domain.PlacedOrder, error) {
	return s.placed, s.err
}

var _ ports.OrderPlacer = (*stubPlacer)(nil)

func testZone() *domain.DeliveryZone {
	return &domain.DeliveryZone{
		Name:        "Mumbai West",
		Center:      domain.Coordinates{Lat: 19.0728, Lon: 72.8826},
		MaxRadiusKm: 8,
		Tiers: []domain.FeeTier{
			{MinKm: 0, MaxKm: 2, BaseFee: 20},
			{MinKm: 2, MaxKm: 8, BaseFee: 20, PerKmFee: 10},
		},
	}
}

func newTestServer(t *testing.T, placer ports.OrderPlacer) *httptest.Server {
	t.Helper()

	evaluator, err := services.NewZoneEvaluator(testZone())
	require.NoError(t, err)

	sessions := services.NewSessionManager(cartstore.NewMemoryStore())
	orchestrator := services.NewCheckoutOrchestrator(sessions, evaluator, nil, placer)

	srv := httptest.NewServer(NewRouter(sessions, evaluator, orchestrator))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, session string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func addItemBody(productID string, price int64) dto.AddItemRequest {
	return dto.AddItemRequest{
		ProductID:    productID,
		Name:         "Dish " + productID,
		Price:        price,
		VendorID:     "v1",
		VendorName:   "Asha's Kitchen",
		CategoryID:   "cat1",
		CategoryName: "Tiffin",
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionHeaderRequired(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/carts", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddItemAndListCarts(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	added := decodeBody[dto.AddItemResponse](t, resp)
	require.True(t, added.Added)
	require.NotNil(t, added.Cart)
	assert.Equal(t, int64(45), added.Cart.Subtotal)

	// Same product again increments the line item.
	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	added = decodeBody[dto.AddItemResponse](t, resp)
	require.Len(t, added.Cart.Items, 1)
	assert.Equal(t, 2, added.Cart.Items[0].Quantity)
	assert.Equal(t, int64(90), added.Cart.Subtotal)

	resp = doJSON(t, http.MethodGet, srv.URL+"/carts", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.ListCartsResponse](t, resp)
	require.Len(t, list.Carts, 1)
	assert.Equal(t, "cat1", list.Carts[0].CategoryID)
	assert.Equal(t, 2, list.TotalItems)
}

func TestAddItemVendorConflict(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	rival := addItemBody("p9", 60)
	rival.VendorID = "v2"
	rival.VendorName = "Bela's Bites"

	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", rival)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	conflict := decodeBody[dto.AddItemResponse](t, resp)
	assert.False(t, conflict.Added)
	assert.Equal(t, "Asha's Kitchen", conflict.ConflictVendor)
	assert.Contains(t, conflict.Message, "Asha's Kitchen")
}

func TestAddItemValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	missing := addItemBody("p1", 45)
	missing.VendorID = ""
	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", missing)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	negative := addItemBody("p1", -5)
	resp = doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", negative)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateQuantityZeroPrunesCart(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/cat1/items/p1", "s1", dto.UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeBody[dto.CartResponse](t, resp)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalItems)

	// The pruned cart is gone.
	resp = doJSON(t, http.MethodGet, srv.URL+"/carts/cat1", "s1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/carts/cat1/items/p1", "s1", dto.UpdateQuantityRequest{Quantity: 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart := decodeBody[dto.CartResponse](t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, int64(180), cart.Subtotal)
}

func TestClearEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/carts/cat1", "s1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/carts", "s1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/carts", "s1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.ListCartsResponse](t, resp)
	assert.Empty(t, list.Carts)
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/carts", "s2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[dto.ListCartsResponse](t, resp)
	assert.Empty(t, list.Carts)
}

func TestEvaluateDeliveryPoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/delivery/evaluate", "", dto.EvaluatePointRequest{
		Latitude:  19.0863,
		Longitude: 72.8826,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	eval := decodeBody[dto.EvaluatePointResponse](t, resp)
	assert.True(t, eval.Serviceable)
	assert.InDelta(t, 1.5, eval.DistanceKm, 0.1)
	assert.Equal(t, int64(20), eval.Fee)

	resp = doJSON(t, http.MethodPost, srv.URL+"/delivery/evaluate", "", dto.EvaluatePointRequest{
		Latitude:  19.155,
		Longitude: 72.8826,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	eval = decodeBody[dto.EvaluatePointResponse](t, resp)
	assert.False(t, eval.Serviceable)
	assert.Zero(t, eval.Fee)
	assert.Contains(t, eval.Message, "coming soon")

	resp = doJSON(t, http.MethodPost, srv.URL+"/delivery/evaluate", "", dto.EvaluatePointRequest{
		Latitude:  120,
		Longitude: 72.8826,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	placer := &stubPlacer{placed: domain.PlacedOrder{OrderID: "ord-1", Status: "pending"}}
	srv := newTestServer(t, placer)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout/prepare", "s1", dto.PrepareCheckoutRequest{
		CategoryID: "cat1",
		Latitude:   19.0863,
		Longitude:  72.8826,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prepared := decodeBody[dto.CheckoutResponse](t, resp)
	assert.Equal(t, int64(135), prepared.Subtotal)
	assert.Equal(t, int64(20), prepared.DeliveryFee)
	assert.Equal(t, int64(155), prepared.Total)
	require.NotEmpty(t, prepared.RequestID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout/commit", "s1", dto.CommitCheckoutRequest{
		RequestID: prepared.RequestID,
		Customer: dto.CustomerDTO{
			Name:    "Priya",
			Phone:   "9820012345",
			Address: "14 Hill Road, Bandra West",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	committed := decodeBody[dto.CommitCheckoutResponse](t, resp)
	assert.Equal(t, "ord-1", committed.OrderID)

	// The committed cart is cleared.
	resp = doJSON(t, http.MethodGet, srv.URL+"/carts/cat1", "s1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Resubmitting a committed request is rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout/commit", "s1", dto.CommitCheckoutRequest{
		RequestID: prepared.RequestID,
		Customer:  dto.CustomerDTO{Name: "Priya", Phone: "9820012345", Address: "14 Hill Road"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckoutPrepareErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	// Empty cart.
	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout/prepare", "s1", dto.PrepareCheckoutRequest{
		CategoryID: "cat1",
		Latitude:   19.0863,
		Longitude:  72.8826,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Below the default minimum order.
	r := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
	require.Equal(t, http.StatusOK, r.StatusCode)
	r.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout/prepare", "s1", dto.PrepareCheckoutRequest{
		CategoryID: "cat1",
		Latitude:   19.0863,
		Longitude:  72.8826,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Outside the delivery zone.
	for i := 0; i < 3; i++ {
		r := doJSON(t, http.MethodPost, srv.URL+"/carts/items", "s1", addItemBody("p1", 45))
		r.Body.Close()
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout/prepare", "s1", dto.PrepareCheckoutRequest{
		CategoryID: "cat1",
		Latitude:   19.155,
		Longitude:  72.8826,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCheckoutCommitErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/checkout/commit", "s1", dto.CommitCheckoutRequest{
		RequestID: "not-a-uuid",
		Customer:  dto.CustomerDTO{Name: "Priya", Phone: "9820012345", Address: "14 Hill Road"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/checkout/commit", "s1", dto.CommitCheckoutRequest{
		RequestID: "0e3f8c6e-3c8e-4c0c-9a3f-6f1f2d4b5a6c",
		Customer:  dto.CustomerDTO{Name: "Priya", Phone: "9820012345", Address: "14 Hill Road"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidJSONBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/carts/items", bytes.NewReader([]byte(`{"product_id":`)))
	require.NoError(t, err)
	req.Header.Set("X-Session-ID", "s1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
