package orderapi

import (
	"context"
	"encoding/json"
	"fmt"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/platform/obs"
)

type placeOrderRequest struct {
	CheckoutID  string                 `json:"checkout_id"`
	CategoryID  string                 `json:"category_id"`
	VendorID    string                 `json:"vendor_id"`
	VendorName  string                 `json:"vendor_name"`
	Items       []domain.CartLineItem  `json:"items"`
	Subtotal    int64                  `json:"subtotal"`
	DeliveryFee int64                  `json:"delivery_fee"`
	Total       int64                  `json:"total"`
	Latitude    float64                `json:"latitude"`
	Longitude   float64                `json:"longitude"`
	Customer    domain.CustomerDetails `json:"customer"`
}

type placeOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// HTTPOrderPlacer implements the OrderPlacer port against the external
// order-management collaborator.
//
// Any transport failure or non-success status, after retries, maps to
// domain.ErrNetworkFailure so callers keep the cart intact and offer a retry.
type HTTPOrderPlacer struct {
	client *Client
}

func NewHTTPOrderPlacer(client *Client) *HTTPOrderPlacer {
	return &HTTPOrderPlacer{client: client}
}

func (p *HTTPOrderPlacer) PlaceOrder(
	ctx context.Context,
	req *domain.CheckoutRequest,
	customer domain.CustomerDetails,
) (_ domain.PlacedOrder, err error) {
	defer obs.Time(ctx, "orderapi.PlaceOrder")(&err)

	body, err := json.Marshal(placeOrderRequest{
		CheckoutID:  req.ID.String(),
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		Items:       req.Items,
		Subtotal:    req.Subtotal,
		DeliveryFee: req.DeliveryFee,
		Total:       req.Total,
		Latitude:    req.Point.Lat,
		Longitude:   req.Point.Lon,
		Customer:    customer,
	})
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("place order: encode request: %w", err)
	}

	resp, err := p.client.doWithRetry(ctx, "POST", "/orders", body)
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("place order: %v: %w", err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	var out placeOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("place order: decode response: %v: %w", err, domain.ErrNetworkFailure)
	}
	if out.OrderID == "" {
		return domain.PlacedOrder{}, fmt.Errorf("place order: response missing order id: %w", domain.ErrNetworkFailure)
	}

	return domain.PlacedOrder{OrderID: out.OrderID, Status: out.Status}, nil
}
