package orderapi

import (
	"context"
	"encoding/json"
	"fmt"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/platform/obs"
	"chefcart-service/internal/ports"
)

type confirmFeeRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type confirmFeeResponse struct {
	Distance float64 `json:"distance"`
	Fee      int64   `json:"fee"`
	Time     int     `json:"time"`
}

// HTTPFeeConfirmer implements the FeeConfirmer port against the
// server-authoritative fee endpoint.
type HTTPFeeConfirmer struct {
	client *Client
}

func NewHTTPFeeConfirmer(client *Client) *HTTPFeeConfirmer {
	return &HTTPFeeConfirmer{client: client}
}

func (c *HTTPFeeConfirmer) ConfirmFee(ctx context.Context, point domain.Coordinates) (_ ports.FeeQuote, err error) {
	defer obs.Time(ctx, "orderapi.ConfirmFee")(&err)

	body, err := json.Marshal(confirmFeeRequest{Latitude: point.Lat, Longitude: point.Lon})
	if err != nil {
		return ports.FeeQuote{}, fmt.Errorf("confirm fee: encode request: %w", err)
	}

	resp, err := c.client.doWithRetry(ctx, "POST", "/delivery/fee", body)
	if err != nil {
		return ports.FeeQuote{}, fmt.Errorf("confirm fee: %v: %w", err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	var out confirmFeeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.FeeQuote{}, fmt.Errorf("confirm fee: decode response: %v: %w", err, domain.ErrNetworkFailure)
	}

	return ports.FeeQuote{
		DistanceKm: out.Distance,
		Fee:        out.Fee,
		EtaMinutes: out.Time,
	}, nil
}
