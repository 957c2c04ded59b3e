package ports

import (
	"context"

	"chefcart-service/internal/domain"
)

// Port: the external order-placement collaborator that consumes a finalized
// checkout request. Any non-success response is a transient failure; the
// caller must leave the cart intact so the user can retry.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req *domain.CheckoutRequest, customer domain.CustomerDetails) (domain.PlacedOrder, error)
}
