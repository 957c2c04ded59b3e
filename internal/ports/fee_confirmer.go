package ports

import (
	"context"

	"chefcart-service/internal/domain"
)

// Server-authoritative delivery quote for a coordinate.
type FeeQuote struct {
	DistanceKm float64
	Fee        int64
	EtaMinutes int
}

// Port: the fee-confirmation endpoint consulted before final submission.
// The local zone evaluation is advisory; this quote is the source of truth.
type FeeConfirmer interface {
	ConfirmFee(ctx context.Context, point domain.Coordinates) (FeeQuote, error)
}
