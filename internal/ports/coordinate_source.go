package ports

import (
	"context"

	"chefcart-service/internal/domain"
)

// Port: acquisition of the customer's geographic coordinate. A source may
// block until permission is granted or denied; callers apply an explicit
// timeout and must treat denial or timeout as recoverable
// (domain.ErrCoordinateUnavailable), never a crash.
type CoordinateSource interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}
