package ports

import (
	"context"

	"chefcart-service/internal/domain"
)

// Port: source of the delivery-zone configuration. The zone is loaded once at
// startup and reloaded on demand; the evaluator always reads the current
// version.
type ZoneRepository interface {
	LoadZone(ctx context.Context) (*domain.DeliveryZone, error)
}
