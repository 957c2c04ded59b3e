package services

import (
	"fmt"
	"sync/atomic"

	"chefcart-service/internal/domain"
)

// ZoneEvaluator answers whether a coordinate is serviceable and at what fee,
// using the zone's tiered fee table and great-circle distance from its center.
//
// Evaluate is a pure function of its input and the current configuration. The
// configuration sits behind an atomic pointer so an admin reload never races
// an in-flight evaluation.
type ZoneEvaluator struct {
	zone atomic.Pointer[domain.DeliveryZone]
}

func NewZoneEvaluator(zone *domain.DeliveryZone) (*ZoneEvaluator, error) {
	e := &ZoneEvaluator{}
	if err := e.Reload(zone); err != nil {
		return nil, fmt.Errorf("new zone evaluator: %w", err)
	}
	return e, nil
}

// Reload swaps in a new zone configuration after validating it.
func (e *ZoneEvaluator) Reload(zone *domain.DeliveryZone) error {
	if zone == nil {
		return fmt.Errorf("reload zone: zone must be non-nil")
	}
	if err := zone.Validate(); err != nil {
		return fmt.Errorf("reload zone: %w", err)
	}
	e.zone.Store(zone)
	return nil
}

// Zone returns the current configuration.
func (e *ZoneEvaluator) Zone() *domain.DeliveryZone {
	return e.zone.Load()
}

// Evaluate computes the distance from the zone center to the point and looks
// up the matching fee tier. Outside the outer boundary the point is
// unserviceable and the fee is not meaningful (returned as 0).
func (e *ZoneEvaluator) Evaluate(point domain.Coordinates) domain.ZoneEvaluation {
	zone := e.zone.Load()
	d := domain.DistanceKm(zone.Center, point)

	tier, ok := zone.TierFor(d)
	if !ok {
		return domain.ZoneEvaluation{
			Serviceable: false,
			DistanceKm:  d,
			Fee:         0,
			Message:     fmt.Sprintf("We don't deliver to your area yet (%.2f km away) - coming soon!", d),
		}
	}

	return domain.ZoneEvaluation{
		Serviceable: true,
		DistanceKm:  d,
		Fee:         tier.FeeAt(d),
		Message:     fmt.Sprintf("Delivery available to your location (%.2f km away)", d),
	}
}
