package domain

import (
	"errors"
	"fmt"
	"math"
)

// A contiguous distance band mapped to a delivery fee.
//
// The fee at distance d inside the band is BaseFee + PerKmFee x ceil(d - MinKm);
// a flat band has PerKmFee = 0. MinKm is inclusive and MaxKm exclusive, except
// for the final band, which is closed at the zone's outer boundary.
type FeeTier struct {
	MinKm    float64 `json:"min_km"`
	MaxKm    float64 `json:"max_km"`
	BaseFee  int64   `json:"base_fee"`
	PerKmFee int64   `json:"per_km_fee"`
}

// FeeAt returns the delivery fee for a distance inside this tier.
func (t FeeTier) FeeAt(distanceKm float64) int64 {
	if t.PerKmFee == 0 {
		return t.BaseFee
	}
	extra := math.Ceil(distanceKm - t.MinKm)
	if extra < 0 {
		extra = 0
	}
	return t.BaseFee + t.PerKmFee*int64(extra)
}

// The serviced delivery area: a reference coordinate, an outer boundary, and
// an ordered fee-tier table covering [0, MaxRadiusKm].
type DeliveryZone struct {
	Name        string      `json:"name"`
	Center      Coordinates `json:"center"`
	MaxRadiusKm float64     `json:"max_radius_km"`
	Tiers       []FeeTier   `json:"tiers"`
}

// Validate checks that the tier table is contiguous, non-overlapping, starts
// at zero, and reaches the outer boundary.
func (z *DeliveryZone) Validate() error {
	if z.MaxRadiusKm <= 0 {
		return fmt.Errorf("validate zone %q: max radius must be positive, got %v", z.Name, z.MaxRadiusKm)
	}
	if len(z.Tiers) == 0 {
		return errors.New("validate zone: tier table must not be empty")
	}

	expectedMin := 0.0
	for i, t := range z.Tiers {
		if t.MinKm != expectedMin {
			return fmt.Errorf("validate zone %q: tier %d starts at %v, want %v", z.Name, i, t.MinKm, expectedMin)
		}
		if t.MaxKm <= t.MinKm {
			return fmt.Errorf("validate zone %q: tier %d max %v must exceed min %v", z.Name, i, t.MaxKm, t.MinKm)
		}
		if t.BaseFee < 0 || t.PerKmFee < 0 {
			return fmt.Errorf("validate zone %q: tier %d fees must be non-negative", z.Name, i)
		}
		expectedMin = t.MaxKm
	}

	if expectedMin != z.MaxRadiusKm {
		return fmt.Errorf("validate zone %q: tiers end at %v, want outer boundary %v", z.Name, expectedMin, z.MaxRadiusKm)
	}

	return nil
}

// TierFor returns the tier matching a distance within the zone.
//
// A distance exactly on a shared boundary belongs to the upper tier; the
// outer boundary itself belongs to the final tier.
func (z *DeliveryZone) TierFor(distanceKm float64) (FeeTier, bool) {
	if distanceKm < 0 || distanceKm > z.MaxRadiusKm {
		return FeeTier{}, false
	}
	for i, t := range z.Tiers {
		last := i == len(z.Tiers)-1
		if distanceKm >= t.MinKm && (distanceKm < t.MaxKm || (last && distanceKm <= t.MaxKm)) {
			return t, true
		}
	}
	return FeeTier{}, false
}

// Outcome of evaluating a coordinate against the current zone configuration.
type ZoneEvaluation struct {
	Serviceable bool    `json:"serviceable"`
	DistanceKm  float64 `json:"distance_km"`
	Fee         int64   `json:"fee"`
	Message     string  `json:"message"`
}
