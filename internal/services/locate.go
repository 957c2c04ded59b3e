package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/ports"
)

type locateResult struct {
	point domain.Coordinates
	err   error
}

// AcquireCoordinates resolves the customer's coordinate through the source
// with an explicit timeout.
//
// Three terminal outcomes: the resolved point, denial, or timeout. Denial and
// timeout both map to domain.ErrCoordinateUnavailable so callers treat them
// as the same recoverable condition; cart browsing continues regardless.
func AcquireCoordinates(
	ctx context.Context,
	source ports.CoordinateSource,
	timeout time.Duration,
) (domain.Coordinates, error) {
	if source == nil {
		return domain.Coordinates{}, fmt.Errorf("acquire coordinates: %w", domain.ErrCoordinateUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The source may block until the user grants or denies permission;
	// run it aside so the timeout stays enforceable.
	ch := make(chan locateResult, 1)
	go func() {
		point, err := source.Locate(ctx)
		ch <- locateResult{point: point, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.Coordinates{}, fmt.Errorf("acquire coordinates: timed out after %s: %w", timeout, domain.ErrCoordinateUnavailable)
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, domain.ErrLocationDenied) {
				return domain.Coordinates{}, fmt.Errorf("acquire coordinates: denied: %w", domain.ErrCoordinateUnavailable)
			}
			return domain.Coordinates{}, fmt.Errorf("acquire coordinates: %v: %w", res.err, domain.ErrCoordinateUnavailable)
		}
		return res.point, nil
	}
}
