package domain

import "errors"

// Terminal error kinds surfaced to callers of the checkout and location
// services. Expected cart conditions (vendor conflicts, missing line items)
// are reported through structured return values instead, so the HTTP layer
// can render a message without unwrapping.
var (
	ErrEmptyCart             = errors.New("no cart exists for the category")
	ErrOutsideServiceArea    = errors.New("address is outside the delivery area")
	ErrBelowMinimumOrder     = errors.New("cart subtotal is below the category minimum order")
	ErrCoordinateUnavailable = errors.New("coordinates unavailable")
	ErrLocationDenied        = errors.New("location permission denied")
	ErrNetworkFailure        = errors.New("upstream endpoint unreachable or returned a non-success status")
	ErrCheckoutCommitted     = errors.New("checkout request already committed")
	ErrUnknownCheckout       = errors.New("unknown checkout request")
)
