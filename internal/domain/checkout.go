package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lifecycle of one category's checkout. Failed returns to Ready so the user
// can resubmit without re-adding items; Committed is terminal.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutPreparing  CheckoutState = "preparing"
	CheckoutReady      CheckoutState = "ready"
	CheckoutRejected   CheckoutState = "rejected"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutCommitted  CheckoutState = "committed"
	CheckoutFailed     CheckoutState = "failed"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutIdle:       {CheckoutPreparing},
	CheckoutPreparing:  {CheckoutReady, CheckoutRejected},
	CheckoutReady:      {CheckoutSubmitting},
	CheckoutSubmitting: {CheckoutCommitted, CheckoutFailed},
	CheckoutFailed:     {CheckoutReady},
}

// CanTransition reports whether moving from s to next is a legal step.
func (s CheckoutState) CanTransition(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// The frozen, submittable snapshot of one category cart plus the computed
// delivery fee and total. Created once at checkout confirmation and never
// mutated; a later checkout produces a new request.
type CheckoutRequest struct {
	ID          uuid.UUID      `json:"id"`
	SessionID   string         `json:"session_id"`
	CategoryID  string         `json:"category_id"`
	VendorID    string         `json:"vendor_id"`
	VendorName  string         `json:"vendor_name"`
	Items       []CartLineItem `json:"items"`
	Subtotal    int64          `json:"subtotal"`
	DeliveryFee int64          `json:"delivery_fee"`
	Total       int64          `json:"total"`
	Point       Coordinates    `json:"point"`
	DistanceKm  float64        `json:"distance_km"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Customer identity attached to an order at submission time.
type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
}

func (c CustomerDetails) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("customer details: name is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("customer details: phone is required")
	}
	if c.Address == "" {
		return fmt.Errorf("customer details: address is required")
	}
	return nil
}

// Order identifier and initial status returned by the order-placement
// collaborator on success.
type PlacedOrder struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
