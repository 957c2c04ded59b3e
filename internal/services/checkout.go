package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/ports"
)

// CheckoutOrchestrator composes cart snapshots with delivery-zone evaluation
// to produce immutable checkout requests, then hands them to the external
// order-placement collaborator.
//
// A prepared request stays resident until committed or expired; a failed
// commit returns it to the ready state with the cart untouched so the user
// can retry.
type CheckoutOrchestrator struct {
	sessions  *SessionManager
	evaluator *ZoneEvaluator
	confirmer ports.FeeConfirmer // optional server-authoritative quote
	placer    ports.OrderPlacer

	// pendingTTL bounds how long a prepared or committed request stays
	// resident; expired entries are swept on the next Prepare or Commit.
	pendingTTL time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingCheckout
}

// defaultPendingTTL is generous next to a real checkout flow; it exists to
// keep abandoned and committed requests from accumulating forever.
const defaultPendingTTL = 30 * time.Minute

type pendingCheckout struct {
	req       *domain.CheckoutRequest
	state     domain.CheckoutState
	expiresAt time.Time
}

func NewCheckoutOrchestrator(
	sessions *SessionManager,
	evaluator *ZoneEvaluator,
	confirmer ports.FeeConfirmer,
	placer ports.OrderPlacer,
) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		sessions:   sessions,
		evaluator:  evaluator,
		confirmer:  confirmer,
		placer:     placer,
		pendingTTL: defaultPendingTTL,
		pending:    make(map[uuid.UUID]*pendingCheckout),
	}
}

// Prepare builds an immutable CheckoutRequest for one category cart and the
// given delivery coordinate.
//
// Fails with domain.ErrEmptyCart, domain.ErrOutsideServiceArea,
// domain.ErrBelowMinimumOrder, or domain.ErrNetworkFailure (fee confirmation
// unreachable). On success the request is held in the ready state awaiting
// Commit.
func (o *CheckoutOrchestrator) Prepare(
	ctx context.Context,
	sessionID string,
	categoryID string,
	point domain.Coordinates,
) (*domain.CheckoutRequest, error) {
	registry, err := o.sessions.Registry(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("prepare checkout: %w", err)
	}

	validated, ok := registry.CartWithValidation(categoryID)
	if !ok {
		return nil, fmt.Errorf("prepare checkout: category %q: %w", categoryID, domain.ErrEmptyCart)
	}

	eval := o.evaluator.Evaluate(point)
	if !eval.Serviceable {
		return nil, fmt.Errorf("prepare checkout: %.2f km from zone center: %w", eval.DistanceKm, domain.ErrOutsideServiceArea)
	}

	// Reject a below-minimum cart before spending a round trip on fee
	// confirmation.
	if !validated.MeetsMinimum {
		return nil, fmt.Errorf(
			"prepare checkout: subtotal %d below minimum %d: %w",
			validated.Subtotal, validated.MinOrderAmount, domain.ErrBelowMinimumOrder,
		)
	}

	fee := eval.Fee
	distance := eval.DistanceKm

	// The local evaluation is advisory; when a fee-confirmation endpoint is
	// configured its quote is authoritative.
	if o.confirmer != nil {
		quote, err := o.confirmer.ConfirmFee(ctx, point)
		if err != nil {
			return nil, fmt.Errorf("prepare checkout: confirm fee: %w", err)
		}
		fee = quote.Fee
		distance = quote.DistanceKm
	}

	req := &domain.CheckoutRequest{
		ID:          uuid.New(),
		SessionID:   sessionID,
		CategoryID:  categoryID,
		VendorID:    validated.Cart.VendorID,
		VendorName:  validated.Cart.VendorName,
		Items:       validated.Cart.SortedItems(),
		Subtotal:    validated.Subtotal,
		DeliveryFee: fee,
		Total:       validated.Subtotal + fee,
		Point:       point,
		DistanceKm:  distance,
		CreatedAt:   time.Now().UTC(),
	}

	now := time.Now()
	o.mu.Lock()
	o.sweepLocked(now)
	o.pending[req.ID] = &pendingCheckout{
		req:       req,
		state:     domain.CheckoutReady,
		expiresAt: now.Add(o.pendingTTL),
	}
	o.mu.Unlock()

	return req, nil
}

// Commit submits a prepared request to the order-placement collaborator.
//
// Only on the collaborator's success response is the category cart cleared.
// A transport failure leaves the cart and the prepared request intact
// (failed -> ready) and returns domain.ErrNetworkFailure for the caller to
// offer a retry.
func (o *CheckoutOrchestrator) Commit(
	ctx context.Context,
	requestID uuid.UUID,
	customer domain.CustomerDetails,
) (domain.PlacedOrder, error) {
	if err := customer.Validate(); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("commit checkout: %w", err)
	}

	pc, err := o.transition(requestID, domain.CheckoutSubmitting)
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("commit checkout: %w", err)
	}

	placed, err := o.placer.PlaceOrder(ctx, pc.req, customer)
	if err != nil {
		// Failed returns to ready: the prepared request survives for resubmission.
		o.setState(requestID, domain.CheckoutFailed, domain.CheckoutReady)
		return domain.PlacedOrder{}, fmt.Errorf("commit checkout: place order: %w", err)
	}

	o.setState(requestID, domain.CheckoutCommitted)

	registry, regErr := o.sessions.Registry(ctx, pc.req.SessionID)
	if regErr != nil {
		log.Printf("clear cart after commit failed: session=%s category=%s err=%v",
			pc.req.SessionID, pc.req.CategoryID, regErr)
		return placed, nil
	}
	registry.ClearCart(ctx, pc.req.CategoryID)

	return placed, nil
}

// Request returns a prepared request and its current state.
func (o *CheckoutOrchestrator) Request(requestID uuid.UUID) (*domain.CheckoutRequest, domain.CheckoutState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	pc, ok := o.pending[requestID]
	if !ok {
		return nil, domain.CheckoutIdle, false
	}
	return pc.req, pc.state, true
}

// sweepLocked drops every pending entry past its expiry. Caller holds o.mu.
func (o *CheckoutOrchestrator) sweepLocked(now time.Time) {
	for id, pc := range o.pending {
		if now.After(pc.expiresAt) {
			delete(o.pending, id)
		}
	}
}

func (o *CheckoutOrchestrator) transition(requestID uuid.UUID, next domain.CheckoutState) (*pendingCheckout, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.sweepLocked(time.Now())

	pc, ok := o.pending[requestID]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", requestID, domain.ErrUnknownCheckout)
	}
	if pc.state == domain.CheckoutCommitted {
		return nil, fmt.Errorf("request %s: %w", requestID, domain.ErrCheckoutCommitted)
	}
	if !pc.state.CanTransition(next) {
		return nil, fmt.Errorf("request %s: illegal transition %s -> %s", requestID, pc.state, next)
	}

	pc.state = next
	return pc, nil
}

// setState walks the request through each given state in order.
func (o *CheckoutOrchestrator) setState(requestID uuid.UUID, states ...domain.CheckoutState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	pc, ok := o.pending[requestID]
	if !ok {
		return
	}
	for _, s := range states {
		pc.state = s
	}
}
