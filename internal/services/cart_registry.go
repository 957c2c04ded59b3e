package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"chefcart-service/internal/domain"
	"chefcart-service/internal/ports"
)

// CartRegistry holds one session's per-category carts and enforces the
// single-vendor-per-category invariant.
//
// All operations are synchronous and total: malformed input (missing category
// id, vendor conflict) is signaled through boolean or structured returns, not
// errors. Every successful mutation persists the updated snapshot through the
// injected store, ordered after the in-memory change; a failed save is logged
// and never surfaced, since snapshot writes are idempotent.
//
// Safe for concurrent use: a single mutex guards the cart and settings maps,
// so overlapping requests on one session serialize here.
type CartRegistry struct {
	store     ports.CartStore
	sessionID string

	mu        sync.Mutex
	carts     map[string]*domain.CategoryCart
	minOrders map[string]int64
}

// NewCartRegistry creates an empty registry for a session.
func NewCartRegistry(store ports.CartStore, sessionID string) *CartRegistry {
	return &CartRegistry{
		store:     store,
		sessionID: sessionID,
		carts:     make(map[string]*domain.CategoryCart),
		minOrders: make(map[string]int64),
	}
}

// LoadCartRegistry restores a session's registry from the store. A missing
// snapshot yields an empty registry.
func LoadCartRegistry(ctx context.Context, store ports.CartStore, sessionID string) (*CartRegistry, error) {
	r := NewCartRegistry(store, sessionID)

	snap, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart registry: session %q: %w", sessionID, err)
	}
	if snap == nil {
		return r, nil
	}

	for _, cs := range snap.Carts {
		cart := domain.NewCategoryCart(cs.CategoryID, cs.CategoryName, cs.VendorID, cs.VendorName)
		for _, item := range cs.Items {
			if item.Quantity <= 0 {
				continue
			}
			dup := item
			cart.Items[item.ProductID] = &dup
		}
		if len(cart.Items) > 0 {
			r.carts[cart.CategoryID] = cart
		}
	}
	for categoryID, min := range snap.MinOrderSettings {
		r.minOrders[categoryID] = min
	}

	return r, nil
}

// CanAddItem reports whether an item from the given vendor may enter the
// category's cart. No side effects.
func (r *CartRegistry) CanAddItem(vendorID, categoryID string) domain.AddEligibility {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canAddLocked(vendorID, categoryID)
}

func (r *CartRegistry) canAddLocked(vendorID, categoryID string) domain.AddEligibility {
	cart, ok := r.carts[categoryID]
	if !ok || cart.VendorID == vendorID {
		return domain.AddEligibility{CanAdd: true}
	}
	return domain.AddEligibility{CanAdd: false, ConflictVendorName: cart.VendorName}
}

// AddToCart adds one unit of the item to its category's cart.
//
// A new cart is created on first add for a category; a known product id has
// its quantity incremented by 1. Returns false with no state change when the
// item lacks its category+vendor binding or another vendor already owns the
// category's cart.
func (r *CartRegistry) AddToCart(ctx context.Context, item domain.CartLineItem, categoryName string) bool {
	if !item.Bound() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if elig := r.canAddLocked(item.VendorID, item.CategoryID); !elig.CanAdd {
		return false
	}

	cart, ok := r.carts[item.CategoryID]
	if !ok {
		cart = domain.NewCategoryCart(item.CategoryID, categoryName, item.VendorID, item.VendorName)
		r.carts[item.CategoryID] = cart
	}

	if existing, ok := cart.Items[item.ProductID]; ok {
		existing.Quantity++
	} else {
		item.Quantity = 1
		cart.Items[item.ProductID] = &item
	}

	r.persistLocked(ctx)
	return true
}

// RemoveFromCart removes a line item; when the cart becomes empty the
// category itself is removed from the registry. No-op on absent keys.
func (r *CartRegistry) RemoveFromCart(ctx context.Context, categoryID, productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.removeLocked(categoryID, productID) {
		r.persistLocked(ctx)
	}
}

func (r *CartRegistry) removeLocked(categoryID, productID string) bool {
	cart, ok := r.carts[categoryID]
	if !ok {
		return false
	}
	if _, ok := cart.Items[productID]; !ok {
		return false
	}

	delete(cart.Items, productID)
	if len(cart.Items) == 0 {
		delete(r.carts, categoryID)
	}
	return true
}

// UpdateQuantity sets a line item's quantity to an absolute value. A quantity
// of zero or less behaves exactly as RemoveFromCart. No-op on absent keys.
func (r *CartRegistry) UpdateQuantity(ctx context.Context, categoryID, productID string, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quantity <= 0 {
		if r.removeLocked(categoryID, productID) {
			r.persistLocked(ctx)
		}
		return
	}

	cart, ok := r.carts[categoryID]
	if !ok {
		return
	}
	item, ok := cart.Items[productID]
	if !ok {
		return
	}

	item.Quantity = quantity
	r.persistLocked(ctx)
}

// ClearCart removes one category's cart; used after a successful order.
func (r *CartRegistry) ClearCart(ctx context.Context, categoryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[categoryID]; !ok {
		return
	}
	delete(r.carts, categoryID)
	r.persistLocked(ctx)
}

// ClearAllCarts resets the session.
func (r *CartRegistry) ClearAllCarts(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.carts) == 0 {
		return
	}
	r.carts = make(map[string]*domain.CategoryCart)
	r.persistLocked(ctx)
}

// TotalItems returns the sum of quantities in one category (0 when absent).
func (r *CartRegistry) TotalItems(categoryID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[categoryID]
	if !ok {
		return 0
	}
	return cart.TotalItems()
}

// TotalItemsAll returns the sum of quantities across every category.
func (r *CartRegistry) TotalItemsAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, cart := range r.carts {
		total += cart.TotalItems()
	}
	return total
}

// TotalPrice returns the subtotal of one category (0 when absent).
func (r *CartRegistry) TotalPrice(categoryID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[categoryID]
	if !ok {
		return 0
	}
	return cart.Subtotal()
}

// MinOrderAmount returns the configured minimum for a category, or the
// default when none is configured.
func (r *CartRegistry) MinOrderAmount(categoryID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minOrderLocked(categoryID)
}

func (r *CartRegistry) minOrderLocked(categoryID string) int64 {
	if min, ok := r.minOrders[categoryID]; ok {
		return min
	}
	return domain.DefaultMinOrderAmount
}

// SetMinOrderSettings replaces the per-category minimum-order map, e.g. after
// a refresh from the settings repository.
func (r *CartRegistry) SetMinOrderSettings(ctx context.Context, settings map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.minOrders = make(map[string]int64, len(settings))
	for categoryID, min := range settings {
		r.minOrders[categoryID] = min
	}
	r.persistLocked(ctx)
}

// CartWithValidation returns one category's cart augmented with its
// minimum-order check. The second return is false when the category has no
// cart.
func (r *CartRegistry) CartWithValidation(categoryID string) (domain.ValidatedCart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[categoryID]
	if !ok {
		return domain.ValidatedCart{}, false
	}
	return r.validateLocked(cart), true
}

// AllCartsWithValidation returns every cart with validation, ordered by
// category id.
func (r *CartRegistry) AllCartsWithValidation() []domain.ValidatedCart {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ValidatedCart, 0, len(r.carts))
	for _, cart := range r.carts {
		out = append(out, r.validateLocked(cart))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cart.CategoryID < out[j].Cart.CategoryID
	})
	return out
}

func (r *CartRegistry) validateLocked(cart *domain.CategoryCart) domain.ValidatedCart {
	subtotal := cart.Subtotal()
	min := r.minOrderLocked(cart.CategoryID)
	return domain.ValidatedCart{
		Cart:           cart.Clone(),
		Subtotal:       subtotal,
		MinOrderAmount: min,
		MeetsMinimum:   subtotal >= min,
	}
}

// Snapshot returns the registry's persisted wire form, with carts and items
// in sorted order for byte-stable encoding.
func (r *CartRegistry) Snapshot() *domain.RegistrySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *CartRegistry) snapshotLocked() *domain.RegistrySnapshot {
	snap := &domain.RegistrySnapshot{
		Carts:            make([]domain.CartSnapshot, 0, len(r.carts)),
		MinOrderSettings: make(map[string]int64, len(r.minOrders)),
	}

	categoryIDs := make([]string, 0, len(r.carts))
	for id := range r.carts {
		categoryIDs = append(categoryIDs, id)
	}
	sort.Strings(categoryIDs)

	for _, id := range categoryIDs {
		cart := r.carts[id]
		snap.Carts = append(snap.Carts, domain.CartSnapshot{
			CategoryID:   cart.CategoryID,
			CategoryName: cart.CategoryName,
			VendorID:     cart.VendorID,
			VendorName:   cart.VendorName,
			Items:        cart.SortedItems(),
		})
	}
	for categoryID, min := range r.minOrders {
		snap.MinOrderSettings[categoryID] = min
	}

	return snap
}

func (r *CartRegistry) persistLocked(ctx context.Context) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, r.sessionID, r.snapshotLocked()); err != nil {
		log.Printf("cart snapshot save failed: session=%s err=%v", r.sessionID, err)
	}
}
