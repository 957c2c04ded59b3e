package domain

import "sort"

// DefaultMinOrderAmount applies to categories without a configured
// minimum-order setting.
const DefaultMinOrderAmount int64 = 100

// A single purchasable unit inside a category cart.
//
// Price is in whole currency units and never negative. A line item with
// quantity <= 0 does not exist: registry mutations remove it instead of
// storing it.
type CartLineItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url,omitempty"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	CategoryID string `json:"category_id"`
}

// Bound reports whether the item carries the category+vendor binding
// required before it may enter a cart. Unbound items are rejected at the
// boundary rather than defaulted to empty identifiers.
func (i CartLineItem) Bound() bool {
	return i.CategoryID != "" && i.VendorID != ""
}

// LineTotal returns price x quantity for the line item.
func (i CartLineItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// The sub-cart scoped to one product category, exclusive to one vendor.
//
// Invariant: every line item shares the cart's VendorID. A CategoryCart with
// zero line items must not exist in a registry (it is pruned).
type CategoryCart struct {
	CategoryID   string                   `json:"category_id"`
	CategoryName string                   `json:"category_name"`
	VendorID     string                   `json:"vendor_id"`
	VendorName   string                   `json:"vendor_name"`
	Items        map[string]*CartLineItem `json:"items"`
}

func NewCategoryCart(categoryID, categoryName, vendorID, vendorName string) *CategoryCart {
	return &CategoryCart{
		CategoryID:   categoryID,
		CategoryName: categoryName,
		VendorID:     vendorID,
		VendorName:   vendorName,
		Items:        make(map[string]*CartLineItem),
	}
}

// Subtotal returns the sum of price x quantity over all line items.
func (c *CategoryCart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// TotalItems returns the sum of quantities over all line items.
func (c *CategoryCart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// SortedItems returns the line items ordered by product id.
// Map iteration order is not stable; snapshots and API responses need a
// deterministic ordering.
func (c *CategoryCart) SortedItems() []CartLineItem {
	items := make([]CartLineItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// Clone returns a deep copy so callers can hold a cart snapshot without
// observing later registry mutations.
func (c *CategoryCart) Clone() *CategoryCart {
	cp := NewCategoryCart(c.CategoryID, c.CategoryName, c.VendorID, c.VendorName)
	for id, item := range c.Items {
		dup := *item
		cp.Items[id] = &dup
	}
	return cp
}

// Result of a pure vendor-eligibility check before an add mutation.
type AddEligibility struct {
	CanAdd             bool
	ConflictVendorName string
}

// A CategoryCart augmented with minimum-order validation.
type ValidatedCart struct {
	Cart           *CategoryCart
	Subtotal       int64
	MinOrderAmount int64
	MeetsMinimum   bool
}

// Wire form of one cart inside a persisted registry snapshot.
type CartSnapshot struct {
	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name"`
	VendorID     string         `json:"vendor_id"`
	VendorName   string         `json:"vendor_name"`
	Items        []CartLineItem `json:"items"`
}

// Persisted form of a session's whole cart registry.
//
// Save followed by Load must round-trip exactly; carts and items are kept in
// sorted order so encoded snapshots are byte-stable.
type RegistrySnapshot struct {
	Carts            []CartSnapshot   `json:"carts"`
	MinOrderSettings map[string]int64 `json:"cart_min_settings"`
}
