package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"chefcart-service/internal/api/dto"
	"chefcart-service/internal/domain"
	"chefcart-service/internal/services"
)

// CartHandler exposes the per-session cart registry over HTTP.
type CartHandler struct {
	Sessions *services.SessionManager
}

func (h *CartHandler) registry(w http.ResponseWriter, r *http.Request) (*services.CartRegistry, bool) {
	session, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}

	registry, err := h.Sessions.Registry(r.Context(), session)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return registry, true
}

// List returns every category cart with minimum-order validation.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	validated := registry.AllCartsWithValidation()
	res := dto.ListCartsResponse{
		Carts:      make([]dto.CartResponse, 0, len(validated)),
		TotalItems: registry.TotalItemsAll(),
	}
	for _, vc := range validated {
		res.Carts = append(res.Carts, cartResponse(vc))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get returns one category's cart with validation.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	vc, ok := registry.CartWithValidation(categoryID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no cart for category")
		return
	}

	writeJSON(w, r, http.StatusOK, cartResponse(vc))
}

// AddItem adds one unit of a product to its category cart. A vendor conflict
// is reported as a structured response, not an error status, so the
// storefront can show the blocking vendor's name.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if strings.TrimSpace(req.CategoryID) == "" || strings.TrimSpace(req.VendorID) == "" {
		writeError(w, r, http.StatusBadRequest, "category_id and vendor_id are required")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, r, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Price < 0 {
		writeError(w, r, http.StatusBadRequest, "price must be non-negative")
		return
	}

	if elig := registry.CanAddItem(req.VendorID, req.CategoryID); !elig.CanAdd {
		writeJSON(w, r, http.StatusConflict, dto.AddItemResponse{
			Added:          false,
			ConflictVendor: elig.ConflictVendorName,
			Message:        "your " + req.CategoryName + " cart already has items from " + elig.ConflictVendorName,
		})
		return
	}

	item := domain.CartLineItem{
		ProductID:  req.ProductID,
		Name:       req.Name,
		Price:      req.Price,
		ImageURL:   req.ImageURL,
		VendorID:   req.VendorID,
		VendorName: req.VendorName,
		CategoryID: req.CategoryID,
	}
	if !registry.AddToCart(r.Context(), item, req.CategoryName) {
		writeError(w, r, http.StatusBadRequest, "item could not be added")
		return
	}

	vc, _ := registry.CartWithValidation(req.CategoryID)
	cart := cartResponse(vc)
	writeJSON(w, r, http.StatusOK, dto.AddItemResponse{Added: true, Cart: &cart})
}

// UpdateQuantity sets a line item's quantity; zero or less removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	productID := chi.URLParam(r, "productID")
	registry.UpdateQuantity(r.Context(), categoryID, productID, req.Quantity)

	h.respondCart(w, r, registry, categoryID)
}

// RemoveItem deletes a line item, pruning the cart when it empties.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	categoryID := chi.URLParam(r, "categoryID")
	registry.RemoveFromCart(r.Context(), categoryID, chi.URLParam(r, "productID"))

	h.respondCart(w, r, registry, categoryID)
}

// ClearCategory removes one category's cart.
func (h *CartHandler) ClearCategory(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	registry.ClearCart(r.Context(), chi.URLParam(r, "categoryID"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll resets the whole session.
func (h *CartHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	registry, ok := h.registry(w, r)
	if !ok {
		return
	}

	registry.ClearAllCarts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// respondCart writes the category's current cart, or the empty-cart shape
// when the mutation pruned it.
func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, registry *services.CartRegistry, categoryID string) {
	vc, ok := registry.CartWithValidation(categoryID)
	if !ok {
		writeJSON(w, r, http.StatusOK, dto.CartResponse{
			CategoryID: categoryID,
			Items:      []dto.LineItemResponse{},
		})
		return
	}
	writeJSON(w, r, http.StatusOK, cartResponse(vc))
}

func cartResponse(vc domain.ValidatedCart) dto.CartResponse {
	items := vc.Cart.SortedItems()
	res := dto.CartResponse{
		CategoryID:     vc.Cart.CategoryID,
		CategoryName:   vc.Cart.CategoryName,
		VendorID:       vc.Cart.VendorID,
		VendorName:     vc.Cart.VendorName,
		Items:          make([]dto.LineItemResponse, 0, len(items)),
		TotalItems:     vc.Cart.TotalItems(),
		Subtotal:       vc.Subtotal,
		MinOrderAmount: vc.MinOrderAmount,
		MeetsMinimum:   vc.MeetsMinimum,
	}
	for _, item := range items {
		res.Items = append(res.Items, dto.LineItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			LineTotal: item.LineTotal(),
		})
	}
	return res
}
