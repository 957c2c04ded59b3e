package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"chefcart-service/internal/api/dto"
	"chefcart-service/internal/domain"
	"chefcart-service/internal/services"
)

// CheckoutHandler drives the prepare/commit checkout flow.
type CheckoutHandler struct {
	Orchestrator *services.CheckoutOrchestrator
}

// Prepare validates one category cart against the delivery point and freezes
// it into a submittable checkout request.
func (h *CheckoutHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req dto.PrepareCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.CategoryID == "" {
		writeError(w, r, http.StatusBadRequest, "category_id is required")
		return
	}

	point := domain.Coordinates{Lat: req.Latitude, Lon: req.Longitude}
	checkout, err := h.Orchestrator.Prepare(r.Context(), session, req.CategoryID, point)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, checkoutResponse(checkout))
}

// Commit submits a prepared request with the customer's identity. The cart is
// only cleared on the order collaborator's success response.
func (h *CheckoutHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionID(w, r); !ok {
		return
	}

	var req dto.CommitCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request_id")
		return
	}

	customer := domain.CustomerDetails{
		Name:    req.Customer.Name,
		Phone:   req.Customer.Phone,
		Address: req.Customer.Address,
		Email:   req.Customer.Email,
	}

	placed, err := h.Orchestrator.Commit(r.Context(), requestID, customer)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CommitCheckoutResponse{
		OrderID: placed.OrderID,
		Status:  placed.Status,
	})
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		writeError(w, r, http.StatusNotFound, "no cart exists for the category")
	case errors.Is(err, domain.ErrOutsideServiceArea):
		writeError(w, r, http.StatusUnprocessableEntity, "address is outside the delivery area")
	case errors.Is(err, domain.ErrBelowMinimumOrder):
		writeError(w, r, http.StatusUnprocessableEntity, "cart subtotal is below the minimum order")
	case errors.Is(err, domain.ErrUnknownCheckout):
		writeError(w, r, http.StatusNotFound, "unknown checkout request")
	case errors.Is(err, domain.ErrCheckoutCommitted):
		writeError(w, r, http.StatusConflict, "checkout request already committed")
	case errors.Is(err, domain.ErrNetworkFailure):
		// Retryable: the cart and prepared request survive.
		writeError(w, r, http.StatusBadGateway, "order service unavailable, please retry")
	default:
		log.Printf("checkout failed: %v", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}

func checkoutResponse(c *domain.CheckoutRequest) dto.CheckoutResponse {
	res := dto.CheckoutResponse{
		RequestID:   c.ID.String(),
		CategoryID:  c.CategoryID,
		VendorID:    c.VendorID,
		VendorName:  c.VendorName,
		Items:       make([]dto.LineItemResponse, 0, len(c.Items)),
		Subtotal:    c.Subtotal,
		DeliveryFee: c.DeliveryFee,
		Total:       c.Total,
		DistanceKm:  c.DistanceKm,
		CreatedAt:   c.CreatedAt,
	}
	for _, item := range c.Items {
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
