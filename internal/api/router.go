package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chefcart-service/internal/api/handlers"
	"chefcart-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	sessions *services.SessionManager,
	evaluator *services.ZoneEvaluator,
	orchestrator *services.CheckoutOrchestrator,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	cartHandler := &handlers.CartHandler{Sessions: sessions}
	deliveryHandler := &handlers.DeliveryHandler{Evaluator: evaluator}
	checkoutHandler := &handlers.CheckoutHandler{Orchestrator: orchestrator}

	r.Get("/health", handlers.Health)

	r.Route("/carts", func(r chi.Router) {
		r.Get("/", cartHandler.List)
		r.Delete("/", cartHandler.ClearAll)
		r.Post("/items", cartHandler.AddItem)
		r.Route("/{categoryID}", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.ClearCategory)
			r.Put("/items/{productID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})
	})

	r.Post("/delivery/evaluate", deliveryHandler.Evaluate)

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/prepare", checkoutHandler.Prepare)
		r.Post("/commit", checkoutHandler.Commit)
	})

	return r
}
