package calculator

import (
	"github.com/go-chi/chi/v5"

	"wrong-calculator/internal/core"
)

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/add", h.BinaryOp(core.OpAdd))
		r.Post("/subtract", h.BinaryOp(core.OpSubtract))
		r.Post("/multiply", h.BinaryOp(core.OpMultiply))
		r.Post("/divide", h.BinaryOp(core.OpDivide))
		r.Post("/press", h.Press)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{id}", h.GetSession)
			r.Delete("/{id}", h.DeleteSession)
			r.Post("/{id}/events", h.PressKeys)
		})
	})
}
