package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facex/internal/session"
)

// SessionHandler exposes the explicit session-clear action
type SessionHandler struct {
	store  *session.Store
	logger *slog.Logger
}

func NewSessionHandler(store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// ClearResponse reports how many records a clear discarded
type ClearResponse struct {
	Cleared int `json:"cleared"`
}

// Clear handles DELETE /v1/session. Clearing an empty session is fine.
func (h *SessionHandler) Clear(c *fiber.Ctx) error {
	cleared := h.store.Len()
	h.store.Clear()

	h.logger.Info("session cleared", slog.Int("records", cleared))
	return c.JSON(ClearResponse{Cleared: cleared})
}
