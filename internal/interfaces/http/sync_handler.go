package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/application/usecase"
)

// SyncHandler expone el protocolo de sincronización: aceptación de lotes de
// cambios (push) y lectura incremental (pull).
type SyncHandler struct {
	uc *usecase.SyncUseCase
}

// NewSyncHandler construye el handler de sync.
func NewSyncHandler(uc *usecase.SyncUseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Push POST /api/sync/push — recibe el lote ordenado y responde un resultado
// por entrada, en el mismo orden. Las entradas malas producen conflict, nunca
// abortan el lote.
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SyncPushRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.uc.Push(userID, in))
}

// Pull GET /api/sync/pull?since=2024-01-01T00:00:00Z — registros modificados
// después de since (ausente equivale a época cero) más el reloj del servidor.
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, raw); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "since debe ser ISO-8601"})
			}
		}
		since = t
	}
	out, err := h.uc.Pull(userID, since)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
