package handler

import (
	"log/slog"
	"time"

	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"

	"github.com/gofiber/fiber/v2"
)

type MovementHandler struct {
	movementRecorder domain.MovementRecorder
}

func NewMovementHandler(movementRecorder domain.MovementRecorder) *MovementHandler {
	return &MovementHandler{movementRecorder}
}

func (h *MovementHandler) History(c *fiber.Ctx) error {
	shopID, err := parseIDParam(c, "shop_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[movementHandler] History", "shopID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[movementHandler] History", "productID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var param domain.MovementHistoryRequest
	if err := c.QueryParser(&param); err != nil {
		slog.WarnContext(c.Context(), "[movementHandler] History", "queryParser", err)
	}

	for _, bound := range []struct {
		name string
		dst  *time.Time
	}{{"from", &param.From}, {"to", &param.To}} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			slog.ErrorContext(c.Context(), "[movementHandler] History", bound.name, err)
			return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
		}
		*bound.dst = parsed
	}

	if param.Page <= 0 {
		param.Page = 1
	}
	if param.Limit <= 0 {
		param.Limit = 10
	}
	if param.Limit > 50 {
		param.Limit = 50
	}
	if param.SortOrder != "asc" && param.SortOrder != "desc" {
		param.SortOrder = "desc"
	}
	if !param.From.IsZero() && !param.To.IsZero() && param.To.Before(param.From) {
		slog.ErrorContext(c.Context(), "[movementHandler] History", "range", "to precedes from")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	movements, metadata, err := h.movementRecorder.History(c.Context(), shopID, productID, param)
	if err != nil {
		slog.ErrorContext(c.Context(), "[movementHandler] History", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessWithMetadata(movements, metadata))
}
