package handler

import (
	"log/slog"

	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type DamageHandler struct {
	damageTracker domain.DamageTracker
	validator     *validator.Validate
}

func NewDamageHandler(damageTracker domain.DamageTracker, validator *validator.Validate) *DamageHandler {
	return &DamageHandler{damageTracker, validator}
}

func (h *DamageHandler) FileInsuranceClaim(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] FileInsuranceClaim", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.InsuranceClaimRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] FileInsuranceClaim", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] FileInsuranceClaim", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	record, err := h.damageTracker.FileInsuranceClaim(c.Context(), id, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] FileInsuranceClaim", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(record))
}

func (h *DamageHandler) GetByTransferID(c *fiber.Ctx) error {
	transferID, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] GetByTransferID", "transferID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	records, err := h.damageTracker.GetByTransferID(c.Context(), transferID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] GetByTransferID", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	total, err := h.damageTracker.TotalDamageValue(c.Context(), transferID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[damageHandler] GetByTransferID", "totalDamageValue", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(fiber.Map{
		"records":            records,
		"total_damage_value": total,
	}))
}
