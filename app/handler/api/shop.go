package handler

import (
	"log/slog"

	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ShopHandler struct {
	shopService domain.ShopService
	validator   *validator.Validate
}

func NewShopHandler(shopService domain.ShopService, validator *validator.Validate) *ShopHandler {
	return &ShopHandler{shopService, validator}
}

func (h *ShopHandler) Create(c *fiber.Ctx) error {
	var req domain.ShopCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	shop, err := h.shopService.Create(c.Context(), &req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(shop))
}

func (h *ShopHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] GetByID", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	shop, err := h.shopService.GetByID(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] GetByID", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(shop))
}

func (h *ShopHandler) GetListShop(c *fiber.Ctx) error {
	var param domain.GetListShopRequest
	if err := c.QueryParser(&param); err != nil {
		slog.WarnContext(c.Context(), "[shopHandler] GetListShop", "queryParser", err)
	}

	if param.Page <= 0 {
		param.Page = 1
	}
	if param.Limit <= 0 {
		param.Limit = 10
	}
	if param.Limit > 20 {
		param.Limit = 20
	}
	if param.SortBy != "created_at" && param.SortBy != "name" {
		param.SortBy = "created_at"
	}
	if param.SortOrder != "asc" && param.SortOrder != "desc" {
		param.SortOrder = "desc"
	}

	shops, metadata, err := h.shopService.GetListShop(c.Context(), param)
	if err != nil {
		slog.ErrorContext(c.Context(), "[shopHandler] GetListShop", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessWithMetadata(shops, metadata))
}
