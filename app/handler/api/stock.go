package handler

import (
	"context"
	"log/slog"
	"strconv"

	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	stockLedger domain.StockLedger
	validator   *validator.Validate
}

func NewStockHandler(stockLedger domain.StockLedger, validator *validator.Validate) *StockHandler {
	return &StockHandler{
		stockLedger: stockLedger,
		validator:   validator,
	}
}

func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var req domain.StockAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] Adjust", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] Adjust", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	stock, err := h.stockLedger.Adjust(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] Adjust", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(stock))
}

func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, h.stockLedger.Reserve, "Reserve")
}

func (h *StockHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, h.stockLedger.Release, "Release")
}

func (h *StockHandler) reservation(c *fiber.Ctx, op func(ctx context.Context, req domain.StockReservationRequest) (domain.StockRecord, error), name string) error {
	var req domain.StockReservationRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] "+name, "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] "+name, "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	stock, err := op(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] "+name, "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(stock))
}

func (h *StockHandler) SetLevels(c *fiber.Ctx) error {
	var req domain.StockLevelsRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SetLevels", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SetLevels", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	if err := h.stockLedger.SetLevels(c.Context(), req); err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SetLevels", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(nil))
}

func (h *StockHandler) GetListStock(c *fiber.Ctx) error {
	shopID, err := parseIDParam(c, "shop_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] GetListStock", "shopID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	param := domain.GetListStockRequest{}
	if err := c.QueryParser(&param); err != nil {
		slog.WarnContext(c.Context(), "[stockHandler] GetListStock", "queryParser", err)
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
	if param.SortBy == "" || (param.SortBy != "created_at" && param.SortBy != "product_id" && param.SortBy != "quantity") {
		param.SortBy = "created_at"
	}
	if param.SortOrder == "" || (param.SortOrder != "asc" && param.SortOrder != "desc") {
		param.SortOrder = "desc"
	}

	stocks, metadata, err := h.stockLedger.GetListStock(c.Context(), shopID, param)
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] GetListStock", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessWithMetadata(stocks, metadata))
}

func (h *StockHandler) LowStockItems(c *fiber.Ctx) error {
	return h.stockCondition(c, h.stockLedger.LowStockItems, "LowStockItems")
}

func (h *StockHandler) OverstockedItems(c *fiber.Ctx) error {
	return h.stockCondition(c, h.stockLedger.OverstockedItems, "OverstockedItems")
}

func (h *StockHandler) stockCondition(c *fiber.Ctx, op func(ctx context.Context, shopID int64) ([]domain.StockRecord, error), name string) error {
	shopID, err := parseIDParam(c, "shop_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] "+name, "shopID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	stocks, err := op(c.Context(), shopID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] "+name, "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(stocks))
}

func (h *StockHandler) SyncTotal(c *fiber.Ctx) error {
	shopID, err := parseIDParam(c, "shop_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SyncTotal", "shopID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	productID, err := parseIDParam(c, "product_id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SyncTotal", "productID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	total, err := h.stockLedger.SyncTotal(c.Context(), shopID, productID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[stockHandler] SyncTotal", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(total))
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	idStr := c.Params(name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}
