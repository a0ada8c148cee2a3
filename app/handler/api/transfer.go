package handler

import (
	"log/slog"

	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"
	"inventory-service/pkg/ctxutil"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	transferWorkflow domain.TransferWorkflow
	validator        *validator.Validate
}

func NewTransferHandler(transferWorkflow domain.TransferWorkflow, validator *validator.Validate) *TransferHandler {
	return &TransferHandler{transferWorkflow, validator}
}

func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req domain.TransferCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	transfer, err := h.transferWorkflow.CreateTransfer(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(transfer))
}

func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] GetByID", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	// Internal callers carry no shop claim and see every transfer.
	var shopID *int64
	if shopIDCtx, err := ctxutil.GetShopIDCtx(c.Context()); err == nil {
		shopID = &shopIDCtx
	}

	transfer, err := h.transferWorkflow.GetTransferByID(c.Context(), id, shopID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] GetByID", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Approve", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	transfer, err := h.transferWorkflow.Approve(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Approve", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Ship", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.TransferShipRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Ship", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Ship", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	transfer, err := h.transferWorkflow.Ship(c.Context(), id, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Ship", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Receive", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.TransferReceiveRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Receive", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Receive", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	transfer, err := h.transferWorkflow.Receive(c.Context(), id, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Receive", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Complete", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	transfer, err := h.transferWorkflow.Complete(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Complete", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Cancel", "id", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.TransferCancelRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Cancel", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	transfer, err := h.transferWorkflow.Cancel(c.Context(), id, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] Cancel", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(transfer))
}

func (h *TransferHandler) GetListTransfer(c *fiber.Ctx) error {
	var param domain.GetListTransferRequest
	if err := c.QueryParser(&param); err != nil {
		slog.WarnContext(c.Context(), "[transferHandler] GetListTransfer", "queryParser", err)
	}

	shopID, err := ctxutil.GetShopIDCtx(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] GetListTransfer", "GetShopIDCtx", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
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
	if param.SortBy == "" || (param.SortBy != "created_at" && param.SortBy != "id" && param.SortBy != "priority") {
		param.SortBy = "created_at"
	}
	if param.SortOrder == "" || (param.SortOrder != "asc" && param.SortOrder != "desc") {
		param.SortOrder = "desc"
	}
	switch domain.TransferStatus(param.Status) {
	case domain.TransferStatusPending, domain.TransferStatusApproved, domain.TransferStatusInTransit,
		domain.TransferStatusReceived, domain.TransferStatusCompleted, domain.TransferStatusCancelled:
	default:
		param.Status = ""
	}

	transfers, metadata, err := h.transferWorkflow.GetListTransfer(c.Context(), shopID, param)
	if err != nil {
		slog.ErrorContext(c.Context(), "[transferHandler] GetListTransfer", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessWithMetadata(transfers, metadata))
}
