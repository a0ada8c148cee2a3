package handler

import (
	"inventory-service/app/middleware"
	"inventory-service/config"

	"github.com/gofiber/fiber/v2"
)

func SetupRouter(app *fiber.App,
	shopHandler *ShopHandler,
	stockHandler *StockHandler,
	transferHandler *TransferHandler,
	movementHandler *MovementHandler,
	damageHandler *DamageHandler,
	cfg *config.Config) {

	api := app.Group("/inventory-service").Use(middleware.Auth(cfg.Jwt.SecretKey))

	api.Post("/shops", shopHandler.Create)
	api.Get("/shops", shopHandler.GetListShop)
	api.Get("/shops/:id", shopHandler.GetByID)

	api.Get("/shops/:shop_id/stocks", stockHandler.GetListStock)
	api.Get("/shops/:shop_id/stocks/low", stockHandler.LowStockItems)
	api.Get("/shops/:shop_id/stocks/overstocked", stockHandler.OverstockedItems)
	api.Put("/stocks/levels", stockHandler.SetLevels)
	api.Get("/shops/:shop_id/products/:product_id/movements", movementHandler.History)

	api.Post("/transfers", transferHandler.Create)
	api.Get("/transfers", transferHandler.GetListTransfer)
	api.Get("/transfers/:id", transferHandler.GetByID)
	api.Post("/transfers/:id/approve", transferHandler.Approve)
	api.Post("/transfers/:id/ship", transferHandler.Ship)
	api.Post("/transfers/:id/receive", transferHandler.Receive)
	api.Post("/transfers/:id/complete", transferHandler.Complete)
	api.Post("/transfers/:id/cancel", transferHandler.Cancel)

	api.Get("/transfers/:id/damages", damageHandler.GetByTransferID)
	api.Post("/damages/:id/insurance-claim", damageHandler.FileInsuranceClaim)

	internal := app.Group("/internal/inventory-service").Use(middleware.AuthInternal(cfg))
	internal.Post("/stocks/adjust", stockHandler.Adjust)
	internal.Post("/stocks/reserve", stockHandler.Reserve)
	internal.Post("/stocks/release", stockHandler.Release)
	internal.Post("/shops/:shop_id/products/:product_id/totals/sync", stockHandler.SyncTotal)
}
