package domain

import "context"

type StockMessage struct {
	ShopID    int64 `json:"shop_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Available int64 `json:"available"`
}

type BrokerPublisher interface {
	PublishStockAvailable(ctx context.Context, data StockMessage) error
}
