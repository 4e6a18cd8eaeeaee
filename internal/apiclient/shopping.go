package apiclient

import (
	"context"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

type trackRequest struct {
	Merchant string  `json:"merchant"`
	OrderID  *string `json:"order_id,omitempty"`
	Amount   *int64  `json:"amount,omitempty"`
}

// TrackPurchase регистрирует покупку в интернет-магазине для начисления баллов.
func (c *Client) TrackPurchase(ctx context.Context, merchant string, orderID *string, amount *int64) (*model.ShoppingTrack, error) {
	var t model.ShoppingTrack
	body := trackRequest{Merchant: merchant, OrderID: orderID, Amount: amount}
	if err := c.do(ctx, http.MethodPost, "/shopping/track", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ShoppingHistory возвращает историю отслеженных покупок участника.
func (c *Client) ShoppingHistory(ctx context.Context) ([]model.ShoppingTrack, error) {
	var tracks []model.ShoppingTrack
	if err := c.do(ctx, http.MethodGet, "/shopping/history", nil, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}
