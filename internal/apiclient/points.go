package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// PointBalance возвращает текущий баланс баллов участника.
func (c *Client) PointBalance(ctx context.Context) (*model.PointBalance, error) {
	var b model.PointBalance
	if err := c.do(ctx, http.MethodGet, "/points/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// PointHistory возвращает страницу операций с баллами.
func (c *Client) PointHistory(ctx context.Context, skip, limit int) ([]model.PointTransaction, error) {
	var txs []model.PointTransaction
	path := fmt.Sprintf("/points/history?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ExchangeOptions возвращает доступные направления обмена баллов.
func (c *Client) ExchangeOptions(ctx context.Context) ([]model.ExchangeOption, error) {
	var opts []model.ExchangeOption
	if err := c.do(ctx, http.MethodGet, "/points/exchange-options", nil, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

type exchangeRequest struct {
	Amount            int64   `json:"amount"`
	Destination       string  `json:"destination"`
	DestinationDetail *string `json:"destination_detail,omitempty"`
}

// CreateExchange подаёт заявку на обмен баллов.
func (c *Client) CreateExchange(ctx context.Context, amount int64, destination string, destinationDetail *string) (*model.Exchange, error) {
	var ex model.Exchange
	body := exchangeRequest{
		Amount:            amount,
		Destination:       destination,
		DestinationDetail: destinationDetail,
	}
	if err := c.do(ctx, http.MethodPost, "/points/exchange", body, &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}
