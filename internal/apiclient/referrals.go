package apiclient

import (
	"context"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// MyReferralCode возвращает реферальный код участника и ссылку для приглашения.
func (c *Client) MyReferralCode(ctx context.Context) (*model.ReferralCode, error) {
	var code model.ReferralCode
	if err := c.do(ctx, http.MethodGet, "/referrals/my-code", nil, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

// ReferralHistory возвращает историю успешных приглашений участника.
func (c *Client) ReferralHistory(ctx context.Context) ([]model.ReferralHistoryItem, error) {
	var items []model.ReferralHistoryItem
	if err := c.do(ctx, http.MethodGet, "/referrals/history", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
