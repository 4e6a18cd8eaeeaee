package apiclient

import (
	"context"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Campaigns возвращает список активных кампаний.
func (c *Client) Campaigns(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	if err := c.do(ctx, http.MethodGet, "/campaigns", nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Announcements возвращает список опубликованных объявлений.
func (c *Client) Announcements(ctx context.Context) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := c.do(ctx, http.MethodGet, "/announcements", nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}
