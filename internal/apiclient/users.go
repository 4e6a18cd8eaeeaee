package apiclient

import (
	"context"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Me возвращает профиль текущего участника.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type updateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// UpdateMe обновляет имя и/или никнейм текущего участника.
// Поля со значением nil не отправляются.
func (c *Client) UpdateMe(ctx context.Context, name, nickname *string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPatch, "/users/me", updateMeRequest{Name: name, Nickname: nickname}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
