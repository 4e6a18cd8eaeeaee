package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Вызовы этого файла требуют сессию с административным флагом.
// Клиентская проверка флага носит рекомендательный характер:
// авторитетная проверка выполняется бэкендом.

// Analytics возвращает агрегированные счётчики административной панели.
func (c *Client) Analytics(ctx context.Context) (*model.Analytics, error) {
	var a model.Analytics
	if err := c.do(ctx, http.MethodGet, "/admin/analytics", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AdminUsers возвращает страницу пользователей с необязательным поиском
// по email или имени.
func (c *Client) AdminUsers(ctx context.Context, search string, skip, limit int) ([]model.AdminUser, error) {
	var users []model.AdminUser
	path := fmt.Sprintf("/admin/users?search=%s&skip=%d&limit=%d", url.QueryEscape(search), skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type userActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SetUserActive включает или отключает учётную запись пользователя.
func (c *Client) SetUserActive(ctx context.Context, userID int64, active bool) error {
	var resp messageResponse
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d", userID), userActiveRequest{IsActive: active}, &resp)
}

type grantPointsRequest struct {
	UserID      int64  `json:"user_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

type grantPointsResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
}

// GrantPoints вручную начисляет баллы пользователю и возвращает
// идентификатор созданной операции.
func (c *Client) GrantPoints(ctx context.Context, userID, amount int64, description string) (int64, error) {
	var resp grantPointsResponse
	body := grantPointsRequest{UserID: userID, Amount: amount, Description: description}
	if err := c.do(ctx, http.MethodPost, "/admin/points/grant", body, &resp); err != nil {
		return 0, err
	}
	return resp.TransactionID, nil
}

// AdminReceipts возвращает страницу чеков для проверки.
// Пустой status означает все статусы.
func (c *Client) AdminReceipts(ctx context.Context, status string, skip, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	path := fmt.Sprintf("/admin/receipts?status=%s&skip=%d&limit=%d", url.QueryEscape(status), skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// AdminReceipt возвращает любой чек по идентификатору.
func (c *Client) AdminReceipt(ctx context.Context, id int64) (*model.Receipt, error) {
	var r model.Receipt
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/receipts/%d", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

type receiptReviewRequest struct {
	Status          model.ReceiptStatus `json:"status"`
	PointsAwarded   *int64              `json:"points_awarded,omitempty"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
}

// ReviewReceipt подтверждает или отклоняет чек. Допустимы только переходы
// pending→approved и pending→rejected; остальное отклоняет бэкенд.
func (c *Client) ReviewReceipt(ctx context.Context, id int64, status model.ReceiptStatus, pointsAwarded *int64, rejectionReason *string) (*model.Receipt, error) {
	var r model.Receipt
	body := receiptReviewRequest{
		Status:          status,
		PointsAwarded:   pointsAwarded,
		RejectionReason: rejectionReason,
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/receipts/%d", id), body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CampaignCreate содержит поля создаваемой кампании.
type CampaignCreate struct {
	Title        string             `json:"title"`
	CampaignType model.CampaignType `json:"campaign_type"`
	Description  *string            `json:"description,omitempty"`
	Points       *int64             `json:"points,omitempty"`
	IsActive     bool               `json:"is_active"`
}

// CampaignUpdate содержит изменяемые поля кампании; nil-поля не отправляются.
type CampaignUpdate struct {
	Title        *string             `json:"title,omitempty"`
	CampaignType *model.CampaignType `json:"campaign_type,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Points       *int64              `json:"points,omitempty"`
	IsActive     *bool               `json:"is_active,omitempty"`
}

// AdminCampaigns возвращает все кампании, включая неактивные.
func (c *Client) AdminCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	if err := c.do(ctx, http.MethodGet, "/admin/campaigns", nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CreateCampaign создаёт кампанию.
func (c *Client) CreateCampaign(ctx context.Context, data CampaignCreate) (*model.Campaign, error) {
	var cmp model.Campaign
	if err := c.do(ctx, http.MethodPost, "/admin/campaigns", data, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// UpdateCampaign изменяет кампанию.
func (c *Client) UpdateCampaign(ctx context.Context, id int64, data CampaignUpdate) (*model.Campaign, error) {
	var cmp model.Campaign
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/campaigns/%d", id), data, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// SurveyCreate содержит поля создаваемой анкеты.
type SurveyCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Points      int64   `json:"points"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// SurveyUpdate содержит изменяемые поля анкеты; nil-поля не отправляются.
type SurveyUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Points      *int64  `json:"points,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// AdminSurveys возвращает страницу всех анкет, включая неактивные.
func (c *Client) AdminSurveys(ctx context.Context, skip, limit int) ([]model.Survey, error) {
	var surveys []model.Survey
	path := fmt.Sprintf("/admin/surveys?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// CreateSurvey создаёт анкету.
func (c *Client) CreateSurvey(ctx context.Context, data SurveyCreate) (*model.Survey, error) {
	var s model.Survey
	if err := c.do(ctx, http.MethodPost, "/admin/surveys", data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSurvey изменяет анкету.
func (c *Client) UpdateSurvey(ctx context.Context, id int64, data SurveyUpdate) (*model.Survey, error) {
	var s model.Survey
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/surveys/%d", id), data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AnnouncementCreate содержит поля создаваемого объявления.
type AnnouncementCreate struct {
	Title string  `json:"title"`
	Body  *string `json:"body,omitempty"`
}

// AnnouncementUpdate содержит изменяемые поля объявления; nil-поля не отправляются.
type AnnouncementUpdate struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AdminAnnouncements возвращает все объявления, включая снятые с публикации.
func (c *Client) AdminAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := c.do(ctx, http.MethodGet, "/admin/announcements", nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// CreateAnnouncement создаёт объявление.
func (c *Client) CreateAnnouncement(ctx context.Context, data AnnouncementCreate) (*model.Announcement, error) {
	var a model.Announcement
	if err := c.do(ctx, http.MethodPost, "/admin/announcements", data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAnnouncement изменяет объявление.
func (c *Client) UpdateAnnouncement(ctx context.Context, id int64, data AnnouncementUpdate) (*model.Announcement, error) {
	var a model.Announcement
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/announcements/%d", id), data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
