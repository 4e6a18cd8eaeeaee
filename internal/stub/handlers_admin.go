package stub

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Analytics возвращает агрегированные счётчики панели администратора.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Analytics())
}

// AdminUsers возвращает страницу пользователей с поиском по email и имени.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users := h.store.ListUsers(r.URL.Query().Get("search"), queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	writeJSON(w, http.StatusOK, users)
}

type setUserActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetUserActive включает или отключает учётную запись пользователя.
// Администратор не может отключить самого себя.
func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	admin, _ := currentUser(r.Context())

	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setUserActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if id == admin.ID && !req.IsActive {
		writeDetail(w, http.StatusBadRequest, "cannot disable your own account")
		return
	}

	if err := h.store.SetUserActive(id, req.IsActive); err != nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

type grantRequest struct {
	UserID      int64  `json:"user_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// GrantPoints вручную начисляет баллы пользователю.
func (h *Handler) GrantPoints(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeDetail(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	txID, err := h.store.GrantPoints(req.UserID, req.Amount, req.Description)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "points granted",
		"transaction_id": txID,
	})
}

// AdminReceipts возвращает страницу чеков для проверки с необязательным
// фильтром по статусу.
func (h *Handler) AdminReceipts(w http.ResponseWriter, r *http.Request) {
	receipts := h.store.AllReceipts(r.URL.Query().Get("status"), queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	writeJSON(w, http.StatusOK, receipts)
}

// AdminReceiptByID возвращает любой чек по идентификатору.
func (h *Handler) AdminReceiptByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	receipt, err := h.store.ReceiptByID(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "receipt not found")
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type reviewRequest struct {
	Status          model.ReceiptStatus `json:"status"`
	PointsAwarded   *int64              `json:"points_awarded"`
	RejectionReason *string             `json:"rejection_reason"`
}

// ReviewReceipt подтверждает или отклоняет чек в статусе pending.
func (h *Handler) ReviewReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != model.ReceiptStatusApproved && req.Status != model.ReceiptStatusRejected {
		writeDetail(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	receipt, err := h.store.ReviewReceipt(id, req.Status, req.PointsAwarded, req.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, ErrReceiptNotFound):
			writeDetail(w, http.StatusNotFound, "receipt not found")
		case errors.Is(err, ErrAlreadyReviewed):
			writeDetail(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("review receipt error", zap.Error(err))
			writeDetail(w, http.StatusInternalServerError, "review failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// AdminCampaigns возвращает все кампании, включая неактивные.
func (h *Handler) AdminCampaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Campaigns(false))
}

type campaignCreateRequest struct {
	Title        string             `json:"title"`
	CampaignType model.CampaignType `json:"campaign_type"`
	Description  *string            `json:"description"`
	Points       *int64             `json:"points"`
	IsActive     bool               `json:"is_active"`
}

// CreateCampaign создаёт кампанию.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeDetail(w, http.StatusBadRequest, "title is required")
		return
	}

	campaign := h.store.CreateCampaign(req.Title, req.CampaignType, req.Description, req.Points, req.IsActive)
	writeJSON(w, http.StatusOK, campaign)
}

type campaignUpdateRequest struct {
	Title        *string             `json:"title"`
	CampaignType *model.CampaignType `json:"campaign_type"`
	Description  *string             `json:"description"`
	Points       *int64              `json:"points"`
	IsActive     *bool               `json:"is_active"`
}

// UpdateCampaign изменяет кампанию; отсутствующие поля не трогаются.
func (h *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid campaign id")
		return
	}

	var req campaignUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := h.store.UpdateCampaign(id, req.Title, req.CampaignType, req.Description, req.Points, req.IsActive)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "campaign not found")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// AdminSurveys возвращает страницу всех анкет, включая неактивные.
func (h *Handler) AdminSurveys(w http.ResponseWriter, r *http.Request) {
	surveys := h.store.Surveys(false, queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	writeJSON(w, http.StatusOK, surveys)
}

type surveyCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Points      int64   `json:"points"`
	ExpiresAt   *string `json:"expires_at"`
	IsActive    bool    `json:"is_active"`
}

func parseExpiresAt(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateSurvey создаёт анкету.
func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeDetail(w, http.StatusBadRequest, "title is required")
		return
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "expires_at must be RFC 3339")
		return
	}

	survey := h.store.CreateSurvey(req.Title, req.Description, req.Points, expiresAt, req.IsActive)
	writeJSON(w, http.StatusOK, survey)
}

type surveyUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Points      *int64  `json:"points"`
	ExpiresAt   *string `json:"expires_at"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateSurvey изменяет анкету; отсутствующие поля не трогаются.
func (h *Handler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	var req surveyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "expires_at must be RFC 3339")
		return
	}

	survey, err := h.store.UpdateSurvey(id, req.Title, req.Description, req.Points, expiresAt, req.IsActive)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "survey not found")
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// AdminAnnouncements возвращает все объявления, включая снятые с публикации.
func (h *Handler) AdminAnnouncements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Announcements(false))
}

type announcementCreateRequest struct {
	Title string  `json:"title"`
	Body  *string `json:"body"`
}

// CreateAnnouncement создаёт объявление.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeDetail(w, http.StatusBadRequest, "title is required")
		return
	}

	announcement := h.store.CreateAnnouncement(req.Title, req.Body)
	writeJSON(w, http.StatusOK, announcement)
}

type announcementUpdateRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	IsActive *bool   `json:"is_active"`
}

// UpdateAnnouncement изменяет объявление; отсутствующие поля не трогаются.
func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid announcement id")
		return
	}

	var req announcementUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	announcement, err := h.store.UpdateAnnouncement(id, req.Title, req.Body, req.IsActive)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "announcement not found")
		return
	}
	writeJSON(w, http.StatusOK, announcement)
}
