package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Ограничение размера изображения чека.
const maxUploadSize = 5 << 20

// Handler реализует HTTP-обработчики заглушки бэкенда.
type Handler struct {
	store  *Store
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewHandler создаёт обработчики поверх хранилища и эмитента токенов.
func NewHandler(store *Store, issuer *TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		issuer: issuer,
		logger: logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail пишет тело ошибки в формате бэкенда: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code"`
}

// Register регистрирует участника и сразу выдаёт пару токенов.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.store.CreateUser(req.Email, req.Password, req.Name, req.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvalidReferralCode):
			writeDetail(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("register error", zap.Error(err))
			writeDetail(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	pair, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("issue tokens error", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "registration complete",
		"user": map[string]any{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.Name,
		},
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login аутентифицирует участника и выдаёт пару токенов.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserInactive):
			writeDetail(w, http.StatusForbidden, err.Error())
		default:
			writeDetail(w, http.StatusUnauthorized, "invalid email or password")
		}
		return
	}

	pair, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("issue tokens error", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh обменивает refresh-токен на новую пару токенов.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := h.issuer.Parse(req.RefreshToken, tokenTypeRefresh)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.store.UserByID(userID)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("issue tokens error", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Me возвращает профиль текущего участника.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, u)
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	Nickname *string `json:"nickname"`
}

// UpdateMe обновляет имя и/или никнейм текущего участника.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.store.UpdateUser(u.ID, req.Name, req.Nickname)
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UploadReceipt принимает multipart-форму с изображением чека.
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "cannot read image")
		return
	}
	if len(data) > maxUploadSize {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("file size must be at most %dMB", maxUploadSize/(1<<20)))
		return
	}

	amount, err := strconv.ParseInt(r.FormValue("amount"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "amount must be an integer")
		return
	}

	var purchasedAt *time.Time
	if v := r.FormValue("purchased_at"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			purchasedAt = &t
		}
	}

	imageURL := h.store.SaveImage(header.Filename, data)
	receipt := h.store.AddReceipt(u.ID, imageURL, r.FormValue("store_name"), amount, purchasedAt)
	writeJSON(w, http.StatusOK, receipt)
}

// Receipts возвращает страницу чеков текущего участника.
func (h *Handler) Receipts(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	receipts := h.store.UserReceipts(u.ID, queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	writeJSON(w, http.StatusOK, receipts)
}

// ReceiptByID возвращает чек текущего участника.
func (h *Handler) ReceiptByID(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	receipt, err := h.store.UserReceiptByID(u.ID, id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "receipt not found")
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// BuyBackTargets возвращает список товаров программы выкупа.
func (h *Handler) BuyBackTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.BuyBackTargets{
		Items:   []string{},
		Message: "buy-back targets are updated regularly",
	})
}

// PointBalance возвращает баланс текущего участника.
func (h *Handler) PointBalance(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, model.PointBalance{Balance: h.store.Balance(u.ID)})
}

// PointHistory возвращает страницу операций с баллами.
func (h *Handler) PointHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	txs := h.store.PointHistory(u.ID, queryInt(r, "skip", 0), queryInt(r, "limit", 50))
	writeJSON(w, http.StatusOK, txs)
}

// ExchangeOptions возвращает направления обмена баллов.
func (h *Handler) ExchangeOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ExchangeOptions())
}

type exchangeRequest struct {
	Amount            int64   `json:"amount"`
	Destination       string  `json:"destination"`
	DestinationDetail *string `json:"destination_detail"`
}

// CreateExchange подаёт заявку на обмен баллов.
func (h *Handler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Destination == "" {
		writeDetail(w, http.StatusBadRequest, "destination is required")
		return
	}

	ex, err := h.store.CreateExchange(u.ID, req.Amount, req.Destination, req.DestinationDetail)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// Surveys возвращает страницу активных анкет.
func (h *Handler) Surveys(w http.ResponseWriter, r *http.Request) {
	surveys := h.store.Surveys(true, queryInt(r, "skip", 0), queryInt(r, "limit", 20))
	writeJSON(w, http.StatusOK, surveys)
}

// SurveyByID возвращает анкету по идентификатору.
func (h *Handler) SurveyByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	survey, err := h.store.SurveyByID(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "survey not found")
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// SurveyAnswered сообщает, отвечал ли участник на анкету.
func (h *Handler) SurveyAnswered(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid survey id")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"answered": h.store.HasAnswered(u.ID, id)})
}

type surveyAnswerRequest struct {
	Answers map[string]any `json:"answers"`
}

// SubmitSurveyAnswer принимает ответы на анкету и начисляет баллы.
func (h *Handler) SubmitSurveyAnswer(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	id, err := parseID(r, "id")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	var req surveyAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answerID, points, err := h.store.SubmitAnswer(u.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrSurveyNotFound):
			writeDetail(w, http.StatusNotFound, "survey not found")
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.SurveyAnswerResult{
		ID:            answerID,
		SurveyID:      id,
		PointsAwarded: points,
	})
}

// MyReferralCode возвращает реферальный код участника со ссылкой.
func (h *Handler) MyReferralCode(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	code, err := h.store.ReferralCodeFor(u.ID)
	if err != nil {
		h.logger.Error("referral code error", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "cannot create referral code")
		return
	}

	writeJSON(w, http.StatusOK, model.ReferralCode{
		ReferralCode: code,
		ShareURL:     "https://example.com/register?ref=" + code,
	})
}

// ReferralHistory возвращает историю приглашений участника.
func (h *Handler) ReferralHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, h.store.ReferralHistoryFor(u.ID))
}

type trackRequest struct {
	Merchant string  `json:"merchant"`
	OrderID  *string `json:"order_id"`
	Amount   *int64  `json:"amount"`
}

// TrackPurchase регистрирует покупку в интернет-магазине.
func (h *Handler) TrackPurchase(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Merchant == "" {
		writeDetail(w, http.StatusBadRequest, "merchant is required")
		return
	}

	track := h.store.TrackPurchase(u.ID, req.Merchant, req.OrderID, req.Amount)
	writeJSON(w, http.StatusOK, track)
}

// ShoppingHistory возвращает историю отслеженных покупок.
func (h *Handler) ShoppingHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, h.store.ShoppingHistoryFor(u.ID))
}

// Campaigns возвращает активные кампании.
func (h *Handler) Campaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Campaigns(true))
}

// Announcements возвращает опубликованные объявления.
func (h *Handler) Announcements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Announcements(true))
}

// ServeUpload отдаёт сохранённое изображение чека.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	data, ok := h.store.Image(chi.URLParam(r, "name"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
