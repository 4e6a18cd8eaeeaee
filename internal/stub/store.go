// Package stub реализует локальную заглушку бэкенда программы лояльности:
// полный REST-контракт дашборда поверх хранилища в памяти. Используется для
// разработки без настоящего бэкенда и в интеграционных тестах клиента.
package stub

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Ошибки хранилища заглушки.
var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserInactive         = errors.New("user account is disabled")
	ErrReceiptNotFound      = errors.New("receipt not found")
	ErrAlreadyReviewed      = errors.New("receipt already reviewed")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrSurveyNotFound       = errors.New("survey not found")
	ErrAlreadyAnswered      = errors.New("survey already answered")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrInvalidReferralCode  = errors.New("invalid referral code")
	ErrInsufficientBalance  = errors.New("insufficient point balance")
	ErrExchangeTooSmall     = errors.New("exchange amount is below the minimum")
)

// Баллы и лимиты заглушки.
const (
	referralPoints    = 500
	minExchangeAmount = 300
)

type userRecord struct {
	user         model.User
	passwordHash []byte
	referralCode string
	balance      int64
}

type pointRecord struct {
	userID int64
	tx     model.PointTransaction
}

type exchangeRecord struct {
	userID int64
	ex     model.Exchange
}

type trackRecord struct {
	userID int64
	track  model.ShoppingTrack
}

type answerKey struct {
	userID   int64
	surveyID int64
}

// Store — хранилище заглушки в памяти. Все операции потокобезопасны.
type Store struct {
	mu sync.Mutex

	now func() time.Time

	seq           int64
	users         []*userRecord
	receipts      []*model.Receipt
	campaigns     []*model.Campaign
	surveys       []*model.Survey
	announcements []*model.Announcement
	referrals     []model.ReferralHistoryItem
	referrers     map[int64][]int // индексы referrals по пригласившему
	points        []pointRecord
	exchanges     []exchangeRecord
	tracks        []trackRecord
	answers       map[answerKey]int64
	images        map[string][]byte

	totalGranted   int64
	totalExchanged int64
}

// NewStore создаёт пустое хранилище заглушки.
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		referrers: make(map[int64][]int),
		answers:   make(map[answerKey]int64),
		images:    make(map[string][]byte),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) findUser(id int64) *userRecord {
	for _, u := range s.users {
		if u.user.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) findUserByEmail(email string) *userRecord {
	for _, u := range s.users {
		if strings.EqualFold(u.user.Email, email) {
			return u
		}
	}
	return nil
}

// CreateUser регистрирует участника. Реферальный код, если указан, должен
// существовать: пригласившему начисляются баллы и пишется запись истории.
func (s *Store) CreateUser(email, password, name, referralCode string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByEmail(email) != nil {
		return model.User{}, ErrEmailTaken
	}

	var referrer *userRecord
	if referralCode != "" {
		for _, u := range s.users {
			if u.referralCode != "" && u.referralCode == referralCode {
				referrer = u
				break
			}
		}
		if referrer == nil {
			return model.User{}, ErrInvalidReferralCode
		}
	}

	rec := &userRecord{
		user: model.User{
			ID:        s.nextID(),
			Email:     email,
			Name:      name,
			IsActive:  true,
			CreatedAt: s.now(),
		},
		passwordHash: hash,
	}
	s.users = append(s.users, rec)

	if referrer != nil {
		s.grantLocked(referrer.user.ID, referralPoints, "referral bonus", "referral")
		item := model.ReferralHistoryItem{
			ID:            s.nextID(),
			ReferredID:    rec.user.ID,
			PointsAwarded: referralPoints,
			CreatedAt:     s.now(),
		}
		s.referrals = append(s.referrals, item)
		s.referrers[referrer.user.ID] = append(s.referrers[referrer.user.ID], len(s.referrals)-1)
	}

	return rec.user, nil
}

// Authenticate проверяет учётные данные и возвращает участника.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	s.mu.Lock()
	rec := s.findUserByEmail(email)
	s.mu.Unlock()

	if rec == nil {
		return model.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	if !rec.user.IsActive {
		return model.User{}, ErrUserInactive
	}
	return rec.user, nil
}

// UserByID возвращает участника по идентификатору.
func (s *Store) UserByID(id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findUser(id)
	if rec == nil {
		return model.User{}, ErrUserNotFound
	}
	return rec.user, nil
}

// UpdateUser обновляет имя и/или никнейм участника.
func (s *Store) UpdateUser(id int64, name, nickname *string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findUser(id)
	if rec == nil {
		return model.User{}, ErrUserNotFound
	}
	if name != nil {
		rec.user.Name = *name
	}
	if nickname != nil {
		rec.user.Nickname = nickname
	}
	return rec.user, nil
}

// ListUsers возвращает страницу пользователей с поиском по email и имени.
func (s *Store) ListUsers(search string, skip, limit int) []model.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))
	var out []model.AdminUser
	for _, u := range s.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.user.Email), search) &&
			!strings.Contains(strings.ToLower(u.user.Name), search) {
			continue
		}
		out = append(out, model.AdminUser{
			ID:        u.user.ID,
			Email:     u.user.Email,
			Name:      u.user.Name,
			IsActive:  u.user.IsActive,
			IsAdmin:   u.user.IsAdmin,
			CreatedAt: u.user.CreatedAt,
		})
	}
	return page(out, skip, limit)
}

// SetUserActive включает или отключает учётную запись.
func (s *Store) SetUserActive(id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findUser(id)
	if rec == nil {
		return ErrUserNotFound
	}
	rec.user.IsActive = active
	return nil
}

// grantLocked начисляет баллы; вызывающий держит s.mu.
func (s *Store) grantLocked(userID, amount int64, description, txType string) int64 {
	rec := s.findUser(userID)
	if rec == nil {
		return 0
	}
	rec.balance += amount
	if amount > 0 {
		s.totalGranted += amount
	}
	desc := description
	tx := model.PointTransaction{
		ID:          s.nextID(),
		Amount:      amount,
		Type:        txType,
		Description: &desc,
		CreatedAt:   s.now(),
	}
	s.points = append(s.points, pointRecord{userID: userID, tx: tx})
	return tx.ID
}

// GrantPoints вручную начисляет баллы пользователю.
func (s *Store) GrantPoints(userID, amount int64, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUser(userID) == nil {
		return 0, ErrUserNotFound
	}
	return s.grantLocked(userID, amount, description, "grant"), nil
}

// Balance возвращает баланс баллов участника.
func (s *Store) Balance(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findUser(userID)
	if rec == nil {
		return 0
	}
	return rec.balance
}

// PointHistory возвращает страницу операций с баллами, новые первыми.
func (s *Store) PointHistory(userID int64, skip, limit int) []model.PointTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.PointTransaction
	for i := len(s.points) - 1; i >= 0; i-- {
		if s.points[i].userID == userID {
			out = append(out, s.points[i].tx)
		}
	}
	return page(out, skip, limit)
}

// ExchangeOptions возвращает статический список направлений обмена.
func (s *Store) ExchangeOptions() []model.ExchangeOption {
	giftDesc := "e-gift code, delivered by email"
	cashDesc := "bank transfer, 1 point = 1 yen"
	return []model.ExchangeOption{
		{ID: "gift-card", Name: "Gift card", MinAmount: minExchangeAmount, Description: &giftDesc},
		{ID: "bank", Name: "Bank transfer", MinAmount: 1000, Description: &cashDesc},
	}
}

// CreateExchange подаёт заявку на обмен и списывает баллы.
func (s *Store) CreateExchange(userID, amount int64, destination string, detail *string) (model.Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < minExchangeAmount {
		return model.Exchange{}, ErrExchangeTooSmall
	}
	rec := s.findUser(userID)
	if rec == nil {
		return model.Exchange{}, ErrUserNotFound
	}
	if rec.balance < amount {
		return model.Exchange{}, ErrInsufficientBalance
	}

	rec.balance -= amount
	s.totalExchanged += amount
	desc := "points exchange: " + destination
	s.points = append(s.points, pointRecord{userID: userID, tx: model.PointTransaction{
		ID:          s.nextID(),
		Amount:      -amount,
		Type:        "exchange",
		Description: &desc,
		CreatedAt:   s.now(),
	}})

	ex := model.Exchange{
		ID:          s.nextID(),
		Amount:      amount,
		Destination: destination,
		Status:      "requested",
		CreatedAt:   s.now(),
	}
	s.exchanges = append(s.exchanges, exchangeRecord{userID: userID, ex: ex})
	return ex, nil
}

// AddReceipt сохраняет чек в статусе pending.
func (s *Store) AddReceipt(userID int64, imageURL, storeName string, amount int64, purchasedAt *time.Time) model.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &model.Receipt{
		ID:          s.nextID(),
		UserID:      userID,
		ImageURL:    imageURL,
		StoreName:   storeName,
		Amount:      amount,
		PurchasedAt: purchasedAt,
		Status:      model.ReceiptStatusPending,
		CreatedAt:   s.now(),
	}
	s.receipts = append(s.receipts, r)
	return *r
}

// UserReceipts возвращает страницу чеков участника, новые первыми.
func (s *Store) UserReceipts(userID int64, skip, limit int) []model.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Receipt
	for i := len(s.receipts) - 1; i >= 0; i-- {
		if s.receipts[i].UserID == userID {
			out = append(out, *s.receipts[i])
		}
	}
	return page(out, skip, limit)
}

// UserReceiptByID возвращает чек участника по идентификатору.
func (s *Store) UserReceiptByID(userID, id int64) (model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.receipts {
		if r.ID == id && r.UserID == userID {
			return *r, nil
		}
	}
	return model.Receipt{}, ErrReceiptNotFound
}

// AllReceipts возвращает страницу всех чеков, опционально по статусу.
func (s *Store) AllReceipts(status string, skip, limit int) []model.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Receipt
	for i := len(s.receipts) - 1; i >= 0; i-- {
		if status != "" && string(s.receipts[i].Status) != status {
			continue
		}
		out = append(out, *s.receipts[i])
	}
	return page(out, skip, limit)
}

// ReceiptByID возвращает любой чек по идентификатору.
func (s *Store) ReceiptByID(id int64) (model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.receipts {
		if r.ID == id {
			return *r, nil
		}
	}
	return model.Receipt{}, ErrReceiptNotFound
}

// ReviewReceipt подтверждает или отклоняет чек. Допустимы только переходы
// из статуса pending. При подтверждении начисляются указанные баллы.
func (s *Store) ReviewReceipt(id int64, status model.ReceiptStatus, pointsAwarded *int64, rejectionReason *string) (model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.receipts {
		if r.ID != id {
			continue
		}
		if r.Status != model.ReceiptStatusPending {
			return model.Receipt{}, ErrAlreadyReviewed
		}

		r.Status = status
		switch status {
		case model.ReceiptStatusApproved:
			r.PointsAwarded = pointsAwarded
			if pointsAwarded != nil && *pointsAwarded > 0 {
				s.grantLocked(r.UserID, *pointsAwarded, "receipt "+r.StoreName, "receipt")
			}
		case model.ReceiptStatusRejected:
			r.RejectionReason = rejectionReason
		}
		return *r, nil
	}
	return model.Receipt{}, ErrReceiptNotFound
}

// ReferralCodeFor возвращает реферальный код участника, создавая его при
// первом обращении.
func (s *Store) ReferralCodeFor(userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findUser(userID)
	if rec == nil {
		return "", ErrUserNotFound
	}
	if rec.referralCode == "" {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		rec.referralCode = strings.ToUpper(hex.EncodeToString(buf))
	}
	return rec.referralCode, nil
}

// ReferralHistoryFor возвращает историю приглашений участника.
func (s *Store) ReferralHistoryFor(userID int64) []model.ReferralHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	idxs := s.referrers[userID]
	out := make([]model.ReferralHistoryItem, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.referrals[i])
	}
	return out
}

// TrackPurchase регистрирует покупку участника в интернет-магазине.
func (s *Store) TrackPurchase(userID int64, merchant string, orderID *string, amount *int64) model.ShoppingTrack {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := model.ShoppingTrack{
		ID:        s.nextID(),
		Merchant:  merchant,
		OrderID:   orderID,
		Amount:    amount,
		Status:    "tracked",
		TrackedAt: s.now(),
	}
	s.tracks = append(s.tracks, trackRecord{userID: userID, track: t})
	return t
}

// ShoppingHistoryFor возвращает историю покупок участника, новые первыми.
func (s *Store) ShoppingHistoryFor(userID int64) []model.ShoppingTrack {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ShoppingTrack
	for i := len(s.tracks) - 1; i >= 0; i-- {
		if s.tracks[i].userID == userID {
			out = append(out, s.tracks[i].track)
		}
	}
	return out
}

// Campaigns возвращает кампании, опционально только активные.
func (s *Store) Campaigns(activeOnly bool) []model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Campaign
	for _, c := range s.campaigns {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out
}

// CreateCampaign создаёт кампанию.
func (s *Store) CreateCampaign(title string, campaignType model.CampaignType, description *string, points *int64, isActive bool) model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaignType == "" {
		campaignType = model.CampaignTypeGeneral
	}
	c := &model.Campaign{
		ID:           s.nextID(),
		Title:        title,
		CampaignType: campaignType,
		Description:  description,
		Points:       points,
		IsActive:     isActive,
	}
	s.campaigns = append(s.campaigns, c)
	return *c
}

// UpdateCampaign изменяет кампанию; nil-поля не трогаются.
func (s *Store) UpdateCampaign(id int64, title *string, campaignType *model.CampaignType, description *string, points *int64, isActive *bool) (model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.campaigns {
		if c.ID != id {
			continue
		}
		if title != nil {
			c.Title = *title
		}
		if campaignType != nil {
			c.CampaignType = *campaignType
		}
		if description != nil {
			c.Description = description
		}
		if points != nil {
			c.Points = points
		}
		if isActive != nil {
			c.IsActive = *isActive
		}
		return *c, nil
	}
	return model.Campaign{}, ErrCampaignNotFound
}

// Surveys возвращает страницу анкет, опционально только активных
// и не просроченных.
func (s *Store) Surveys(activeOnly bool, skip, limit int) []model.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Survey
	for _, sv := range s.surveys {
		if activeOnly {
			if !sv.IsActive {
				continue
			}
			if sv.ExpiresAt != nil && sv.ExpiresAt.Before(s.now()) {
				continue
			}
		}
		out = append(out, *sv)
	}
	return page(out, skip, limit)
}

// SurveyByID возвращает анкету по идентификатору.
func (s *Store) SurveyByID(id int64) (model.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sv := range s.surveys {
		if sv.ID == id {
			return *sv, nil
		}
	}
	return model.Survey{}, ErrSurveyNotFound
}

// CreateSurvey создаёт анкету.
func (s *Store) CreateSurvey(title string, description *string, points int64, expiresAt *time.Time, isActive bool) model.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv := &model.Survey{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		Points:      points,
		IsActive:    isActive,
		ExpiresAt:   expiresAt,
		CreatedAt:   s.now(),
	}
	s.surveys = append(s.surveys, sv)
	return *sv
}

// UpdateSurvey изменяет анкету; nil-поля не трогаются.
func (s *Store) UpdateSurvey(id int64, title, description *string, points *int64, expiresAt *time.Time, isActive *bool) (model.Survey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sv := range s.surveys {
		if sv.ID != id {
			continue
		}
		if title != nil {
			sv.Title = *title
		}
		if description != nil {
			sv.Description = description
		}
		if points != nil {
			sv.Points = *points
		}
		if expiresAt != nil {
			sv.ExpiresAt = expiresAt
		}
		if isActive != nil {
			sv.IsActive = *isActive
		}
		return *sv, nil
	}
	return model.Survey{}, ErrSurveyNotFound
}

// HasAnswered сообщает, отвечал ли участник на анкету.
func (s *Store) HasAnswered(userID, surveyID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.answers[answerKey{userID: userID, surveyID: surveyID}]
	return ok
}

// SubmitAnswer регистрирует ответ на анкету и начисляет её баллы.
func (s *Store) SubmitAnswer(userID, surveyID int64) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var survey *model.Survey
	for _, sv := range s.surveys {
		if sv.ID == surveyID {
			survey = sv
			break
		}
	}
	if survey == nil || !survey.IsActive {
		return 0, 0, ErrSurveyNotFound
	}

	key := answerKey{userID: userID, surveyID: surveyID}
	if _, ok := s.answers[key]; ok {
		return 0, 0, ErrAlreadyAnswered
	}

	answerID := s.nextID()
	s.answers[key] = answerID
	s.grantLocked(userID, survey.Points, "survey "+survey.Title, "survey")
	return answerID, survey.Points, nil
}

// Announcements возвращает объявления, опционально только опубликованные,
// новые первыми.
func (s *Store) Announcements(activeOnly bool) []model.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Announcement
	for i := len(s.announcements) - 1; i >= 0; i-- {
		if activeOnly && !s.announcements[i].IsActive {
			continue
		}
		out = append(out, *s.announcements[i])
	}
	return out
}

// CreateAnnouncement создаёт объявление в опубликованном состоянии.
func (s *Store) CreateAnnouncement(title string, body *string) model.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &model.Announcement{
		ID:        s.nextID(),
		Title:     title,
		Body:      body,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	s.announcements = append(s.announcements, a)
	return *a
}

// UpdateAnnouncement изменяет объявление; nil-поля не трогаются.
func (s *Store) UpdateAnnouncement(id int64, title, body *string, isActive *bool) (model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.announcements {
		if a.ID != id {
			continue
		}
		if title != nil {
			a.Title = *title
		}
		if body != nil {
			a.Body = body
		}
		if isActive != nil {
			a.IsActive = *isActive
		}
		return *a, nil
	}
	return model.Announcement{}, ErrAnnouncementNotFound
}

// Analytics пересчитывает агрегированные счётчики программы.
func (s *Store) Analytics() model.Analytics {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekAgo := s.now().AddDate(0, 0, -7)
	a := model.Analytics{
		TotalUsers:           int64(len(s.users)),
		TotalPointsGranted:   s.totalGranted,
		TotalPointsExchanged: s.totalExchanged,
	}
	for _, u := range s.users {
		if u.user.CreatedAt.After(weekAgo) {
			a.NewUsersWeek++
		}
	}
	for _, r := range s.receipts {
		if r.Status == model.ReceiptStatusPending {
			a.PendingReceipts++
		}
	}
	return a
}

// SaveImage сохраняет изображение чека и возвращает его относительный URL.
func (s *Store) SaveImage(name string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%d_%s", s.nextID(), name)
	s.images[key] = data
	return "/uploads/" + key
}

// Image возвращает сохранённое изображение по имени.
func (s *Store) Image(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.images[name]
	return data, ok
}

// SeedDemo наполняет хранилище демонстрационными данными:
// администратор admin@example.com/admin123 и участник member@example.com/member123.
func (s *Store) SeedDemo() error {
	admin, err := s.CreateUser("admin@example.com", "admin123", "Admin", "")
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.findUser(admin.ID).user.IsAdmin = true
	s.mu.Unlock()

	if _, err := s.CreateUser("member@example.com", "member123", "Demo Member", ""); err != nil {
		return err
	}

	desc := "Upload 5 receipts this month and get bonus points"
	points := int64(200)
	s.CreateCampaign("Receipt marathon", model.CampaignTypeQuest, &desc, &points, true)
	s.CreateCampaign("Spring lottery", model.CampaignTypeLottery, nil, nil, true)

	body := "Welcome to the poi-katsu demo environment"
	s.CreateAnnouncement("Welcome", &body)

	s.CreateSurvey("How did you hear about us?", nil, 10, nil, true)
	return nil
}

// page возвращает срез [skip, skip+limit) с защитой от выхода за границы.
func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
