// Package model содержит доменные сущности программы лояльности пой-кацу.
//
// Все структуры являются снимками данных бэкенда: клиент никогда не изменяет
// полученный объект на месте, после записи данные запрашиваются заново.
package model

import "time"

// TokenPair содержит пару токенов сессии, выдаваемую бэкендом при входе.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User представляет участника программы лояльности.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Nickname   *string   `json:"nickname"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReceiptStatus описывает статус проверки чека.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusApproved ReceiptStatus = "approved"
	ReceiptStatusRejected ReceiptStatus = "rejected"
)

// Receipt описывает загруженный чек покупки и результат его проверки.
type Receipt struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	ImageURL        string        `json:"image_url"`
	StoreName       string        `json:"store_name"`
	Amount          int64         `json:"amount"`
	Items           *string       `json:"items"`
	PurchasedAt     *time.Time    `json:"purchased_at"`
	Status          ReceiptStatus `json:"status"`
	PointsAwarded   *int64        `json:"points_awarded"`
	RejectionReason *string       `json:"rejection_reason"`
	CreatedAt       time.Time     `json:"created_at"`
}

// CampaignType описывает тип кампании.
type CampaignType string

const (
	CampaignTypeGeneral CampaignType = "general"
	CampaignTypeLottery CampaignType = "lottery"
	CampaignTypeQuest   CampaignType = "quest"
	CampaignTypeBuyback CampaignType = "buyback"
)

// Campaign описывает маркетинговую кампанию.
type Campaign struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	CampaignType CampaignType `json:"campaign_type"`
	Description  *string      `json:"description"`
	Points       *int64       `json:"points"`
	StartAt      *time.Time   `json:"start_at"`
	EndAt        *time.Time   `json:"end_at"`
	IsActive     bool         `json:"is_active"`
}

// Survey описывает анкету, за заполнение которой начисляются баллы.
type Survey struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Points      int64      `json:"points"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SurveyAnswerResult содержит результат отправки ответов на анкету.
type SurveyAnswerResult struct {
	ID            int64 `json:"id"`
	SurveyID      int64 `json:"survey_id"`
	PointsAwarded int64 `json:"points_awarded"`
}

// Announcement описывает объявление для участников.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      *string   `json:"body"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferralCode содержит реферальный код участника и ссылку для приглашения.
type ReferralCode struct {
	ReferralCode string `json:"referral_code"`
	ShareURL     string `json:"share_url"`
}

// ReferralHistoryItem описывает одно успешное приглашение.
type ReferralHistoryItem struct {
	ID            int64     `json:"id"`
	ReferredID    int64     `json:"referred_id"`
	PointsAwarded int64     `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

// ShoppingTrack описывает отслеженную покупку в интернет-магазине.
type ShoppingTrack struct {
	ID        int64     `json:"id"`
	Merchant  string    `json:"merchant"`
	OrderID   *string   `json:"order_id"`
	Amount    *int64    `json:"amount"`
	Status    string    `json:"status"`
	TrackedAt time.Time `json:"tracked_at"`
}

// PointBalance содержит текущий баланс баллов участника.
type PointBalance struct {
	Balance   int64      `json:"balance"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PointTransaction описывает одну операцию начисления или списания баллов.
type PointTransaction struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExchangeOption описывает направление обмена баллов.
type ExchangeOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MinAmount   int64   `json:"min_amount"`
	Description *string `json:"description"`
}

// Exchange описывает заявку на обмен баллов.
type Exchange struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminUser описывает запись пользователя в административном списке.
type AdminUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Analytics содержит агрегированные счётчики для административной панели.
// Значения пересчитываются бэкендом и не кэшируются клиентом.
type Analytics struct {
	TotalUsers           int64 `json:"total_users"`
	NewUsersWeek         int64 `json:"new_users_week"`
	TotalPointsGranted   int64 `json:"total_points_granted"`
	TotalPointsExchanged int64 `json:"total_points_exchanged"`
	PendingReceipts      int64 `json:"pending_receipts"`
}

// BuyBackTargets содержит список товаров, участвующих в программе выкупа.
type BuyBackTargets struct {
	Items   []string `json:"items"`
	Message string   `json:"message"`
}
