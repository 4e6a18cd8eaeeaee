// Package session хранит состояние аутентификации дашборда: текущего
// участника и операции входа, регистрации, выхода и пересинхронизации.
//
// Сессия создаётся один раз при старте процесса и передаётся потребителям
// явно; глобального состояния пакет не содержит.
package session

import (
	"context"
	"sync"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/validation"
)

// Маршруты, на которые сессия переводит дашборд после смены состояния.
const (
	RouteDashboard = "/dashboard"
	RouteLogin     = "/login"
)

// Navigator получает уведомления о смене активного экрана.
type Navigator interface {
	Goto(route string)
}

// Session — единственный источник истины о текущем участнике.
type Session struct {
	api *apiclient.Client
	nav Navigator

	mu      sync.RWMutex
	user    *model.User
	loading bool
}

// New создаёт сессию поверх клиента API. Navigator может быть nil,
// тогда переходы между экранами не выполняются.
func New(api *apiclient.Client, nav Navigator) *Session {
	return &Session{
		api:     api,
		nav:     nav,
		loading: true,
	}
}

// Init выполняет первичную загрузку текущего участника и снимает флаг
// загрузки. Любая ошибка, включая отсутствие или просроченность токена,
// трактуется как вышедшее из системы состояние, а не как ошибка.
func (s *Session) Init(ctx context.Context) {
	_ = s.RefreshUser(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Login выполняет вход: клиент сохраняет токены, затем выполняется ровно
// одна загрузка текущего участника и переход на главный экран.
// Неправдоподобный email отклоняется до сетевого вызова. Ошибка входа
// передаётся вызывающему без изменений, сессия остаётся
// неаутентифицированной.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := validation.RequireEmail(email); err != nil {
		return err
	}

	if _, err := s.api.Login(ctx, email, password); err != nil {
		return err
	}

	if err := s.RefreshUser(ctx); err != nil {
		return err
	}

	s.goTo(RouteDashboard)
	return nil
}

// Register регистрирует участника по тому же контракту, что и Login.
// Реферальный код, если указан, передаётся опциональным полем.
func (s *Session) Register(ctx context.Context, email, password, name, referralCode string) error {
	if err := validation.RequireEmail(email); err != nil {
		return err
	}

	if _, err := s.api.Register(ctx, email, password, name, referralCode); err != nil {
		return err
	}

	if err := s.RefreshUser(ctx); err != nil {
		return err
	}

	s.goTo(RouteDashboard)
	return nil
}

// Logout удаляет сохранённые токены, очищает участника в памяти и
// переводит дашборд на экран входа. Сетевой вызов не выполняется.
func (s *Session) Logout() error {
	if err := s.api.Logout(); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.goTo(RouteLogin)
	return nil
}

// RefreshUser заново запрашивает текущего участника и заменяет его в памяти.
// При ошибке участник сбрасывается. Операция идемпотентна и может
// вызываться в любой момент.
func (s *Session) RefreshUser(ctx context.Context) error {
	u, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user = nil
		return err
	}
	s.user = u
	return nil
}

// User возвращает текущего участника или nil, если вход не выполнен.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading сообщает, завершена ли первичная загрузка сессии.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin сообщает, имеет ли текущий участник административный флаг.
// Проверка рекомендательная: авторитетная выполняется бэкендом.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Session) goTo(route string) {
	if s.nav != nil {
		s.nav.Goto(route)
	}
}
