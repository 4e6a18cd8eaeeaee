package stub

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

// currentUser извлекает аутентифицированного участника из контекста запроса.
func currentUser(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(currentUserKey).(model.User)
	return u, ok
}

// authMiddleware проверяет заголовок Authorization: Bearer и кладёт
// участника в контекст запроса. Отключённые учётные записи отклоняются.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeDetail(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		userID, err := h.issuer.Parse(token, tokenTypeAccess)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := h.store.UserByID(userID)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !u.IsActive {
			writeDetail(w, http.StatusForbidden, "user account is disabled")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly пропускает только участников с административным флагом.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := currentUser(r.Context())
		if !ok || !u.IsAdmin {
			writeDetail(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger пишет строку лога на каждый запрос и наблюдает метрику
// длительности.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			observeRequest(r.Method, rec.status, elapsed)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed),
			)
		})
	}
}
