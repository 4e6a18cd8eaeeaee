package stub

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты заглушки: публичный API под /api/v1,
// выдачу изображений и эндпоинт метрик.
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/refresh", h.Refresh)

		r.Get("/campaigns", h.Campaigns)
		r.Get("/announcements", h.Announcements)

		// Маршруты, требующие аутентификации.
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Get("/users/me", h.Me)
			r.Patch("/users/me", h.UpdateMe)

			r.Post("/receipts", h.UploadReceipt)
			r.Get("/receipts", h.Receipts)
			r.Get("/receipts/buy-back-targets", h.BuyBackTargets)
			r.Get("/receipts/{id}", h.ReceiptByID)

			r.Get("/points/balance", h.PointBalance)
			r.Get("/points/history", h.PointHistory)
			r.Get("/points/exchange-options", h.ExchangeOptions)
			r.Post("/points/exchange", h.CreateExchange)

			r.Get("/surveys", h.Surveys)
			r.Get("/surveys/{id}", h.SurveyByID)
			r.Get("/surveys/{id}/answered", h.SurveyAnswered)
			r.Post("/surveys/{id}/answers", h.SubmitSurveyAnswer)

			r.Get("/referrals/my-code", h.MyReferralCode)
			r.Get("/referrals/history", h.ReferralHistory)

			r.Post("/shopping/track", h.TrackPurchase)
			r.Get("/shopping/history", h.ShoppingHistory)

			// Административные маршруты.
			r.Group(func(r chi.Router) {
				r.Use(h.adminOnly)

				r.Get("/admin/analytics", h.Analytics)
				r.Get("/admin/users", h.AdminUsers)
				r.Patch("/admin/users/{id}", h.SetUserActive)
				r.Post("/admin/points/grant", h.GrantPoints)
				r.Get("/admin/receipts", h.AdminReceipts)
				r.Get("/admin/receipts/{id}", h.AdminReceiptByID)
				r.Patch("/admin/receipts/{id}", h.ReviewReceipt)
				r.Get("/admin/campaigns", h.AdminCampaigns)
				r.Post("/admin/campaigns", h.CreateCampaign)
				r.Patch("/admin/campaigns/{id}", h.UpdateCampaign)
				r.Get("/admin/surveys", h.AdminSurveys)
				r.Post("/admin/surveys", h.CreateSurvey)
				r.Patch("/admin/surveys/{id}", h.UpdateSurvey)
				r.Get("/admin/announcements", h.AdminAnnouncements)
				r.Post("/admin/announcements", h.CreateAnnouncement)
				r.Patch("/admin/announcements/{id}", h.UpdateAnnouncement)
			})
		})
	})

	r.Get("/uploads/{name}", h.ServeUpload)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
