package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/validation"
)

// ErrAccessDenied возвращается административными экранами, когда у текущего
// участника нет административного флага. Проверка рекомендательная и
// выполняется до сетевого вызова; авторитетная проверка — на бэкенде.
var ErrAccessDenied = errors.New("access denied: admin account required")

// requireAdmin печатает отказ в доступе, если участник не администратор.
func (v *Views) requireAdmin() error {
	if !v.sess.IsAdmin() {
		fmt.Fprintln(v.out, "access denied: this screen requires an admin account")
		return ErrAccessDenied
	}
	return nil
}

// AdminAnalytics показывает агрегированные счётчики программы.
func (v *Views) AdminAnalytics(ctx context.Context) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	a, err := v.api.Analytics(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintf(w, "total users\t%d\n", a.TotalUsers)
	fmt.Fprintf(w, "new users this week\t%d\n", a.NewUsersWeek)
	fmt.Fprintf(w, "points granted\t%d\n", a.TotalPointsGranted)
	fmt.Fprintf(w, "points exchanged\t%d\n", a.TotalPointsExchanged)
	fmt.Fprintf(w, "pending receipts\t%d\n", a.PendingReceipts)
	return w.Flush()
}

// AdminUserList показывает страницу пользователей с необязательным поиском.
func (v *Views) AdminUserList(ctx context.Context, search string, skip, limit int) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	users, err := v.adminUsers.Load(ctx, func(ctx context.Context) ([]model.AdminUser, error) {
		return v.api.AdminUsers(ctx, search, skip, limit)
	})
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACTIVE\tADMIN\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\t%s\n",
			u.ID, u.Email, u.Name, u.IsActive, u.IsAdmin, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// AdminSetUserActive включает или отключает учётную запись пользователя.
func (v *Views) AdminSetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	if err := v.api.SetUserActive(ctx, userID, active); err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "user %d active=%t\n", userID, active)
	return nil
}

// AdminGrantPoints вручную начисляет баллы пользователю.
func (v *Views) AdminGrantPoints(ctx context.Context, userID int64, amountStr, description string) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	amount, err := validation.ParseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(v.out, "amount must be a positive integer")
		return err
	}

	txID, err := v.api.GrantPoints(ctx, userID, amount, description)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "granted %d points to user %d (transaction %d)\n", amount, userID, txID)
	return nil
}

// AdminReceiptQueue показывает чеки в указанном статусе.
// Пустой статус означает все чеки.
func (v *Views) AdminReceiptQueue(ctx context.Context, status string, skip, limit int) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	receipts, err := v.adminReceipts.Load(ctx, func(ctx context.Context) ([]model.Receipt, error) {
		return v.api.AdminReceipts(ctx, status, skip, limit)
	})
	if err != nil {
		return v.renderErr(err)
	}

	if len(receipts) == 0 {
		fmt.Fprintln(v.out, "queue is empty")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tUSER\tSTORE\tAMOUNT\tSTATUS\tCREATED")
	for _, r := range receipts {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\n",
			r.ID, r.UserID, r.StoreName, r.Amount, r.Status, r.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// AdminReceiptDetail показывает любой чек по идентификатору.
func (v *Views) AdminReceiptDetail(ctx context.Context, id int64) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	r, err := v.api.AdminReceipt(ctx, id)
	if err != nil {
		return v.renderErr(err)
	}

	v.printReceipt(r)
	return nil
}

// AdminReviewReceipt подтверждает или отклоняет чек и заново показывает
// очередь ожидающих: проверенный чек из неё исчезает.
func (v *Views) AdminReviewReceipt(ctx context.Context, id int64, status model.ReceiptStatus, pointsAwarded *int64, rejectionReason *string) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	if status != model.ReceiptStatusApproved && status != model.ReceiptStatusRejected {
		fmt.Fprintln(v.out, "status must be approved or rejected")
		return validation.ErrBlankField
	}

	r, err := v.api.ReviewReceipt(ctx, id, status, pointsAwarded, rejectionReason)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "receipt #%d is now %s\n", r.ID, r.Status)
	return v.AdminReceiptQueue(ctx, string(model.ReceiptStatusPending), 0, 50)
}

// AdminCampaignList показывает все кампании.
func (v *Views) AdminCampaignList(ctx context.Context) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	campaigns, err := v.api.AdminCampaigns(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tPOINTS\tACTIVE")
	for _, c := range campaigns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", c.ID, c.CampaignType, c.Title, orDashInt(c.Points), c.IsActive)
	}
	return w.Flush()
}

// AdminCreateCampaign создаёт кампанию.
func (v *Views) AdminCreateCampaign(ctx context.Context, data apiclient.CampaignCreate) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}
	if err := validation.Require(data.Title); err != nil {
		fmt.Fprintln(v.out, "title is required")
		return err
	}

	c, err := v.api.CreateCampaign(ctx, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "campaign #%d created\n", c.ID)
	return nil
}

// AdminUpdateCampaign изменяет кампанию.
func (v *Views) AdminUpdateCampaign(ctx context.Context, id int64, data apiclient.CampaignUpdate) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	c, err := v.api.UpdateCampaign(ctx, id, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "campaign #%d updated\n", c.ID)
	return nil
}

// AdminSurveyList показывает страницу всех анкет.
func (v *Views) AdminSurveyList(ctx context.Context, skip, limit int) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	surveys, err := v.api.AdminSurveys(ctx, skip, limit)
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tTITLE\tPOINTS\tACTIVE\tEXPIRES")
	for _, s := range surveys {
		fmt.Fprintf(w, "%d\t%s\t%d\t%t\t%s\n", s.ID, s.Title, s.Points, s.IsActive, orDashTime(s.ExpiresAt))
	}
	return w.Flush()
}

// AdminCreateSurvey создаёт анкету.
func (v *Views) AdminCreateSurvey(ctx context.Context, data apiclient.SurveyCreate) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}
	if err := validation.Require(data.Title); err != nil {
		fmt.Fprintln(v.out, "title is required")
		return err
	}

	s, err := v.api.CreateSurvey(ctx, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "survey #%d created\n", s.ID)
	return nil
}

// AdminUpdateSurvey изменяет анкету.
func (v *Views) AdminUpdateSurvey(ctx context.Context, id int64, data apiclient.SurveyUpdate) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	s, err := v.api.UpdateSurvey(ctx, id, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "survey #%d updated\n", s.ID)
	return nil
}

// AdminAnnouncementList показывает все объявления.
func (v *Views) AdminAnnouncementList(ctx context.Context) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	announcements, err := v.api.AdminAnnouncements(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tTITLE\tACTIVE\tCREATED")
	for _, a := range announcements {
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", a.ID, a.Title, a.IsActive, a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// AdminCreateAnnouncement создаёт объявление.
func (v *Views) AdminCreateAnnouncement(ctx context.Context, title, body string) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}
	if err := validation.Require(title); err != nil {
		fmt.Fprintln(v.out, "title is required")
		return err
	}

	data := apiclient.AnnouncementCreate{Title: title}
	if body != "" {
		data.Body = &body
	}

	a, err := v.api.CreateAnnouncement(ctx, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "announcement #%d created\n", a.ID)
	return nil
}

// AdminUpdateAnnouncement изменяет объявление.
func (v *Views) AdminUpdateAnnouncement(ctx context.Context, id int64, data apiclient.AnnouncementUpdate) error {
	if err := v.requireAdmin(); err != nil {
		return err
	}

	a, err := v.api.UpdateAnnouncement(ctx, id, data)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "announcement #%d updated\n", a.ID)
	return nil
}
