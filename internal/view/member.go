package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/validation"
)

// Home показывает профиль текущего участника и баланс баллов.
func (v *Views) Home(ctx context.Context) error {
	u := v.sess.User()
	if u == nil {
		fmt.Fprintln(v.out, "not logged in, run `poikatsu login` first")
		return nil
	}

	balance, err := v.api.PointBalance(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "%s <%s>\n", u.Name, u.Email)
	if u.Nickname != nil {
		fmt.Fprintf(v.out, "nickname: %s\n", *u.Nickname)
	}
	fmt.Fprintf(v.out, "points: %d\n", balance.Balance)
	if u.IsAdmin {
		fmt.Fprintln(v.out, "role: admin")
	}
	return nil
}

// UpdateProfile обновляет имя и/или никнейм участника.
func (v *Views) UpdateProfile(ctx context.Context, name, nickname *string) error {
	if name == nil && nickname == nil {
		fmt.Fprintln(v.out, "nothing to update")
		return nil
	}

	u, err := v.api.UpdateMe(ctx, name, nickname)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "profile updated: %s", u.Name)
	if u.Nickname != nil {
		fmt.Fprintf(v.out, " (%s)", *u.Nickname)
	}
	fmt.Fprintln(v.out)
	return nil
}

// ReceiptList показывает страницу чеков участника.
func (v *Views) ReceiptList(ctx context.Context, skip, limit int) error {
	receipts, err := v.receipts.Load(ctx, func(ctx context.Context) ([]model.Receipt, error) {
		return v.api.Receipts(ctx, skip, limit)
	})
	if err != nil {
		return v.renderErr(err)
	}

	if len(receipts) == 0 {
		fmt.Fprintln(v.out, "no receipts yet")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tSTORE\tAMOUNT\tSTATUS\tPOINTS\tCREATED")
	for _, r := range receipts {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, r.StoreName, r.Amount, r.Status, orDashInt(r.PointsAwarded), r.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// ReceiptDetail показывает один чек участника.
func (v *Views) ReceiptDetail(ctx context.Context, id int64) error {
	r, err := v.api.Receipt(ctx, id)
	if err != nil {
		return v.renderErr(err)
	}

	v.printReceipt(r)
	return nil
}

func (v *Views) printReceipt(r *model.Receipt) {
	fmt.Fprintf(v.out, "receipt #%d\n", r.ID)
	fmt.Fprintf(v.out, "  store:      %s\n", r.StoreName)
	fmt.Fprintf(v.out, "  amount:     %d\n", r.Amount)
	fmt.Fprintf(v.out, "  status:     %s\n", r.Status)
	fmt.Fprintf(v.out, "  points:     %s\n", orDashInt(r.PointsAwarded))
	if r.RejectionReason != nil {
		fmt.Fprintf(v.out, "  rejected:   %s\n", *r.RejectionReason)
	}
	fmt.Fprintf(v.out, "  purchased:  %s\n", orDashTime(r.PurchasedAt))
	fmt.Fprintf(v.out, "  image:      %s\n", r.ImageURL)
}

// UploadReceipt проверяет ввод, читает файл изображения и загружает чек.
// Неверный ввод на бэкенд не отправляется.
func (v *Views) UploadReceipt(ctx context.Context, imagePath, storeName, amountStr, purchasedAtStr string) error {
	if err := validation.Require(imagePath); err != nil {
		fmt.Fprintln(v.out, "image path is required")
		return err
	}
	amount, err := validation.ParseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(v.out, "amount must be a positive integer")
		return err
	}

	var purchasedAt *time.Time
	if purchasedAtStr != "" {
		t, err := time.Parse(time.RFC3339, purchasedAtStr)
		if err != nil {
			fmt.Fprintln(v.out, "purchased-at must be an RFC3339 timestamp")
			return err
		}
		purchasedAt = &t
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return v.renderErr(err)
	}
	defer f.Close()

	r, err := v.api.UploadReceipt(ctx, f, filepath.Base(imagePath), storeName, amount, purchasedAt)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "receipt #%d uploaded, status %s\n", r.ID, r.Status)
	return nil
}

// CampaignList показывает активные кампании.
func (v *Views) CampaignList(ctx context.Context) error {
	campaigns, err := v.campaigns.Load(ctx, v.api.Campaigns)
	if err != nil {
		return v.renderErr(err)
	}

	if len(campaigns) == 0 {
		fmt.Fprintln(v.out, "no active campaigns")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tPOINTS\tENDS")
	for _, c := range campaigns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.ID, c.CampaignType, c.Title, orDashInt(c.Points), orDashTime(c.EndAt))
	}
	return w.Flush()
}

// AnnouncementList показывает опубликованные объявления.
func (v *Views) AnnouncementList(ctx context.Context) error {
	announcements, err := v.announcements.Load(ctx, v.api.Announcements)
	if err != nil {
		return v.renderErr(err)
	}

	if len(announcements) == 0 {
		fmt.Fprintln(v.out, "no announcements")
		return nil
	}

	for _, a := range announcements {
		fmt.Fprintf(v.out, "[%s] %s\n", a.CreatedAt.Format("2006-01-02"), a.Title)
		if a.Body != nil {
			fmt.Fprintf(v.out, "  %s\n", *a.Body)
		}
	}
	return nil
}

// ReferralPage показывает реферальный код участника и историю приглашений.
func (v *Views) ReferralPage(ctx context.Context) error {
	code, err := v.api.MyReferralCode(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "referral code: %s\n", code.ReferralCode)
	fmt.Fprintf(v.out, "share URL:     %s\n", code.ShareURL)

	history, err := v.referrals.Load(ctx, v.api.ReferralHistory)
	if err != nil {
		return v.renderErr(err)
	}

	if len(history) == 0 {
		fmt.Fprintln(v.out, "no referrals yet")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "REFERRED\tPOINTS\tDATE")
	for _, item := range history {
		fmt.Fprintf(w, "%d\t%d\t%s\n", item.ReferredID, item.PointsAwarded, item.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// TrackPurchase проверяет ввод и регистрирует покупку в интернет-магазине.
func (v *Views) TrackPurchase(ctx context.Context, merchant, orderID, amountStr string) error {
	if err := validation.Require(merchant); err != nil {
		fmt.Fprintln(v.out, "merchant is required")
		return err
	}

	var amount *int64
	if amountStr != "" {
		n, err := validation.ParseAmount(amountStr)
		if err != nil {
			fmt.Fprintln(v.out, "amount must be a positive integer")
			return err
		}
		amount = &n
	}

	var order *string
	if orderID != "" {
		order = &orderID
	}

	t, err := v.api.TrackPurchase(ctx, merchant, order, amount)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "tracked purchase #%d at %s, status %s\n", t.ID, t.Merchant, t.Status)
	return nil
}

// ShoppingHistory показывает историю отслеженных покупок.
func (v *Views) ShoppingHistory(ctx context.Context) error {
	tracks, err := v.shopping.Load(ctx, v.api.ShoppingHistory)
	if err != nil {
		return v.renderErr(err)
	}

	if len(tracks) == 0 {
		fmt.Fprintln(v.out, "no tracked purchases")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tMERCHANT\tORDER\tAMOUNT\tSTATUS\tTRACKED")
	for _, t := range tracks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Merchant, orDash(t.OrderID), orDashInt(t.Amount), t.Status, t.TrackedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// PointsPage показывает баланс и историю операций с баллами.
func (v *Views) PointsPage(ctx context.Context, skip, limit int) error {
	balance, err := v.api.PointBalance(ctx)
	if err != nil {
		return v.renderErr(err)
	}
	fmt.Fprintf(v.out, "balance: %d\n", balance.Balance)

	txs, err := v.points.Load(ctx, func(ctx context.Context) ([]model.PointTransaction, error) {
		return v.api.PointHistory(ctx, skip, limit)
	})
	if err != nil {
		return v.renderErr(err)
	}

	if len(txs) == 0 {
		fmt.Fprintln(v.out, "no point transactions")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tAMOUNT\tTYPE\tDESCRIPTION\tDATE")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%+d\t%s\t%s\t%s\n",
			tx.ID, tx.Amount, tx.Type, orDash(tx.Description), tx.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// ExchangeOptions показывает направления обмена баллов.
func (v *Views) ExchangeOptions(ctx context.Context) error {
	opts, err := v.api.ExchangeOptions(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tNAME\tMIN\tDESCRIPTION")
	for _, o := range opts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.ID, o.Name, o.MinAmount, orDash(o.Description))
	}
	return w.Flush()
}

// Exchange проверяет ввод и подаёт заявку на обмен баллов.
func (v *Views) Exchange(ctx context.Context, amountStr, destination, destinationDetail string) error {
	amount, err := validation.ParseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(v.out, "amount must be a positive integer")
		return err
	}
	if err := validation.Require(destination); err != nil {
		fmt.Fprintln(v.out, "destination is required")
		return err
	}

	var detail *string
	if destinationDetail != "" {
		detail = &destinationDetail
	}

	ex, err := v.api.CreateExchange(ctx, amount, destination, detail)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "exchange #%d requested: %d points to %s, status %s\n", ex.ID, ex.Amount, ex.Destination, ex.Status)
	return nil
}

// SurveyList показывает активные анкеты.
func (v *Views) SurveyList(ctx context.Context, skip, limit int) error {
	surveys, err := v.surveys.Load(ctx, func(ctx context.Context) ([]model.Survey, error) {
		return v.api.Surveys(ctx, skip, limit)
	})
	if err != nil {
		return v.renderErr(err)
	}

	if len(surveys) == 0 {
		fmt.Fprintln(v.out, "no active surveys")
		return nil
	}

	w := v.tab()
	fmt.Fprintln(w, "ID\tTITLE\tPOINTS\tEXPIRES")
	for _, s := range surveys {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.ID, s.Title, s.Points, orDashTime(s.ExpiresAt))
	}
	return w.Flush()
}

// SurveyDetail показывает анкету и признак того, что участник уже ответил.
func (v *Views) SurveyDetail(ctx context.Context, id int64) error {
	s, err := v.api.Survey(ctx, id)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "survey #%d: %s (%d points)\n", s.ID, s.Title, s.Points)
	if s.Description != nil {
		fmt.Fprintf(v.out, "  %s\n", *s.Description)
	}

	answered, err := v.api.SurveyAnswered(ctx, id)
	if err != nil {
		return v.renderErr(err)
	}
	if answered {
		fmt.Fprintln(v.out, "  already answered")
	}
	return nil
}

// AnswerSurvey отправляет ответы на анкету в свободной форме.
func (v *Views) AnswerSurvey(ctx context.Context, id int64, answers map[string]any) error {
	res, err := v.api.SubmitSurveyAnswers(ctx, id, answers)
	if err != nil {
		return v.renderErr(err)
	}

	fmt.Fprintf(v.out, "answer accepted, %d points awarded\n", res.PointsAwarded)
	return nil
}

// BuyBackTargets показывает товары программы выкупа.
func (v *Views) BuyBackTargets(ctx context.Context) error {
	t, err := v.api.BuyBackTargets(ctx)
	if err != nil {
		return v.renderErr(err)
	}

	if len(t.Items) == 0 {
		fmt.Fprintln(v.out, t.Message)
		return nil
	}
	for _, item := range t.Items {
		fmt.Fprintf(v.out, "- %s\n", item)
	}
	return nil
}
