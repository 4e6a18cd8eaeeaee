package view

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/session"
)

// Views объединяет экраны дашборда. Каждый экран — лист-потребитель:
// вызывает клиент API, печатает результат и не хранит разделяемого
// состояния, кроме собственной машины загрузки.
type Views struct {
	api  *apiclient.Client
	sess *session.Session
	out  io.Writer

	receipts      Loader[[]model.Receipt]
	campaigns     Loader[[]model.Campaign]
	announcements Loader[[]model.Announcement]
	referrals     Loader[[]model.ReferralHistoryItem]
	shopping      Loader[[]model.ShoppingTrack]
	points        Loader[[]model.PointTransaction]
	surveys       Loader[[]model.Survey]

	adminReceipts Loader[[]model.Receipt]
	adminUsers    Loader[[]model.AdminUser]
}

// New создаёт набор экранов поверх клиента API и сессии.
func New(api *apiclient.Client, sess *session.Session, out io.Writer) *Views {
	return &Views{
		api:  api,
		sess: sess,
		out:  out,
	}
}

// renderErr печатает сообщение об ошибке на экране и возвращает её вызывающему.
// Отброшенный устаревший ответ ошибкой не считается.
func (v *Views) renderErr(err error) error {
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	fmt.Fprintf(v.out, "error: %v\n", err)
	return err
}

func (v *Views) tab() *tabwriter.Writer {
	return tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func orDashInt(p *int64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatInt(*p, 10)
}

func orDashTime(p *time.Time) string {
	if p == nil {
		return "-"
	}
	return p.Format("2006-01-02 15:04")
}
