package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
	"github.com/m-okumura/poikatsu-dashboard/internal/model"
	"github.com/m-okumura/poikatsu-dashboard/internal/session"
	"github.com/m-okumura/poikatsu-dashboard/internal/view"
)

const usage = `usage: poikatsu [flags] <command> [args]

commands:
  login         -email -password
  register      -email -password -name [-ref]
  logout
  me
  profile       [-name] [-nickname]
  receipts      [-skip] [-limit]
  receipt       <id>
  upload        -image -store -amount [-at]
  buyback
  campaigns
  announcements
  referrals
  track         -merchant [-order] [-amount]
  shopping
  points        [-skip] [-limit]
  options
  exchange      -amount -to [-detail]
  surveys       [-skip] [-limit]
  survey        <id>
  answer        <id> [-answers JSON]
  admin         <subcommand> [args]
`

const adminUsage = `usage: poikatsu admin <subcommand> [args]

subcommands:
  analytics
  users             [-search] [-skip] [-limit]
  user-active       <id> -active=true|false
  grant             -user -amount [-desc]
  receipts          [-status] [-skip] [-limit]
  receipt           <id>
  review            <id> -status approved|rejected [-points] [-reason]
  campaigns
  campaign-create   -title -type [-desc] [-points] [-active]
  campaign-update   <id> [-title] [-type] [-desc] [-points] [-active=true|false]
  surveys           [-skip] [-limit]
  survey-create     -title [-desc] -points [-expires] [-active]
  survey-update     <id> [-title] [-desc] [-points] [-expires] [-active=true|false]
  announcements
  announcement-create -title [-body]
  announcement-update <id> [-title] [-body] [-active=true|false]
`

func dispatch(ctx context.Context, sess *session.Session, views *view.Views, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := sess.Login(ctx, *email, *password); err != nil {
			fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
			return err
		}
		return views.Home(ctx)

	case "register":
		fs := flag.NewFlagSet("register", flag.ContinueOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		name := fs.String("name", "", "display name")
		ref := fs.String("ref", "", "referral code (optional)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := sess.Register(ctx, *email, *password, *name, *ref); err != nil {
			fmt.Fprintf(os.Stderr, "registration failed: %v\n", err)
			return err
		}
		return views.Home(ctx)

	case "logout":
		return sess.Logout()

	case "me":
		return views.Home(ctx)

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ContinueOnError)
		name := fs.String("name", "", "new display name")
		nickname := fs.String("nickname", "", "new nickname")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.UpdateProfile(ctx, optString(fs, "name", name), optString(fs, "nickname", nickname))

	case "receipts":
		fs := flag.NewFlagSet("receipts", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 20, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.ReceiptList(ctx, *skip, *limit)

	case "receipt":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		return views.ReceiptDetail(ctx, id)

	case "upload":
		fs := flag.NewFlagSet("upload", flag.ContinueOnError)
		image := fs.String("image", "", "path to the receipt image")
		store := fs.String("store", "", "store name")
		amount := fs.String("amount", "", "purchase amount")
		at := fs.String("at", "", "purchase time, RFC 3339 (optional)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.UploadReceipt(ctx, *image, *store, *amount, *at)

	case "buyback":
		return views.BuyBackTargets(ctx)

	case "campaigns":
		return views.CampaignList(ctx)

	case "announcements":
		return views.AnnouncementList(ctx)

	case "referrals":
		return views.ReferralPage(ctx)

	case "track":
		fs := flag.NewFlagSet("track", flag.ContinueOnError)
		merchant := fs.String("merchant", "", "merchant name")
		order := fs.String("order", "", "order id (optional)")
		amount := fs.String("amount", "", "order amount (optional)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.TrackPurchase(ctx, *merchant, *order, *amount)

	case "shopping":
		return views.ShoppingHistory(ctx)

	case "points":
		fs := flag.NewFlagSet("points", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 50, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.PointsPage(ctx, *skip, *limit)

	case "options":
		return views.ExchangeOptions(ctx)

	case "exchange":
		fs := flag.NewFlagSet("exchange", flag.ContinueOnError)
		amount := fs.String("amount", "", "points to exchange")
		to := fs.String("to", "", "exchange destination")
		detail := fs.String("detail", "", "destination detail (optional)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.Exchange(ctx, *amount, *to, *detail)

	case "surveys":
		fs := flag.NewFlagSet("surveys", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 20, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.SurveyList(ctx, *skip, *limit)

	case "survey":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		return views.SurveyDetail(ctx, id)

	case "answer":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("answer", flag.ContinueOnError)
		answersJSON := fs.String("answers", "{}", "answers as a JSON object")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		var answers map[string]any
		if err := json.Unmarshal([]byte(*answersJSON), &answers); err != nil {
			fmt.Fprintf(os.Stderr, "invalid answers JSON: %v\n", err)
			return err
		}
		return views.AnswerSurvey(ctx, id, answers)

	case "admin":
		return dispatchAdmin(ctx, views, rest)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func dispatchAdmin(ctx context.Context, views *view.Views, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, adminUsage)
		return fmt.Errorf("no admin subcommand given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "analytics":
		return views.AdminAnalytics(ctx)

	case "users":
		fs := flag.NewFlagSet("users", flag.ContinueOnError)
		search := fs.String("search", "", "filter by email or name")
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 20, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.AdminUserList(ctx, *search, *skip, *limit)

	case "user-active":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("user-active", flag.ContinueOnError)
		active := fs.Bool("active", true, "enable or disable the account")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		return views.AdminSetUserActive(ctx, id, *active)

	case "grant":
		fs := flag.NewFlagSet("grant", flag.ContinueOnError)
		user := fs.Int64("user", 0, "target user id")
		amount := fs.String("amount", "", "points to grant")
		desc := fs.String("desc", "", "transaction description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.AdminGrantPoints(ctx, *user, *amount, *desc)

	case "receipts":
		fs := flag.NewFlagSet("receipts", flag.ContinueOnError)
		status := fs.String("status", "pending", "filter by status, empty for all")
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 50, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.AdminReceiptQueue(ctx, *status, *skip, *limit)

	case "receipt":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		return views.AdminReceiptDetail(ctx, id)

	case "review":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("review", flag.ContinueOnError)
		status := fs.String("status", "", "approved or rejected")
		points := fs.Int64("points", 0, "points to award on approval")
		reason := fs.String("reason", "", "rejection reason")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		var pointsAwarded *int64
		if isFlagSet(fs, "points") {
			pointsAwarded = points
		}
		var rejectionReason *string
		if *reason != "" {
			rejectionReason = reason
		}
		return views.AdminReviewReceipt(ctx, id, model.ReceiptStatus(*status), pointsAwarded, rejectionReason)

	case "campaigns":
		return views.AdminCampaignList(ctx)

	case "campaign-create":
		fs := flag.NewFlagSet("campaign-create", flag.ContinueOnError)
		title := fs.String("title", "", "campaign title")
		campaignType := fs.String("type", string(model.CampaignTypeGeneral), "campaign type")
		desc := fs.String("desc", "", "campaign description")
		points := fs.Int64("points", 0, "campaign points")
		active := fs.Bool("active", true, "publish immediately")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		data := apiclient.CampaignCreate{
			Title:        *title,
			CampaignType: model.CampaignType(*campaignType),
			IsActive:     *active,
		}
		if *desc != "" {
			data.Description = desc
		}
		if isFlagSet(fs, "points") {
			data.Points = points
		}
		return views.AdminCreateCampaign(ctx, data)

	case "campaign-update":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("campaign-update", flag.ContinueOnError)
		title := fs.String("title", "", "campaign title")
		campaignType := fs.String("type", "", "campaign type")
		desc := fs.String("desc", "", "campaign description")
		points := fs.Int64("points", 0, "campaign points")
		active := fs.Bool("active", true, "campaign visibility")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		data := apiclient.CampaignUpdate{
			Title:       optString(fs, "title", title),
			Description: optString(fs, "desc", desc),
		}
		if isFlagSet(fs, "type") {
			t := model.CampaignType(*campaignType)
			data.CampaignType = &t
		}
		if isFlagSet(fs, "points") {
			data.Points = points
		}
		if isFlagSet(fs, "active") {
			data.IsActive = active
		}
		return views.AdminUpdateCampaign(ctx, id, data)

	case "surveys":
		fs := flag.NewFlagSet("surveys", flag.ContinueOnError)
		skip := fs.Int("skip", 0, "items to skip")
		limit := fs.Int("limit", 20, "page size")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.AdminSurveyList(ctx, *skip, *limit)

	case "survey-create":
		fs := flag.NewFlagSet("survey-create", flag.ContinueOnError)
		title := fs.String("title", "", "survey title")
		desc := fs.String("desc", "", "survey description")
		points := fs.Int64("points", 0, "points awarded per answer")
		expires := fs.String("expires", "", "expiry time, RFC 3339")
		active := fs.Bool("active", true, "publish immediately")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		data := apiclient.SurveyCreate{
			Title:    *title,
			Points:   *points,
			IsActive: *active,
		}
		if *desc != "" {
			data.Description = desc
		}
		if *expires != "" {
			data.ExpiresAt = expires
		}
		return views.AdminCreateSurvey(ctx, data)

	case "survey-update":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("survey-update", flag.ContinueOnError)
		title := fs.String("title", "", "survey title")
		desc := fs.String("desc", "", "survey description")
		points := fs.Int64("points", 0, "points awarded per answer")
		expires := fs.String("expires", "", "expiry time, RFC 3339")
		active := fs.Bool("active", true, "survey visibility")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		data := apiclient.SurveyUpdate{
			Title:       optString(fs, "title", title),
			Description: optString(fs, "desc", desc),
			ExpiresAt:   optString(fs, "expires", expires),
		}
		if isFlagSet(fs, "points") {
			data.Points = points
		}
		if isFlagSet(fs, "active") {
			data.IsActive = active
		}
		return views.AdminUpdateSurvey(ctx, id, data)

	case "announcements":
		return views.AdminAnnouncementList(ctx)

	case "announcement-create":
		fs := flag.NewFlagSet("announcement-create", flag.ContinueOnError)
		title := fs.String("title", "", "announcement title")
		body := fs.String("body", "", "announcement body")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return views.AdminCreateAnnouncement(ctx, *title, *body)

	case "announcement-update":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("announcement-update", flag.ContinueOnError)
		title := fs.String("title", "", "announcement title")
		body := fs.String("body", "", "announcement body")
		active := fs.Bool("active", true, "announcement visibility")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		data := apiclient.AnnouncementUpdate{
			Title: optString(fs, "title", title),
			Body:  optString(fs, "body", body),
		}
		if isFlagSet(fs, "active") {
			data.IsActive = active
		}
		return views.AdminUpdateAnnouncement(ctx, id, data)

	default:
		fmt.Fprint(os.Stderr, adminUsage)
		return fmt.Errorf("unknown admin subcommand %q", cmd)
	}
}

// argID читает обязательный позиционный идентификатор из начала args.
func argID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("id argument is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// isFlagSet сообщает, был ли флаг передан явно.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// optString возвращает указатель на значение флага, если флаг был передан.
func optString(fs *flag.FlagSet, name string, value *string) *string {
	if !isFlagSet(fs, name) {
		return nil
	}
	return value
}
