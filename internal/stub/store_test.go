package stub

import (
	"errors"
	"testing"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

func TestStore_CreateUserAndAuthenticate(t *testing.T) {
	s := NewStore()

	u, err := s.CreateUser("a@b.c", "secret", "Alice", "")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if !u.IsActive {
		t.Fatal("new user is not active")
	}

	if _, err := s.CreateUser("A@B.C", "other", "Dup", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email error = %v, want ErrEmailTaken", err)
	}

	got, err := s.Authenticate("a@b.c", "secret")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated id = %d, want %d", got.ID, u.ID)
	}

	if _, err := s.Authenticate("a@b.c", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", err)
	}

	if err := s.SetUserActive(u.ID, false); err != nil {
		t.Fatalf("SetUserActive error: %v", err)
	}
	if _, err := s.Authenticate("a@b.c", "secret"); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("inactive error = %v, want ErrUserInactive", err)
	}
}

func TestStore_ReferralBonus(t *testing.T) {
	s := NewStore()

	referrer, err := s.CreateUser("ref@b.c", "secret", "Referrer", "")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	code, err := s.ReferralCodeFor(referrer.ID)
	if err != nil {
		t.Fatalf("ReferralCodeFor error: %v", err)
	}

	if _, err := s.CreateUser("new@b.c", "secret", "Invited", "NOSUCH"); !errors.Is(err, ErrInvalidReferralCode) {
		t.Fatalf("bad code error = %v, want ErrInvalidReferralCode", err)
	}

	invited, err := s.CreateUser("new@b.c", "secret", "Invited", code)
	if err != nil {
		t.Fatalf("CreateUser with code error: %v", err)
	}

	if got := s.Balance(referrer.ID); got != referralPoints {
		t.Fatalf("referrer balance = %d, want %d", got, referralPoints)
	}
	if got := s.Balance(invited.ID); got != 0 {
		t.Fatalf("invited balance = %d, want 0", got)
	}

	history := s.ReferralHistoryFor(referrer.ID)
	if len(history) != 1 || history[0].ReferredID != invited.ID {
		t.Fatalf("unexpected referral history: %+v", history)
	}
}

func TestStore_ReceiptReview(t *testing.T) {
	s := NewStore()

	u, err := s.CreateUser("a@b.c", "secret", "Alice", "")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	r := s.AddReceipt(u.ID, "/uploads/1_r.jpg", "FamilyMart", 1280, nil)
	if r.Status != model.ReceiptStatusPending {
		t.Fatalf("status = %s, want pending", r.Status)
	}

	points := int64(50)
	reviewed, err := s.ReviewReceipt(r.ID, model.ReceiptStatusApproved, &points, nil)
	if err != nil {
		t.Fatalf("ReviewReceipt error: %v", err)
	}
	if reviewed.Status != model.ReceiptStatusApproved {
		t.Fatalf("status = %s, want approved", reviewed.Status)
	}
	if got := s.Balance(u.ID); got != 50 {
		t.Fatalf("balance = %d, want 50 after approval", got)
	}

	// Повторная проверка того же чека запрещена.
	if _, err := s.ReviewReceipt(r.ID, model.ReceiptStatusRejected, nil, nil); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second review error = %v, want ErrAlreadyReviewed", err)
	}

	if pending := s.AllReceipts("pending", 0, 50); len(pending) != 0 {
		t.Fatalf("pending queue has %d items after approval, want 0", len(pending))
	}
	if all := s.AllReceipts("", 0, 50); len(all) != 1 {
		t.Fatalf("all receipts = %d, want 1", len(all))
	}
}

func TestStore_ExchangeRules(t *testing.T) {
	s := NewStore()

	u, err := s.CreateUser("a@b.c", "secret", "Alice", "")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if _, err := s.GrantPoints(u.ID, 400, "welcome"); err != nil {
		t.Fatalf("GrantPoints error: %v", err)
	}

	if _, err := s.CreateExchange(u.ID, minExchangeAmount-1, "gift-card", nil); !errors.Is(err, ErrExchangeTooSmall) {
		t.Fatalf("small exchange error = %v, want ErrExchangeTooSmall", err)
	}
	if _, err := s.CreateExchange(u.ID, 1000, "gift-card", nil); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("over-balance exchange error = %v, want ErrInsufficientBalance", err)
	}

	ex, err := s.CreateExchange(u.ID, 300, "gift-card", nil)
	if err != nil {
		t.Fatalf("CreateExchange error: %v", err)
	}
	if ex.Status != "requested" {
		t.Fatalf("exchange status = %s, want requested", ex.Status)
	}
	if got := s.Balance(u.ID); got != 100 {
		t.Fatalf("balance = %d, want 100 after exchange", got)
	}

	history := s.PointHistory(u.ID, 0, 10)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].Amount != -300 {
		t.Fatalf("latest tx amount = %d, want -300", history[0].Amount)
	}
}

func TestStore_SurveyAnswerOnce(t *testing.T) {
	s := NewStore()

	u, err := s.CreateUser("a@b.c", "secret", "Alice", "")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	sv := s.CreateSurvey("Feedback", nil, 25, nil, true)

	if s.HasAnswered(u.ID, sv.ID) {
		t.Fatal("HasAnswered = true before answering")
	}

	_, points, err := s.SubmitAnswer(u.ID, sv.ID)
	if err != nil {
		t.Fatalf("SubmitAnswer error: %v", err)
	}
	if points != 25 {
		t.Fatalf("points = %d, want 25", points)
	}
	if !s.HasAnswered(u.ID, sv.ID) {
		t.Fatal("HasAnswered = false after answering")
	}
	if got := s.Balance(u.ID); got != 25 {
		t.Fatalf("balance = %d, want 25", got)
	}

	if _, _, err := s.SubmitAnswer(u.ID, sv.ID); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second answer error = %v, want ErrAlreadyAnswered", err)
	}
}

func TestStore_SurveysActiveFilter(t *testing.T) {
	s := NewStore()

	s.CreateSurvey("Active", nil, 10, nil, true)
	s.CreateSurvey("Hidden", nil, 10, nil, false)

	active := s.Surveys(true, 0, 20)
	if len(active) != 1 || active[0].Title != "Active" {
		t.Fatalf("active surveys = %+v, want only Active", active)
	}
	if all := s.Surveys(false, 0, 20); len(all) != 2 {
		t.Fatalf("all surveys = %d, want 2", len(all))
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := page(items, 0, 2); len(got) != 2 || got[0] != 1 {
		t.Fatalf("page(0,2) = %v", got)
	}
	if got := page(items, 3, 10); len(got) != 2 || got[0] != 4 {
		t.Fatalf("page(3,10) = %v", got)
	}
	if got := page(items, 10, 2); len(got) != 0 {
		t.Fatalf("page(10,2) = %v, want empty", got)
	}
	if got := page(items, 0, 0); len(got) != 5 {
		t.Fatalf("page(0,0) = %v, want all items", got)
	}
}
