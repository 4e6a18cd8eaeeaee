package stub

import (
	"errors"
	"testing"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	u := model.User{ID: 42, Email: "a@b.c"}

	pair, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("token type = %q, want bearer", pair.TokenType)
	}

	id, err := issuer.Parse(pair.AccessToken, tokenTypeAccess)
	if err != nil {
		t.Fatalf("Parse access error: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject = %d, want 42", id)
	}

	id, err = issuer.Parse(pair.RefreshToken, tokenTypeRefresh)
	if err != nil {
		t.Fatalf("Parse refresh error: %v", err)
	}
	if id != 42 {
		t.Fatalf("subject = %d, want 42", id)
	}
}

func TestTokenIssuer_RejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	pair, err := issuer.Issue(model.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := issuer.Parse(pair.RefreshToken, tokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh-as-access error = %v, want ErrInvalidToken", err)
	}
	if _, err := issuer.Parse(pair.AccessToken, tokenTypeRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access-as-refresh error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	other := NewTokenIssuer("other-secret")

	pair, err := other.Issue(model.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := issuer.Parse(pair.AccessToken, tokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * accessTokenTTL) }

	pair, err := issuer.Issue(model.User{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(pair.AccessToken, tokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token error = %v, want ErrInvalidToken", err)
	}
}
