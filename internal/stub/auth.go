package stub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Сроки жизни токенов заглушки.
const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 14 * 24 * time.Hour
)

// Типы токенов в claims.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken означает просроченный, подделанный или чужого типа токен.
var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer выпускает и проверяет подписанные JWT-токены заглушки.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer создаёт эмитент токенов с указанным секретом.
// Пустой секрет заменяется случайным: подписи тогда валидны только
// в рамках одного запуска процесса.
func NewTokenIssuer(secret string) *TokenIssuer {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &TokenIssuer{
		secret: key,
		now:    time.Now,
	}
}

// Issue выпускает пару access/refresh токенов для участника.
func (i *TokenIssuer) Issue(u model.User) (model.TokenPair, error) {
	access, err := i.sign(u, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, err := i.sign(u, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (i *TokenIssuer) sign(u model.User, tokenType string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := tokenClaims{
		Email:     u.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и тип токена и возвращает идентификатор участника.
func (i *TokenIssuer) Parse(tokenString, wantType string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.TokenType != wantType {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
