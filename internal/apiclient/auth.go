package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type registeredUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
	model.TokenPair
}

// Login аутентифицирует участника. При успехе оба токена сохраняются
// в хранилище до возврата из функции.
func (c *Client) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	resp, err := c.postAuth(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp)
	}

	var pair model.TokenPair
	if err := decodeStrict(resp.Body, &pair); err != nil {
		return nil, err
	}

	if err := c.tokens.Save(pair); err != nil {
		return nil, fmt.Errorf("save tokens: %w", err)
	}
	return &pair, nil
}

// Register создаёт учётную запись участника. Реферальный код передаётся
// опциональным полем. При успехе оба токена сохраняются до возврата.
func (c *Client) Register(ctx context.Context, email, password, name, referralCode string) (*model.TokenPair, error) {
	resp, err := c.postAuth(ctx, "/auth/register", registerRequest{
		Email:        email,
		Password:     password,
		Name:         name,
		ReferralCode: referralCode,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp)
	}

	var reg registerResponse
	if err := decodeStrict(resp.Body, &reg); err != nil {
		return nil, err
	}

	if err := c.tokens.Save(reg.TokenPair); err != nil {
		return nil, fmt.Errorf("save tokens: %w", err)
	}
	pair := reg.TokenPair
	return &pair, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokens обменивает refresh-токен на новую пару токенов
// и сохраняет её в хранилище.
func (c *Client) RefreshTokens(ctx context.Context) (*model.TokenPair, error) {
	stored, ok := c.tokens.Load()
	if !ok || stored.RefreshToken == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Detail: "no refresh token stored"}
	}

	var pair model.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: stored.RefreshToken}, &pair); err != nil {
		return nil, err
	}

	if err := c.tokens.Save(pair); err != nil {
		return nil, fmt.Errorf("save tokens: %w", err)
	}
	return &pair, nil
}

// Logout удаляет оба сохранённых токена. Сетевой вызов не выполняется:
// бэкенд не предусматривает серверной инвалидации сессии.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// postAuth выполняет запрос к эндпоинтам аутентификации. Отдельный путь,
// минующий do: транспортная ошибка здесь превращается в ErrBackendUnreachable
// с отдельным сообщением, а заголовок Authorization не отправляется.
func (c *Client) postAuth(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unreachableError(c.baseURL, err)
	}
	return resp, nil
}
