// Package apiclient предоставляет типизированный клиент REST API программы
// лояльности пой-кацу. Все сетевые вызовы дашборда проходят через него.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m-okumura/poikatsu-dashboard/internal/tokenstore"
)

// DefaultBaseURL — адрес бэкенда для локальной разработки.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// Client инкапсулирует HTTP-взаимодействие с бэкендом программы лояльности.
// Клиент не хранит состояния, кроме чтения пары токенов из хранилища;
// записывает токены только вход, регистрация, обновление и выход.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
}

// New создаёт клиент API по указанному базовому адресу.
// Тайм-аут на стороне клиента не устанавливается: зависший запрос
// прерывается только отменой контекста.
func New(baseURL string, tokens tokenstore.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
	}
}

// BaseURL возвращает базовый адрес бэкенда.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do выполняет запрос к бэкенду: сериализует тело в JSON, подставляет
// access-токен, если он сохранён, и разбирает ответ в out.
// Ответы вне диапазона 2xx нормализуются в *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return decodeStrict(resp.Body, out)
}

// setAuthHeader добавляет заголовок Authorization, если access-токен сохранён.
func (c *Client) setAuthHeader(req *http.Request) {
	if pair, ok := c.tokens.Load(); ok && pair.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	}
}

// decodeStrict разбирает JSON-ответ, отклоняя неизвестные поля.
// Неожиданная форма ответа — ошибка, а не молчаливый пропуск.
func decodeStrict(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
