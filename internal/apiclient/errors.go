package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrBackendUnreachable означает, что бэкенд недоступен на транспортном уровне.
// Возвращается только входом и регистрацией: пользователю нужна подсказка
// проверить, что бэкенд запущен, а не текст обычной ошибки API.
var ErrBackendUnreachable = errors.New("backend unreachable")

// APIError описывает ответ бэкенда со статусом вне диапазона 2xx.
type APIError struct {
	Status int
	Detail string
}

// Error возвращает человекочитаемое сообщение бэкенда.
func (e *APIError) Error() string {
	return e.Detail
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// newAPIError разбирает тело ошибочного ответа. Бэкенд присылает JSON с полем
// detail; если тело не разбирается, используется текст HTTP-статуса.
func newAPIError(resp *http.Response) *APIError {
	detail := http.StatusText(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err == nil {
		var d detailResponse
		if json.Unmarshal(body, &d) == nil && d.Detail != "" {
			detail = d.Detail
		}
	}

	return &APIError{
		Status: resp.StatusCode,
		Detail: detail,
	}
}

// unreachableError оборачивает транспортную ошибку в ErrBackendUnreachable
// с подсказкой о причине: бэкенд не запущен либо закрыт сетевыми настройками.
func unreachableError(baseURL string, err error) error {
	return fmt.Errorf("%w: cannot reach %s, check that the backend is running and the address is correct: %v",
		ErrBackendUnreachable, baseURL, err)
}
