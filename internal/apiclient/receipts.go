package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Receipts возвращает страницу чеков текущего участника.
func (c *Client) Receipts(ctx context.Context, skip, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	path := fmt.Sprintf("/receipts?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

// Receipt возвращает чек текущего участника по идентификатору.
func (c *Client) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	var r model.Receipt
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/receipts/%d", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// BuyBackTargets возвращает список товаров программы выкупа.
func (c *Client) BuyBackTargets(ctx context.Context) (*model.BuyBackTargets, error) {
	var t model.BuyBackTargets
	if err := c.do(ctx, http.MethodGet, "/receipts/buy-back-targets", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UploadReceipt загружает изображение чека multipart-формой.
// Отдельный путь, минующий do: тело не JSON, Content-Type задаёт multipart.
// Поле purchased_at не отправляется, если время покупки не указано.
func (c *Client) UploadReceipt(ctx context.Context, image io.Reader, filename, storeName string, amount int64, purchasedAt *time.Time) (*model.Receipt, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}

	if err := form.WriteField("store_name", storeName); err != nil {
		return nil, fmt.Errorf("write store_name: %w", err)
	}
	if err := form.WriteField("amount", strconv.FormatInt(amount, 10)); err != nil {
		return nil, fmt.Errorf("write amount: %w", err)
	}
	if purchasedAt != nil {
		if err := form.WriteField("purchased_at", purchasedAt.Format(time.RFC3339)); err != nil {
			return nil, fmt.Errorf("write purchased_at: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/receipts", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(resp)
	}

	var r model.Receipt
	if err := decodeStrict(resp.Body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
