package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/m-okumura/poikatsu-dashboard/internal/model"
)

// Surveys возвращает страницу активных анкет.
func (c *Client) Surveys(ctx context.Context, skip, limit int) ([]model.Survey, error) {
	var surveys []model.Survey
	path := fmt.Sprintf("/surveys?skip=%d&limit=%d", skip, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// Survey возвращает анкету по идентификатору.
func (c *Client) Survey(ctx context.Context, id int64) (*model.Survey, error) {
	var s model.Survey
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/surveys/%d", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type answeredResponse struct {
	Answered bool `json:"answered"`
}

// SurveyAnswered сообщает, отвечал ли текущий участник на анкету.
func (c *Client) SurveyAnswered(ctx context.Context, id int64) (bool, error) {
	var resp answeredResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/surveys/%d/answered", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.Answered, nil
}

type surveyAnswerRequest struct {
	Answers map[string]any `json:"answers"`
}

// SubmitSurveyAnswers отправляет ответы на анкету в свободной форме.
func (c *Client) SubmitSurveyAnswers(ctx context.Context, id int64, answers map[string]any) (*model.SurveyAnswerResult, error) {
	var res model.SurveyAnswerResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/surveys/%d/answers", id), surveyAnswerRequest{Answers: answers}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
