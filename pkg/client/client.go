// Package client is an HTTP client for the quiz API. Client implements
// session.Procedures, so a local session.Machine can be driven by a remote server.
package client

import (
	"adaptivequiz/internal/llm"
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/service"
	"adaptivequiz/internal/session"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is a failed response that has no typed equivalent
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quiz api: %d %s: %s", e.Status, e.Kind, e.Message)
}

// Client calls the quiz procedures and hosted session endpoints over HTTP
type Client struct {
	http *resty.Client
}

var _ session.Procedures = (*Client)(nil)

// New creates a client for the server at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

func (c *Client) Content(ctx context.Context, req *model.ContentRequest) (string, error) {
	var out model.ContentResponse
	if err := c.post(ctx, service.OpContent, "/v1/quiz/content", "", req, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) Outline(ctx context.Context, req *model.OutlineRequest) (string, error) {
	var out model.OutlineResponse
	if err := c.post(ctx, service.OpOutline, "/v1/quiz/outline", "", req, &out); err != nil {
		return "", err
	}
	return out.Outline, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, req *model.GenerateQuestionRequest) (*model.QuizQuestion, error) {
	var out model.QuizQuestion
	if err := c.post(ctx, service.OpGenerateQuestion, "/v1/quiz/generateQuestion", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateAnswer(ctx context.Context, req *model.ValidateAnswerRequest) (*model.QuizAnswer, error) {
	var out model.QuizAnswer
	if err := c.post(ctx, service.OpValidateAnswer, "/v1/quiz/validateAnswer", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckCompletion(ctx context.Context, req *model.CheckCompletionRequest) (bool, error) {
	var out model.CheckCompletionResponse
	if err := c.post(ctx, service.OpCheckCompletion, "/v1/quiz/checkCompletion", "", req, &out); err != nil {
		return false, err
	}
	return out.Complete, nil
}

// CreateSession starts a hosted session and returns its token and first state
func (c *Client) CreateSession(ctx context.Context, info model.QuizInfo) (*model.CreateSessionResponse, error) {
	var out model.CreateSessionResponse
	if err := c.post(ctx, "createSession", "/v1/sessions", "", &model.CreateSessionRequest{Info: info}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a hosted session
func (c *Client) GetSession(ctx context.Context, id, token string) (*model.Session, error) {
	var out model.Session
	resp, err := c.request(ctx, token).SetResult(&out).Get("/v1/sessions/" + id)
	if err := c.check("getSession", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAnswer answers the current question of a hosted session
func (c *Client) SubmitAnswer(ctx context.Context, id, token, answer string) (*model.Session, error) {
	var out model.Session
	if err := c.post(ctx, "submitAnswer", "/v1/sessions/"+id+"/answers", token, &model.SubmitAnswerRequest{Answer: answer}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrySession re-runs the failed stage of a hosted session
func (c *Client) RetrySession(ctx context.Context, id, token string) (*model.Session, error) {
	var out model.Session
	if err := c.post(ctx, "retrySession", "/v1/sessions/"+id+"/retry", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession discards a hosted session
func (c *Client) DeleteSession(ctx context.Context, id, token string) error {
	resp, err := c.request(ctx, token).Delete("/v1/sessions/" + id)
	return c.check("deleteSession", resp, err)
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&model.ErrorResponse{})
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) post(ctx context.Context, op, path, token string, body, out interface{}) error {
	req := c.request(ctx, token).SetResult(out)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(path)
	return c.check(op, resp, err)
}

// check turns a transport failure or an error body back into the typed error
// the server started from
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		kind := llm.KindNetwork
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			kind = llm.KindTimeout
		}
		return &llm.ModelTransportError{Op: op, Kind: kind, Err: err}
	}
	if !resp.IsError() {
		return nil
	}

	body, _ := resp.Error().(*model.ErrorResponse)
	if body == nil || body.Kind == "" {
		return &APIError{Status: resp.StatusCode(), Kind: model.KindInternal, Message: resp.String()}
	}
	msg := errors.New(body.Error)

	switch body.Kind {
	case model.KindValidation:
		return &service.ValidationError{Op: op, Reason: body.Error}
	case model.KindSchemaValidation:
		return &llm.SchemaValidationError{Schema: op, Reason: body.Error}
	case model.KindModelTransport:
		return &llm.ModelTransportError{Op: op, Kind: llm.TransportKind(body.TransportKind), StatusCode: resp.StatusCode(), Err: msg}
	case model.KindRateLimited:
		return &llm.ModelTransportError{Op: op, Kind: llm.KindRateLimit, StatusCode: http.StatusTooManyRequests, Err: msg}
	case model.KindConflict:
		if strings.Contains(body.Error, session.ErrBusy.Error()) {
			return fmt.Errorf("%s: %w", op, session.ErrBusy)
		}
		return fmt.Errorf("%s: %s: %w", op, body.Error, session.ErrInvalidTransition)
	}
	return &APIError{Status: resp.StatusCode(), Kind: body.Kind, Message: body.Error}
}
