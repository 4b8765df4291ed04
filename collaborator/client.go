package collaborator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"examprep/logger"
	"examprep/ordering"
	"examprep/study"

	"github.com/go-resty/resty/v2"
)

// Paths served by the internal routes of a remote instance of this service.
const (
	courseDetailPath = "/internal/course/{courseId}"
	accessPath       = "/internal/course/{courseId}/access/{userId}"
	enrollPath       = "/internal/course/{courseId}/enroll/{userId}"
	reorderPath      = "/internal/reorder/{type}"
)

// envelope mirrors middleware.JsonResponse.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// APIError is a non-2xx answer from the collaborator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("collaborator responded %d: %s", e.StatusCode, e.Message)
}

// Client implements study.Source and ordering.Updater over HTTP.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

func New(baseURL, token string, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if token != "" {
		rc.SetAuthToken(token)
	}
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc, log: log.With("component", "collaborator")}
}

func (c *Client) CourseDetail(ctx context.Context, courseID string) (study.Course, error) {
	var out envelope[study.Course]
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("courseId", courseID).
		SetResult(&out).
		SetError(&envelope[any]{}).
		Get(courseDetailPath)
	if err := c.check(resp, err, "course detail"); err != nil {
		return study.Course{}, err
	}
	return out.Data, nil
}

func (c *Client) AccessStatus(ctx context.Context, courseID, userID string) (study.AccessStatus, error) {
	var out envelope[study.AccessStatus]
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"courseId": courseID, "userId": userID}).
		SetResult(&out).
		SetError(&envelope[any]{}).
		Get(accessPath)
	if err := c.check(resp, err, "access status"); err != nil {
		return study.AccessStatus{}, err
	}
	return out.Data, nil
}

func (c *Client) Enroll(ctx context.Context, courseID, userID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"courseId": courseID, "userId": userID}).
		SetError(&envelope[any]{}).
		Post(enrollPath)
	return c.check(resp, err, "enroll")
}

// UpdateOrder sends one bucket to the batched endpoint of its type.
func (c *Client) UpdateOrder(ctx context.Context, b ordering.Bucket) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", string(b.Type)).
		SetBody(map[string]interface{}{"scope": b.Scope, "entries": b.Entries}).
		SetError(&envelope[any]{}).
		Put(reorderPath)
	return c.check(resp, err, "reorder "+string(b.Type))
}

func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.log.Warn("collaborator request failed", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	msg := resp.Status()
	if e, ok := resp.Error().(*envelope[any]); ok && e.Message != "" {
		msg = e.Message
	}
	c.log.Warn("collaborator rejected request", "op", op, "status", resp.StatusCode(), "message", msg)
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, study.ErrCourseNotFound)
	}
	return fmt.Errorf("%s: %w", op, &APIError{StatusCode: resp.StatusCode(), Message: msg})
}
