package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/upstream"
)

const DefaultModel = "gpt-4o"

var (
	// ErrTimeout means the upstream call did not finish within its deadline.
	ErrTimeout = errors.New("llm: upstream timed out")

	// ErrUpstream covers every other failed upstream call.
	ErrUpstream = errors.New("llm: upstream request failed")

	// ErrEmptyReply means the upstream answered without any content.
	ErrEmptyReply = errors.New("llm: empty reply")
)

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Retry      upstream.RetryPolicy
	HTTPClient *http.Client
}

// Client sends chat completions to an OpenAI compatible API with a
// bounded deadline and retries for transient failures.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	retry   upstream.RetryPolicy
	tracker *upstream.Tracker
	logger  *logs.Logger
	metrics *metrics.Registry
}

func NewClient(
	opts Options,
	tracker *upstream.Tracker,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// Retries are handled by upstream.Retry so they show up in metrics.
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	c := &Client{
		api:     openai.NewClient(reqOpts...),
		model:   opts.Model,
		timeout: opts.Timeout,
		retry:   opts.Retry,
		tracker: tracker,
		logger:  logger,
		metrics: metricsRegistry,
	}
	c.retry.ShouldRetry = retryable
	c.retry.OnRetry = func(attempt int, err error) {
		c.metrics.Inc(metrics.UpstreamRetriesTotal)
		c.logger.Warnf("upstream retry %d: %v", attempt, err)
	}

	tracker.Add(c.model)
	return c
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Complete runs a chat completion and returns the first choice's text.
//
// The whole call, retries included, is bounded by the configured timeout.
// Errors wrap ErrTimeout, ErrUpstream or ErrEmptyReply.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := c.params(req)

	var reply string
	err := upstream.Retry(ctx, c.retry, func(ctx context.Context) error {
		c.metrics.Inc(metrics.UpstreamAttemptsTotal)

		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			return classify(ctx, err)
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return ErrEmptyReply
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		// The caller went away; says nothing about the upstream.
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debugf("upstream request cancelled by caller: %v", err)
			return "", fmt.Errorf("llm: request cancelled: %w", context.Canceled)
		}
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if errors.Is(err, ErrTimeout) {
			c.metrics.Inc(metrics.UpstreamTimeoutsTotal)
		}
		c.tracker.MarkFailure(c.model)
		c.logger.Warnf("upstream request failed: %v", err)
		return "", err
	}

	c.tracker.MarkSuccess(c.model)
	return reply, nil
}

// Ping checks that the configured model is reachable. It is used as the
// probe check.
func (c *Client) Ping(ctx context.Context, model string) error {
	if _, err := c.api.Models.Get(ctx, model); err != nil {
		return classify(ctx, err)
	}
	return nil
}

func (c *Client) params(req Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}

	for _, m := range req.Messages {
		params.Messages = append(params.Messages, messageParam(m))
	}
	return params
}

func messageParam(m Message) openai.ChatCompletionMessageParamUnion {
	switch m.Role {
	case RoleSystem:
		return openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(m.Text),
				},
			},
		}
	case RoleAssistant:
		return openai.ChatCompletionMessageParamUnion{
			OfAssistant: &openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(m.Text),
				},
			},
		}
	}

	if m.ImageURL == "" {
		return openai.ChatCompletionMessageParamUnion{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(m.Text),
				},
			},
		}
	}

	detail := m.ImageDetail
	if detail == "" {
		detail = DetailAuto
	}
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					{OfText: &openai.ChatCompletionContentPartTextParam{
						Text: m.Text,
					}},
					{OfImageURL: &openai.ChatCompletionContentPartImageParam{
						ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
							URL:    m.ImageURL,
							Detail: detail,
						},
					}},
				},
			},
		},
	}
}

// classify maps SDK and transport errors onto the package error kinds.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.StatusCode, Err: fmt.Errorf("%w: %w", ErrUpstream, err)}
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// StatusError carries the HTTP status returned by the upstream API.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// retryable allows another attempt for rate limits, server errors,
// empty replies and transport failures. Timeouts and client errors are final.
func retryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}
