package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"

	"github.com/ByLCY/placard/version"
)

// DefaultEndpoint 是 Google 网页翻译使用的公开接口。
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

var userAgent = version.Name + "/" + version.Version

var _ Translator = (*GoogleClient)(nil)

// GoogleClient 调用 translate_a/single?client=gtx 接口完成翻译与语言检测。
type GoogleClient struct {
	endpoint     string
	client       *http.Client
	logger       *slog.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
}

type GoogleOption func(*GoogleClient) error

func WithEndpoint(endpoint string) GoogleOption {
	return func(c *GoogleClient) error {
		if _, err := url.Parse(endpoint); err != nil {
			return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
		}
		c.endpoint = endpoint
		return nil
	}
}

func WithRetryMax(n int) GoogleOption {
	return func(c *GoogleClient) error {
		if n < 0 {
			return fmt.Errorf("retry max must be >= 0: %d", n)
		}
		c.retryMax = n
		return nil
	}
}

func WithRetryWait(minWait, maxWait time.Duration) GoogleOption {
	return func(c *GoogleClient) error {
		c.retryWaitMin = minWait
		c.retryWaitMax = maxWait
		return nil
	}
}

func WithTimeout(d time.Duration) GoogleOption {
	return func(c *GoogleClient) error {
		c.timeout = d
		return nil
	}
}

func WithClientLogger(logger *slog.Logger) GoogleOption {
	return func(c *GoogleClient) error {
		c.logger = logger
		return nil
	}
}

// NewGoogleClient creates a translation client backed by a retrying HTTP client.
func NewGoogleClient(opts ...GoogleOption) (_ *GoogleClient, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	c := &GoogleClient{
		endpoint:     DefaultEndpoint,
		logger:       slog.New(slog.DiscardHandler),
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		timeout:      15 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.HTTPClient.Timeout = c.timeout
	retryClient.Logger = newAPILogger(c.logger)
	c.client = retryClient.StandardClient()
	return c, nil
}

// Translate implements Translator.
func (c *GoogleClient) Translate(ctx context.Context, text, target, source string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if source == "" {
		source = AutoDetect
	}
	resp, err := c.query(ctx, text, target, source)
	if err != nil {
		return "", err
	}
	return resp.translation(), nil
}

// Detect implements Translator.
func (c *GoogleClient) Detect(ctx context.Context, text string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	resp, err := c.query(ctx, text, English, AutoDetect)
	if err != nil {
		return "", err
	}
	if resp.detected == "" {
		return "", fmt.Errorf("translate: no language detected")
	}
	return resp.detected, nil
}

type gtxResponse struct {
	segments []string
	detected string
}

func (r gtxResponse) translation() string {
	return strings.Join(r.segments, "")
}

func (c *GoogleClient) query(ctx context.Context, text, target, source string) (gtxResponse, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return gtxResponse{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return gtxResponse{}, fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gtxResponse{}, fmt.Errorf("failed to read translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gtxResponse{}, fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}
	c.logger.Debug("translated", slog.String("source", source), slog.String("target", target), slog.Int("bytes", len(body)))
	return parseGTX(body)
}

// parseGTX decodes the nested-array payload:
// [[["<translated>","<original>",...],...],null,"<detected>",...]
func parseGTX(body []byte) (gtxResponse, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return gtxResponse{}, fmt.Errorf("failed to decode translate response: %w", err)
	}
	var out gtxResponse
	if len(raw) > 0 {
		segments, _ := raw[0].([]any)
		for _, seg := range segments {
			parts, ok := seg.([]any)
			if !ok || len(parts) == 0 {
				continue
			}
			if s, ok := parts[0].(string); ok {
				out.segments = append(out.segments, s)
			}
		}
	}
	if len(raw) > 2 {
		out.detected, _ = raw[2].(string)
	}
	return out, nil
}

type apiLogger struct {
	l *slog.Logger
}

func (l *apiLogger) Error(msg string, keysAndValues ...any) {
	l.l.Error(msg, keysAndValues...)
}

func (l *apiLogger) Info(msg string, keysAndValues ...any) {
	l.l.Info(msg, keysAndValues...)
}

// retryablehttp logs every request at debug level.
func (l *apiLogger) Debug(msg string, keysAndValues ...any) {
	l.l.Debug(msg, keysAndValues...)
}

func (l *apiLogger) Warn(msg string, keysAndValues ...any) {
	l.l.Warn(msg, keysAndValues...)
}

func newAPILogger(l *slog.Logger) retryablehttp.LeveledLogger {
	return &apiLogger{
		l: l.WithGroup("api"),
	}
}
