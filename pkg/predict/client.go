package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// ErrTimeout reports that the bounded wait for a remote prediction elapsed
// before a usable response arrived.
var ErrTimeout = errors.New("prediction request timed out")

// StatusError is a non-2xx response from the predictor. Message carries the
// body's "message" field verbatim when the predictor sent one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("predictor returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("predictor returned %d", e.StatusCode)
}

// DefaultTimeout bounds a whole Predict call, retries included.
const DefaultTimeout = 8 * time.Second

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client posts StudentMetrics to a remote predictor implementing the same
// contract as the local engine. Connection failures and 5xx responses retry
// with exponential backoff inside the configured bound; calls are rate
// limited client-side.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	endpoint string
	timeout  time.Duration
}

func NewClient(cfg Config) *Client {
	t := cfg.Timeout
	if t <= 0 {
		t = DefaultTimeout
	}
	return &Client{
		http:     &http.Client{Timeout: t},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 5),
		endpoint: cfg.Endpoint,
		timeout:  t,
	}
}

func (c *Client) Predict(ctx context.Context, m StudentMetrics) (*PredictionResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		raw, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode/100 != 2 {
			stErr := &StatusError{StatusCode: res.StatusCode, Message: failureMessage(raw)}
			if res.StatusCode >= 500 {
				return stErr
			}
			return backoff.Permanent(stErr)
		}
		body = raw
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		// A concrete server response outranks the elapsed deadline.
		var stErr *StatusError
		if errors.As(err, &stErr) {
			return nil, stErr
		}
		if timedOut(ctx, err) {
			return nil, fmt.Errorf("predict %s: %w", c.endpoint, ErrTimeout)
		}
		return nil, fmt.Errorf("predict %s: %w", c.endpoint, err)
	}

	if err := validateResult(body); err != nil {
		return nil, fmt.Errorf("predict %s: %w", c.endpoint, err)
	}
	var out PredictionResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("predict %s: decode response: %w", c.endpoint, err)
	}
	return &out, nil
}

// failureMessage pulls the "message" field out of an error body, if any.
func failureMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func timedOut(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
