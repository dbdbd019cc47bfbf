// Package registry submits signed consolidation claims to the relay and
// classifies the registry's answers.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/OpTi9/MENA/pkg/types"
)

// ConsolidatePath is the relay route claims are posted to.
const ConsolidatePath = "/api/consolidate"

const maxResponseSize = 1 << 20

// Client posts claims to a relay.
type Client struct {
	endpoint    string
	http        *http.Client
	sleep       SleepFunc
	maxAttempts int
}

// New creates a client for the relay at baseURL.
func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 60*time.Second)
}

// NewWithTimeout creates a client with a per-request HTTP timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint:    strings.TrimRight(baseURL, "/") + ConsolidatePath,
		http:        &http.Client{Timeout: timeout},
		sleep:       Sleep,
		maxAttempts: MaxAttempts,
	}
}

// SetSleep replaces the function used to wait between attempts.
func (c *Client) SetSleep(fn SleepFunc) {
	if fn == nil {
		fn = Sleep
	}
	c.sleep = fn
}

// Endpoint returns the URL claims are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts claim and returns the registry receipt. Rate limits (429),
// request timeouts (408) and network failures share one attempt counter
// and back off 20s, 40s. Any other non-2xx status fails immediately.
func (c *Client) Submit(ctx context.Context, claim types.Claim) (*Receipt, error) {
	body, err := json.Marshal(claim)
	if err != nil {
		return nil, fmt.Errorf("marshal claim: %w", err)
	}
	logger := klog.Registry.With().Str("donor", claim.Donor).Logger()

	attempts := 0
	for attempts < c.maxAttempts {
		resp, err := c.post(ctx, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("submit claim: %w", ctx.Err())
			}
			attempts++
			logger.Warn().Err(err).Int("attempt", attempts).Msg("Network error")
			if attempts < c.maxAttempts {
				if err := c.wait(ctx, attempts); err != nil {
					return nil, err
				}
				continue
			}
			return nil, networkError(c.maxAttempts, err)
		}

		switch {
		case resp.status >= 200 && resp.status < 300:
			logger.Info().Int("status", resp.status).Msg("Claim accepted")
			return newReceipt(resp.status, resp.body), nil
		case IsRetryable(resp.status):
			attempts++
			logger.Warn().Int("status", resp.status).Int("attempt", attempts).Msg("Rate limited")
			if attempts < c.maxAttempts {
				if err := c.wait(ctx, attempts); err != nil {
					return nil, err
				}
			}
		default:
			msg := rejectionMessage(resp)
			logger.Warn().Int("status", resp.status).Str("reason", msg).Msg("Claim rejected")
			return nil, &TerminalServiceError{Status: resp.status, Message: msg}
		}
	}
	return nil, &TransientServiceError{Message: msgMaxAttempts, Attempts: attempts}
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	d := Delay(attempt)
	klog.Registry.Debug().Dur("delay", d).Int("attempt", attempt).Msg("Backing off")
	if err := c.sleep(ctx, d); err != nil {
		return fmt.Errorf("backoff: %w", err)
	}
	return nil
}

type response struct {
	status     int
	statusText string
	body       []byte
}

func (c *Client) post(ctx context.Context, body []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{
		status:     resp.StatusCode,
		statusText: strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		body:       data,
	}, nil
}

// rejectionMessage maps a non-retryable response to its user-facing text.
func rejectionMessage(resp *response) string {
	switch resp.status {
	case http.StatusConflict:
		return msgConflict
	case http.StatusBadRequest:
		return msgBadRequest
	case http.StatusNotFound:
		return msgNotFound
	}

	fallback := "HTTP " + strconv.Itoa(resp.status)
	var parsed any
	if err := json.Unmarshal(resp.body, &parsed); err != nil || parsed == nil {
		return fallback + ": " + resp.statusText
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return fallback
	}
	for _, key := range []string{"error", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
