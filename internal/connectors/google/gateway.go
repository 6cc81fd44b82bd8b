package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// defaultBaseURL is the Calendar API v3 root.
const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// accessTokenProvider mints a ready-to-use bearer token. Expired tokens
// are refreshed before being returned.
type accessTokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Gateway funnels every Calendar API request through rate limiting,
// token acquisition, and error mapping. Transient failures retry with
// exponential backoff; each attempt re-acquires a rate limit slot and a
// fresh token.
type Gateway struct {
	client     *http.Client
	limiter    *RateLimiter
	tokens     accessTokenProvider
	baseURL    string
	userAgent  string
	maxRetries int
}

// NewGateway creates a gateway rooted at baseURL.
func NewGateway(client *http.Client, limiter *RateLimiter, tokens accessTokenProvider, baseURL string, cfg Config) *Gateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Gateway{
		client:     client,
		limiter:    limiter,
		tokens:     tokens,
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// GetJSON issues a GET and decodes the response into out.
func (g *Gateway) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into
// out. A nil out discards the response body.
func (g *Gateway) PostJSON(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, nil, body, out)
}

// PutJSON issues a PUT with a JSON body and decodes the response into out.
func (g *Gateway) PutJSON(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE. Empty 2xx responses are expected.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.WrapError(domain.KindSerialization, err, "Failed to encode request body")
		}
		payload = data
	}

	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var responseBody []byte
	attempt := 0
	op := func() error {
		attempt++
		if attempt > 1 {
			logger.Debug("google: retrying %s %s (attempt %d)", method, path, attempt)
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		token, err := g.tokens.AccessToken(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
		if err != nil {
			return backoff.Permanent(domain.WrapError(domain.KindInternal, err, "Failed to build request"))
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("User-Agent", g.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := g.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return domain.WrapError(domain.KindNetwork, err, "Network error")
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return domain.WrapError(domain.KindNetwork, err, "Network error")
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			mapped := mapAPIError(res.StatusCode, data)
			if !retryableStatus(res.StatusCode) {
				return backoff.Permanent(mapped)
			}
			return mapped
		}

		responseBody = data
		return nil
	}

	if err := backoff.Retry(op, g.backOff(ctx)); err != nil {
		return err
	}

	if out != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return domain.WrapError(domain.KindDeserialization, err, "Failed to decode response")
		}
	}
	return nil
}

// postRaw issues a single POST through rate limiting and auth but
// leaves status handling to the caller. Channel management uses this
// because its error contract differs from the data plane's.
func (g *Gateway) postRaw(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, domain.WrapError(domain.KindSerialization, err, "Failed to encode request body")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}
	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, domain.WrapError(domain.KindInternal, err, "Failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return 0, nil, domain.WrapError(domain.KindNetwork, err, "Network error")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, domain.WrapError(domain.KindNetwork, err, "Network error")
	}
	return res.StatusCode, data, nil
}

// backOff builds the retry schedule: 500ms doubling, no jitter, capped
// at maxRetries retries beyond the first attempt.
func (g *Gateway) backOff(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.RandomizationFactor = 0
	policy.Multiplier = 2
	policy.MaxElapsedTime = 0

	var b backoff.BackOff = policy
	if g.maxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(g.maxRetries))
	}
	return backoff.WithContext(b, ctx)
}
