package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/kochanowski/housepulse/internal/record"
)

// Config holds the record-store endpoint configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPClient talks to the managed record store over its JSON API.
// Transient transport faults are retried with capped exponential backoff
// before being surfaced as ErrNetworkUnavailable; everything above the
// transport is single-shot, recovery is the caller's next load or mutation.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

const (
	retryBase     = 200 * time.Millisecond
	retryAttempts = 2
)

// do executes one API call, retrying transport faults and 5xx responses.
// The response body is returned decoded into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrNetworkUnavailable, err))
		}
		defer resp.Body.Close()

		// Known statuses map to sentinel errors first; only unmapped 5xx
		// responses are treated as transient. 507 in particular is a quota
		// condition the user must resolve, not a fault worth retrying.
		switch err := statusError(resp.StatusCode); {
		case err == nil:
		case resp.StatusCode >= 500 && !errors.Is(err, ErrQuotaExceeded):
			return retry.RetryableError(fmt.Errorf("%w: server returned %d", ErrNetworkUnavailable, resp.StatusCode))
		default:
			return err
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	})
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrNotAuthenticated
	case code == http.StatusNotFound:
		return ErrRecordNotFound
	case code == http.StatusConflict:
		return ErrServerRecordChanged
	case code == http.StatusTooManyRequests || code == http.StatusInsufficientStorage:
		return ErrQuotaExceeded
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func recordPath(typ string, id uuid.UUID) string {
	return "/v1/records/" + url.PathEscape(typ) + "/" + id.String()
}

func (c *HTTPClient) Save(ctx context.Context, rec record.Record) (record.Record, error) {
	var confirmed record.Record
	if err := c.do(ctx, http.MethodPut, recordPath(rec.Type, rec.ID), rec, &confirmed); err != nil {
		return record.Record{}, fmt.Errorf("save %s: %w", rec.Type, err)
	}
	return confirmed, nil
}

func (c *HTTPClient) Fetch(ctx context.Context, typ string, id uuid.UUID) (record.Record, error) {
	var rec record.Record
	if err := c.do(ctx, http.MethodGet, recordPath(typ, id), nil, &rec); err != nil {
		return record.Record{}, fmt.Errorf("fetch %s: %w", typ, err)
	}
	return rec, nil
}

func (c *HTTPClient) Delete(ctx context.Context, typ string, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, recordPath(typ, id), nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", typ, err)
	}
	return nil
}

type queryResponse struct {
	Records []record.Record `json:"records"`
}

func (c *HTTPClient) Query(ctx context.Context, typ string, q Query) ([]record.Record, error) {
	var resp queryResponse
	path := "/v1/records/" + url.PathEscape(typ) + "/query"
	if err := c.do(ctx, http.MethodPost, path, q, &resp); err != nil {
		return nil, fmt.Errorf("query %s: %w", typ, err)
	}
	return resp.Records, nil
}

func (c *HTTPClient) CreateShare(ctx context.Context, householdID uuid.UUID) (Share, error) {
	var share Share
	path := "/v1/households/" + householdID.String() + "/share"
	if err := c.do(ctx, http.MethodPost, path, nil, &share); err != nil {
		return Share{}, fmt.Errorf("create share: %w", err)
	}
	if share.URL == "" {
		return Share{}, ErrShareNotCreated
	}
	return share, nil
}

func (c *HTTPClient) FetchShareURL(ctx context.Context, householdID uuid.UUID) (string, error) {
	var share Share
	path := "/v1/households/" + householdID.String() + "/share"
	if err := c.do(ctx, http.MethodGet, path, nil, &share); err != nil {
		return "", fmt.Errorf("fetch share url: %w", err)
	}
	return share.URL, nil
}

type acceptShareRequest struct {
	URL string `json:"url"`
}

func (c *HTTPClient) AcceptShare(ctx context.Context, shareURL string) (uuid.UUID, error) {
	var share Share
	if err := c.do(ctx, http.MethodPost, "/v1/shares/accept", acceptShareRequest{URL: shareURL}, &share); err != nil {
		return uuid.Nil, fmt.Errorf("accept share: %w", err)
	}
	return share.HouseholdID, nil
}
