package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"phantomsync/internal/accounts"
	"phantomsync/internal/logger"

	"go.uber.org/zap"
)

const (
	apiKeyHeader = "X-Phantombuster-Key-1"
	maxBodySize  = 1 << 20
)

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	StatusCode int
	Status     *string
	Message    *string
	Data       any
}

func (r apiResponse) success() bool {
	return r.Status != nil && *r.Status == "success"
}

func (r apiResponse) rejected() *RejectedError {
	return &RejectedError{
		Status:     r.Status,
		Message:    r.Message,
		StatusCode: r.StatusCode,
	}
}

func (c *Client) post(ctx context.Context, account accounts.Account, path string, payload any) (apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apiResponse{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := account.Endpoint + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return apiResponse{}, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, account.APIKey)

	logger.Log.Debug("posting",
		zap.String("account", account.Name),
		zap.String("url", url),
		zap.Int("bytes", len(body)))

	resp, err := c.http.Do(req)
	if err != nil {
		return apiResponse{}, &TransportError{Cause: err}
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return apiResponse{}, &TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	var parsed struct {
		Status  any `json:"status"`
		Message any `json:"message"`
		Data    any `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logger.Log.Debug("response body is not JSON",
			zap.Int("code", resp.StatusCode),
			zap.Error(err))
	}

	return apiResponse{
		StatusCode: resp.StatusCode,
		Status:     bodyField(parsed.Status),
		Message:    bodyField(parsed.Message),
		Data:       parsed.Data,
	}, nil
}

// bodyField renders a response field, or nil when it is absent or null.
func bodyField(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	default:
		return new(fmt.Sprint(t))
	}
}
