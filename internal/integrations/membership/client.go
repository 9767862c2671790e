package membership

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом членства
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	backoff    time.Duration
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса членства
func NewClient(baseURL string, timeout time.Duration, maxRetries uint64, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		backoff:    50 * time.Millisecond,
		log:        log,
	}
}

// GetOrganization получает организацию и её уровень членства.
// Сетевые ошибки и ответы 5xx повторяются с экспоненциальной задержкой.
func (c *Client) GetOrganization(ctx context.Context, organizationID int64) (*Organization, error) {
	var org *Organization

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		org, err = c.getOrganization(ctx, organizationID)
		if errors.Is(err, ErrUnavailable) {
			c.log.Warn("membership service unavailable for org=%d, retrying: %v", organizationID, err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return org, nil
}

func (c *Client) getOrganization(ctx context.Context, organizationID int64) (*Organization, error) {
	url := fmt.Sprintf("%s/internal/organizations/%d", c.baseURL, organizationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrOrganizationNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var org Organization
	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &org, nil
}
