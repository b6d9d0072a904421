package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"market-signals/src/helpers"
	"market-signals/src/logger"
	"market-signals/src/models"
)

// StatusError is returned for non-200 responses after retries are exhausted.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d", e.StatusCode)
}

type AsyncNetworkManager struct {
	Config  models.MNetworkConfig
	Proxies *helpers.ProxyPool
	Logger  *logger.Logger
	Backoff func(attempt int) time.Duration

	client   *http.Client
	clientMu sync.Mutex
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg models.MNetworkConfig, log *logger.Logger) *AsyncNetworkManager {
	nm := &AsyncNetworkManager{
		Config:  cfg,
		Proxies: helpers.NewProxyPool(cfg.Proxies, cfg.UserAgent),
		Logger:  log,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL := nm.Proxies.Current(); proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) currentClient() *http.Client {
	nm.clientMu.Lock()
	defer nm.clientMu.Unlock()
	return nm.client
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) rotateProxy() {
	if !nm.Proxies.Rotate() {
		return
	}
	nm.Logger.Info("Rotating proxy to %s", nm.Proxies.Current().Host)

	nm.clientMu.Lock()
	nm.client = nm.createClient()
	nm.clientMu.Unlock()
}

// -----------------------------------------------------------------------------

// Get performs a GET request with retries, backoff and proxy rotation.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	finalURL := reqURL.String()

	maxRetries := nm.Config.MaxRetries
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(nm.Backoff(i)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			nm.rotateProxy()
		}

		body, retry, err := nm.do(ctx, finalURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
		nm.Logger.Info("Request to %s failed (attempt %d/%d): %v", reqURL.Host, i+1, maxRetries+1, err)
	}

	return nil, fmt.Errorf("request to %s failed: %w", reqURL.Host, lastErr)
}

// -----------------------------------------------------------------------------

// do runs one attempt and reports whether a retry makes sense.
func (nm *AsyncNetworkManager) do(ctx context.Context, finalURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", nm.Proxies.UserAgent())

	resp, err := nm.currentClient().Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		nm.Logger.Warning("Request blocked (%d)", resp.StatusCode)
		return nil, true, &StatusError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, true, &StatusError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, false, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
