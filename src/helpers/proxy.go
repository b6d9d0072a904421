package helpers

import (
	"net/url"
	"strings"
	"sync"
)

const defaultUserAgent = "market-signals/1.0 (+https://github.com)"

// -----------------------------------------------------------------------------

// ProxyPool rotates over the proxies listed in the configuration.
type ProxyPool struct {
	proxies   []*url.URL
	userAgent string
	index     int
	mu        sync.Mutex
}

// -----------------------------------------------------------------------------

func NewProxyPool(proxies []string, userAgent string) *ProxyPool {
	pool := &ProxyPool{userAgent: userAgent}
	if pool.userAgent == "" {
		pool.userAgent = defaultUserAgent
	}

	for _, p := range proxies {
		if u, ok := ParseProxy(p); ok {
			pool.proxies = append(pool.proxies, u)
		}
	}
	return pool
}

// -----------------------------------------------------------------------------

// Current returns the selected proxy or nil when none are configured.
func (p *ProxyPool) Current() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}
	return p.proxies[p.index]
}

// -----------------------------------------------------------------------------

// Rotate advances to the next proxy and reports whether it changed.
func (p *ProxyPool) Rotate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) <= 1 {
		return false
	}
	p.index = (p.index + 1) % len(p.proxies)
	return true
}

// -----------------------------------------------------------------------------

func (p *ProxyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}

func (p *ProxyPool) UserAgent() string {
	return p.userAgent
}

// -----------------------------------------------------------------------------

// ParseProxy accepts host:port or scheme://host:port with http, https or socks5.
func ParseProxy(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https", "socks5":
		return u, true
	}
	return nil, false
}
