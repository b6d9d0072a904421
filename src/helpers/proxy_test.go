package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProxy(t *testing.T) {
	u, ok := ParseProxy("10.0.0.1:3128")
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.1:3128", u.String())

	u, ok = ParseProxy("socks5://proxy.local:1080")
	require.True(t, ok)
	assert.Equal(t, "socks5", u.Scheme)

	_, ok = ParseProxy("ftp://proxy.local:21")
	assert.False(t, ok)
	_, ok = ParseProxy("   ")
	assert.False(t, ok)
}

func TestProxyPoolRotation(t *testing.T) {
	pool := NewProxyPool([]string{"a.local:1", "bogus://x", "b.local:2"}, "")

	assert.Equal(t, 2, pool.Len())
	assert.Equal(t, defaultUserAgent, pool.UserAgent())
	assert.Equal(t, "a.local:1", pool.Current().Host)

	assert.True(t, pool.Rotate())
	assert.Equal(t, "b.local:2", pool.Current().Host)
	assert.True(t, pool.Rotate())
	assert.Equal(t, "a.local:1", pool.Current().Host)
}

func TestProxyPoolEmpty(t *testing.T) {
	pool := NewProxyPool(nil, "agent/1")

	assert.Nil(t, pool.Current())
	assert.False(t, pool.Rotate())
	assert.Equal(t, "agent/1", pool.UserAgent())
}
