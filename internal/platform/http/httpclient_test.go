package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(7 * time.Second)
	assert.Equal(t, 7*time.Second, c.Timeout)
	assert.NotNil(t, c.Transport)
}

// TestNewRestyClient_DefaultHeaders はブラウザ相当のヘッダーが送信されることを検証します。
func TestNewRestyClient_DefaultHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := NewRestyClient(time.Second).R().Get(server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, BrowserUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "no-cache", got.Get("Pragma"))
	assert.Contains(t, got.Get("Accept-Language"), "ja")
}
