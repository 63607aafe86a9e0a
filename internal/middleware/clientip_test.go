package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newContext(remoteAddr string, headers map[string]string) echo.Context {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestClientIPHeaderPreference(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "cloudflare header wins over everything",
			remoteAddr: "10.0.0.1:4321",
			headers: map[string]string{
				"CF-Connecting-IP": "203.0.113.7",
				"X-Forwarded-For":  "198.51.100.1, 10.0.0.1",
			},
			want: "203.0.113.7",
		},
		{
			name:       "first forwarded-for element",
			remoteAddr: "10.0.0.1:4321",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
			want:       "198.51.100.1",
		},
		{
			name:       "forwarded-for with surrounding spaces",
			remoteAddr: "10.0.0.1:4321",
			headers:    map[string]string{"X-Forwarded-For": "  198.51.100.2  "},
			want:       "198.51.100.2",
		},
		{
			name:       "peer address without headers",
			remoteAddr: "192.0.2.9:55555",
			want:       "192.0.2.9",
		},
		{
			name:       "peer address without a port",
			remoteAddr: "192.0.2.9",
			want:       "192.0.2.9",
		},
		{
			name: "nothing known",
			want: "unknown",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newContext(tc.remoteAddr, tc.headers)
			assert.Equal(t, tc.want, ClientIP(c))
		})
	}
}
