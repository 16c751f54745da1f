package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hivetool/internal/metrics"
)

func newEcho(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		r.Handle(m, "/thing", func(c *gin.Context) {
			c.String(http.StatusOK, c.Request.Method+":"+c.PostForm("name"))
		})
	}
	return WithMethodOverride(r)
}

func TestMethodOverride(t *testing.T) {
	h := newEcho(t)

	cases := []struct {
		name   string
		target string
		form   url.Values
		want   string
	}{
		{"query string", "/thing?_method=DELETE", url.Values{"name": {"a"}}, "DELETE:a"},
		{"form body", "/thing", url.Values{"_method": {"put"}, "name": {"b"}}, "PUT:b"},
		{"plain post", "/thing", url.Values{"name": {"c"}}, "POST:c"},
		{"unsupported method", "/thing?_method=TRACE", url.Values{"name": {"d"}}, "POST:d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, rr.Body.String())
		})
	}
}

func TestMethodOverrideOnlyRewritesPost(t *testing.T) {
	h := newEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/thing?_method=DELETE", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine, err := New(Deps{Metrics: metrics.New()}, nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `hivetool_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
