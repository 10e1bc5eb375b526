package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"realestate3d/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s3cret"), Issuer: "test", TTL: time.Minute, RefreshTTL: time.Hour, Store: auth.NewMemoryRefreshStore()}
	r := gin.New()
	r.GET("/me", AuthJWT(j, ""), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetUint(KeyUserID)})
	})
	r.GET("/admin", AuthJWT(j, "admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	userTok, _ := j.Issue(7, "a@b.c", "user")
	adminTok, _ := j.Issue(1, "root@b.c", "admin")
	pair, err := j.IssuePair(context.Background(), 7, "a@b.c", "user")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name, path, header string
		want               int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"garbage", "/me", "Bearer nope", http.StatusUnauthorized},
		{"refresh used as access", "/me", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"user ok", "/me", "Bearer " + userTok, http.StatusOK},
		{"user on admin", "/admin", "Bearer " + userTok, http.StatusForbidden},
		{"admin ok", "/admin", "Bearer " + adminTok, http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := serve(r, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d (%s)", tc.name, w.Code, tc.want, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	if body := serve(r, req).Body.String(); !strings.Contains(body, `"uid":7`) {
		t.Fatalf("uid not propagated: %s", body)
	}
}

func TestRateLimitSharedBucket(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0.001, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if code := serve(r, req).Code; code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := serve(r, req)
	if w.Code != http.StatusTooManyRequests || !strings.Contains(w.Body.String(), `"error"`) {
		t.Fatalf("second ip should share the bucket: %d %s", w.Code, w.Body.String())
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(1, 2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	for i := 0; i < 2; i++ {
		if code := hit("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: %d", i, code)
		}
	}
	if code := hit("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: got %d", code)
	}
	if code := hit("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other ip should have its own bucket: %d", code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w := serve(r, req)
	if w.Header().Get(KeyRequestID) != "abc-123" || w.Body.String() != "abc-123" {
		t.Fatalf("incoming id not kept: %q %q", w.Header().Get(KeyRequestID), w.Body.String())
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(KeyRequestID)) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get(KeyRequestID))
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	if w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))); w.Code != http.StatusOK {
		t.Fatalf("small body: %d", w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body: %d", w.Code)
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusGatewayTimeout || !strings.Contains(w.Body.String(), `"error"`) {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestConcurrencyLimitPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
			t.Fatalf("sequential request %d: %d", i, w.Code)
		}
	}
}

func TestMetricsCountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/things/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	before := promtest.ToFloat64(reqTotal.WithLabelValues("/things/:id", http.MethodGet, "200"))
	serve(r, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/things/2", nil))
	if got := promtest.ToFloat64(reqTotal.WithLabelValues("/things/:id", http.MethodGet, "200")); got-before != 2 {
		t.Fatalf("counted %v requests, want 2", got-before)
	}
	if promtest.ToFloat64(inFlight) != 0 {
		t.Fatal("in-flight gauge not released")
	}
}
