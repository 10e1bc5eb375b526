package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mod struct {
	name string
	prio int
	log  *[]string
}

func (m mod) MountAPI(g *gin.RouterGroup) {
	*m.log = append(*m.log, m.name)
	g.GET("/"+m.name, func(c *gin.Context) { c.String(http.StatusOK, m.name) })
}

func (m mod) Priority() int { return m.prio }

type adminOnly struct{ log *[]string }

func (a adminOnly) MountAdmin(*gin.RouterGroup) { *a.log = append(*a.log, "admin") }

func TestRegistryOrdersByPriority(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var order []string
	reg := NewRegistry(mod{"b", 100, &order}, mod{"a", 10, &order}, adminOnly{&order})

	r := gin.New()
	reg.MountAllAPI(r.Group("/api"))
	if strings.Join(order, ",") != "a,b" {
		t.Fatalf("api mount order = %v", order)
	}
	reg.MountAllAdmin(r.Group("/admin/v1"))
	if order[len(order)-1] != "admin" {
		t.Fatalf("admin module not mounted: %v", order)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/a", nil))
	if w.Body.String() != "a" {
		t.Fatalf("route /api/a = %q", w.Body.String())
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var log []string
	m := mod{"x", 1, &log}
	for i := 0; i < 2; i++ {
		r := gin.New()
		NewRegistry(m).MountAllAPI(r.Group("/api"))
	}
	if len(log) != 2 {
		t.Fatalf("expected one mount per registry, got %v", log)
	}
}

func TestAPIEngineGlobalRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var log []string
	reg := NewRegistry(mod{"g", 1, &log})
	r := NewAPIEngine(zap.NewNop(), reg, Options{GlobalRPS: 0.001, GlobalBurst: 2})

	// 不同 IP 共用同一个桶
	codes := make([]int, 0, 3)
	for i, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/g", nil)
		req.RemoteAddr = ip + ":" + strconv.Itoa(4000+i)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v", codes)
	}
}

func TestAPIEngineWithoutGlobalLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var log []string
	r := NewAPIEngine(zap.NewNop(), NewRegistry(mod{"g", 1, &log}), Options{})
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/g", nil)
		req.RemoteAddr = "10.0.1." + strconv.Itoa(i+1) + ":4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
}
