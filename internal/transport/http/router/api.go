package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"realestate3d/internal/core/server"
	mdw "realestate3d/internal/transport/http/middleware"
)

// Options engine 公共参数
type Options struct {
	CORSOrigins []string
	// MediaRoot 本地存储目录；非空时挂载 /media
	MediaRoot   string
	RPS         float64 // 每 IP
	Burst       int
	GlobalRPS   float64 // 整个 engine 共用一个桶；0 不启用
	GlobalBurst int
	MaxInFlight int64
	MaxBody     int64
	Timeout     time.Duration
}

func (o *Options) setDefaults() {
	if o.RPS <= 0 {
		o.RPS = 200
	}
	if o.Burst <= 0 {
		o.Burst = 400
	}
	if o.GlobalRPS > 0 && o.GlobalBurst <= 0 {
		o.GlobalBurst = int(o.GlobalRPS)
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
	if o.MaxBody <= 0 {
		o.MaxBody = 16 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
}

func newEngine(l *zap.Logger, o Options) *gin.Engine {
	o.setDefaults()
	r := server.NewRouter(l, o.CORSOrigins)
	r.Use(mdw.RequestID())
	if o.GlobalRPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(o.GlobalRPS), o.GlobalBurst))
	}
	r.Use(
		mdw.RateLimitPerIP(rate.Limit(o.RPS), o.Burst, 10*time.Minute),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBody),
		mdw.Timeout(o.Timeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	return r
}

// NewAPIEngine 用户端：/api 下的业务接口 + /media + /metrics
func NewAPIEngine(l *zap.Logger, reg *Registry, o Options) *gin.Engine {
	r := newEngine(l, o)
	r.GET("/metrics", mdw.MetricsHandler())
	if root := strings.TrimSpace(o.MediaRoot); root != "" {
		r.Static("/media", root)
	}

	api := r.Group("/api")
	reg.MountAllAPI(api)
	return r
}
