package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"realestate3d/internal/app"
	"realestate3d/internal/core/config"
	"realestate3d/internal/core/logger"
	"realestate3d/internal/core/server"
)

func main() { os.Exit(run()) }

// run 返回退出码；defer 的 Close/日志 flush 都在 os.Exit 之前执行
func run() int {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		return 1
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("init failed", zap.Error(err))
		return 1
	}
	defer a.Close()

	// HTTP Server
	hc := cfg.App.HTTP
	addr := server.Addr(hc.Host, hc.Port)
	srv := server.BuildServer(
		addr, a.APIEngine(),
		time.Duration(hc.ReadTimeoutSec)*time.Second,
		time.Duration(hc.WriteTimeoutSec)*time.Second,
		time.Duration(hc.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	baseURL := server.HumanURL(hc.Host, hc.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 阻塞直到 SIGINT/SIGTERM，然后优雅关闭
	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("user api stopped with error", zap.Error(err))
		return 1
	}
	log.Info("user api stopped gracefully")
	return 0
}
