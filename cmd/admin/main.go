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

	// 后台账号（配置了才建）
	ac := cfg.App.Admin
	if ac.BootstrapEmail != "" && ac.BootstrapPassword != "" {
		if err := a.Identity.EnsureStaff(ctx, ac.BootstrapEmail, ac.BootstrapPassword); err != nil {
			log.Error("bootstrap staff failed", zap.Error(err))
			return 1
		}
		log.Info("staff account ready", zap.String("email", ac.BootstrapEmail))
	}

	addr := server.Addr(ac.Host, ac.Port)
	srv := server.BuildServer(
		addr, a.AdminEngine(),
		time.Duration(ac.ReadTimeoutSec)*time.Second,
		time.Duration(ac.WriteTimeoutSec)*time.Second,
		time.Duration(ac.IdleTimeoutSec)*time.Second,
	)

	// 启动前打印可点击地址
	baseURL := server.HumanURL(ac.Host, ac.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, 10*time.Second, log); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return 1
	}
	log.Info("admin api stopped gracefully")
	return 0
}
