package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/huangdongj/wego/internal/auth"
	"github.com/huangdongj/wego/internal/cache"
	"github.com/huangdongj/wego/internal/config"
	"github.com/huangdongj/wego/internal/httpx"
	"github.com/huangdongj/wego/internal/metrics"
	"github.com/huangdongj/wego/internal/observability/logger"
	"github.com/huangdongj/wego/internal/pay"
	"github.com/huangdongj/wego/internal/wechat"
)

func main() {
	flagConfig := flag.String("config", "config.yaml", "path al archivo de configuración")
	flag.Parse()

	// .env opcional para secretos en dev
	_ = godotenv.Load(".env")

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyEnvOverrides(cfg)
	if cfg.WeChat.AppSecret == "" {
		log.Fatal("config: wechat.app_secret (or WEGO_APP_SECRET) is required")
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "wegod",
	})
	defer func() { _ = logger.Sync() }()

	if err := metrics.Register(nil); err != nil {
		logger.L().Fatal("metrics register failed", logger.Err(err))
	}

	store, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		logger.L().Fatal("cache init failed", logger.Err(err))
	}
	defer func() { _ = store.Close() }()

	client := wechat.NewClient(wechat.Credentials{
		AppID:     cfg.WeChat.AppID,
		AppSecret: cfg.WeChat.AppSecret,
		MchID:     cfg.WeChat.MchID,
		MchSecret: cfg.WeChat.MchSecret,
	}, store)

	flow := auth.NewFlow(client, client, store, auth.Config{
		CookieName: cfg.Session.CookieName,
		SessionTTL: cfg.SessionTTL(),
		ProfileTTL: cfg.ProfileTTL(),
	})

	builder := pay.NewBuilder(client, pay.Config{
		AppID:           cfg.WeChat.AppID,
		MchID:           cfg.WeChat.MchID,
		MchSecret:       cfg.WeChat.MchSecret,
		NotifyURL:       cfg.WeChat.NotifyURL,
		ForceMinimalFee: cfg.WeChat.ForceMinimalFee,
	})

	handler := httpx.NewRouter(httpx.Deps{
		Flow:    flow,
		Builder: builder,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.L().Info("wegod listening", logger.Path(cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", logger.Err(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.L().Info("wegod stopped")
}

// applyEnvOverrides permite inyectar secretos por entorno sin tocar el YAML.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("WEGO_APP_SECRET"); v != "" {
		cfg.WeChat.AppSecret = v
	}
	if v := os.Getenv("WEGO_MCH_SECRET"); v != "" {
		cfg.WeChat.MchSecret = v
	}
}
