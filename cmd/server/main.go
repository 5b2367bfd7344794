package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/api/handler"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/api/router"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/board"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/repository"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/service"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/database"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/logger"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "設定ファイルのパス")
	flag.Parse()

	// ── 設定 ──
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	// ── ロガー ──
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ロガーの初期化に失敗: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// ── データベース ──
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("データベース初期化に失敗", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("内部 sql.DB の取得に失敗", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// ── Redis（任意、失敗してもキャッシュなしで続行） ──
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis 接続に失敗、キャッシュなしで続行", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ── ボードとポーラー ──
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		log.Warn("タイムゾーンの読み込みに失敗、ローカル時刻で継続",
			zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		loc = time.Local
	}
	businessDate := time.Now().In(loc).Format("2006-01-02")

	b := board.New(businessDate, board.Defaults{
		Headcount: cfg.Today.DefaultHeadcount,
		StartTime: cfg.Today.DefaultStartTime,
	})

	repo := repository.NewRepository(db)
	poller := service.NewShopPoller(cfg, repo, rdb, b, log)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollerCtx)

	// ── サービスとルーティング ──
	svc := service.NewService(cfg, repo, b, poller, log)
	h := handler.NewHandler(svc)
	r := router.Setup(cfg, h, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info("サーバー起動",
			zap.Int("port", cfg.Server.Port),
			zap.String("business_date", businessDate))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("サーバーの起動に失敗", zap.Error(err))
		}
	}()

	// ── グレースフルシャットダウン ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("シャットダウン開始")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("シャットダウンに失敗", zap.Error(err))
	}

	log.Info("シャットダウン完了")
}
