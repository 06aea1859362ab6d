package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/config"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/feed"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/handler"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/repository"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/server"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/service"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/session"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock, err := businessday.New(cfg.BusinessTimezone)
	if err != nil {
		logger.Error("invalid business timezone", "err", err)
		os.Exit(1)
	}
	reportZone, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.Error("invalid report timezone", "err", err)
		os.Exit(1)
	}

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// change feed
	broker := feed.NewBroker(logger)
	listener := db.Listener{
		DB:             pg,
		Channel:        cfg.FeedChannel,
		ReconnectDelay: cfg.FeedReconnectDelay,
		Publisher:      broker,
		Logger:         logger,
	}
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("change feed stopped", "err", err)
		}
	}()

	// repositories
	agentRepo := repository.AgentRepository{DB: pg}
	shiftRepo := repository.ShiftRepository{DB: pg}
	storewideRepo := repository.StorewideRepository{DB: pg}
	totalsRepo := repository.TotalsRepository{DB: pg}

	// services
	shiftSvc := service.ShiftService{Clock: clock, Shifts: shiftRepo, Logger: logger}
	storewideSvc := service.StorewideService{
		Clock:      clock,
		ReportZone: reportZone,
		Store:      storewideRepo,
		Totals:     totalsRepo,
		Logger:     logger,
	}
	reportSvc := service.ReportService{Storewide: storewideSvc}

	// live sessions
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	wsHandler := websocket.NewHandler(ctx, hub, session.Deps{
		Clock:     clock,
		Agents:    agentRepo,
		Shifts:    shiftRepo,
		Totals:    totalsRepo,
		Feed:      broker,
		ShiftSvc:  shiftSvc,
		Storewide: storewideSvc,
		Reports:   reportSvc,
		Logger:    logger,
	}, websocket.Options{
		WriteWait:      cfg.WSWriteWait,
		PongWait:       cfg.WSPongWait,
		PingPeriod:     cfg.WSPingPeriod,
		MaxMessageSize: cfg.WSMaxMessageSize,
	}, cfg.AllowedOrigins, logger)

	// handlers
	healthHandler := handler.HealthHandler{DB: pg, Sessions: hub.ClientCount}
	agentHandler := handler.AgentHandler{Agents: agentRepo}
	todayHandler := handler.TodayHandler{Clock: clock, Agents: agentRepo, Shifts: shiftRepo, Totals: totalsRepo}
	shiftHandler := handler.ShiftHandler{Svc: shiftSvc}
	storewideHandler := handler.StorewideHandler{Svc: storewideSvc}
	reportHandler := handler.ReportHandler{Reports: reportSvc}

	if !cfg.AuthEnabled() {
		logger.Warn("JWT_SECRET not set; API is unauthenticated")
	}

	router := server.NewRouter(cfg, logger,
		healthHandler,
		agentHandler,
		todayHandler,
		shiftHandler,
		storewideHandler,
		reportHandler,
		wsHandler,
	)

	logger.Info("starting server", "port", cfg.HTTPPort, "env", cfg.Env, "business_tz", cfg.BusinessTimezone)
	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}
