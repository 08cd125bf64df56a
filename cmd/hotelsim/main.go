package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"HotelSim/internal/config"
	"HotelSim/internal/metrics"
	"HotelSim/internal/notifier"
	"HotelSim/internal/recorder"
	"HotelSim/internal/scheduler"
	"HotelSim/internal/session"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Info("HotelSim starting...")

	// .env is optional; in containers the environment is injected directly.
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Info("loaded environment variables from .env file")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init session store
	var store session.Store
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := session.ConnectRedis(ctx, session.RedisOptions{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: cfg.Redis.MaxRetries,
		})
		if err != nil {
			logrus.Fatalf("init redis: %v", err)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL)
	default:
		fs, err := session.NewFileStore(cfg.Session.Dir)
		if err != nil {
			logrus.Fatalf("init file store: %v", err)
		}
		store = fs
	}
	logrus.Infof("session store: %s", cfg.Session.Store)

	sm, err := session.NewManager(ctx, store, cfg.Team)
	if err != nil {
		logrus.Fatalf("init session: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logrus.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init metrics
	var mc *metrics.Collectors
	if !cfg.Metrics.Disabled {
		ms := metrics.NewServer(cfg.Metrics.Port, cfg.Metrics.Endpoint)
		ms.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := ms.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("metrics shutdown: %v", err)
			}
		}()
		mc = ms.Collectors
	}

	// Init notifier
	var n notifier.Notifier = notifier.LogNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		logrus.Warn("telegram not configured, reports go to the log")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, sm, n, rec, mc)
	sched.DecisionsFile = cfg.DecisionsFile
	sched.MaxRetries = cfg.Telegram.MaxRetries
	if err := sched.RegisterAll(cfg.Schedule.SeasonCron); err != nil {
		logrus.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logrus.Info("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logrus.Info("RUN_ON_START enabled, resolving a season now")
		go sched.RunSeasonNow()
	}

	logrus.Infof("HotelSim is running for team %q. Press Ctrl+C to stop.", cfg.Team)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Info("shutdown signal received, stopping...")
	cancel()
	logrus.Info("HotelSim stopped")
}
