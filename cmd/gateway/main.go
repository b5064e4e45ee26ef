package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	apihttp "github.com/mind-engage/fsquiz/internal/api/http"
	"github.com/mind-engage/fsquiz/internal/config"
	"github.com/mind-engage/fsquiz/internal/db"
	"github.com/mind-engage/fsquiz/internal/export"
	"github.com/mind-engage/fsquiz/internal/fsquiz"
	"github.com/mind-engage/fsquiz/internal/logging"
	"github.com/mind-engage/fsquiz/internal/quiz"
	"github.com/mind-engage/fsquiz/internal/storage"
	syncx "github.com/mind-engage/fsquiz/internal/sync"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logrus.WithField("mode", cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := fsquiz.NewClient(fsquiz.Options{
		BaseURL:      cfg.UpstreamBaseURL,
		ImageBaseURL: cfg.ImageBaseURL,
		Timeout:      cfg.UpstreamTimeout,
	})

	// --- Sessions ---
	storeOpts := []quiz.StoreOption{quiz.WithEviction(quiz.MaxAge(cfg.SessionTTL))}
	svcOpts := []quiz.Option{
		quiz.WithDefaultCount(cfg.DefaultQuestionCount),
		quiz.WithMaxYearSpan(cfg.MaxYearSpan),
		quiz.WithConcurrency(cfg.UpstreamConcurrency),
	}
	var (
		store quiz.Store
		conn  *sql.DB
	)
	switch cfg.SessionBackend {
	case "sql":
		conn, err = db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.WithError(err).Error("open database")
			return 1
		}
		defer conn.Close()
		store = quiz.NewSQLStore(conn, storeOpts...)
		svcOpts = append(svcOpts, quiz.WithRecorder(syncx.NewEventRepo(conn)))
	default:
		store = quiz.NewInMemoryStore(storeOpts...)
	}
	svc := quiz.NewService(client, store, svcOpts...)

	// --- Export ---
	assets, err := storage.NewFSStore(cfg.AssetsPath)
	if err != nil {
		log.WithError(err).Error("asset store")
		return 1
	}
	renderer := export.NewRenderer(export.HTTPFetcher{
		Client:        &http.Client{Timeout: cfg.UpstreamTimeout},
		AllowedPrefix: client.ImageBaseURL(),
	}, assets, cfg.LogoKey)

	deps := apihttp.Deps{
		Events:   client,
		Quiz:     svc,
		Renderer: renderer,
		Assets:   assets,
	}
	if conn != nil {
		deps.DB = conn
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apihttp.NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.WithFields(logrus.Fields{
		"addr":     cfg.HTTPAddr,
		"sessions": cfg.SessionBackend,
		"upstream": cfg.UpstreamBaseURL,
	}).Info("gateway listening")

	code := 0
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.WithError(err).Error("server error")
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	return code
}
