package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fileshare/internal/config"
	apphttp "fileshare/internal/http"
	"fileshare/internal/service"
	"fileshare/internal/view"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	filesRoot, err := filepath.Abs(cfg.FilesRoot)
	if err != nil {
		logger.Fatalf("resolve files root: %v", err)
	}
	staticRoot, err := filepath.Abs(cfg.StaticRoot)
	if err != nil {
		logger.Fatalf("resolve static root: %v", err)
	}
	if err := os.MkdirAll(filesRoot, 0o755); err != nil {
		logger.Fatalf("create files root: %v", err)
	}

	// No user store, no server. Accounts only load at startup.
	creds, err := service.NewCredentialStore(cfg.UsersFile)
	if err != nil {
		logger.Fatalf("load users: %v", err)
	}
	sessions := service.NewSessionRegistry()
	views := view.NewRenderer(cfg.ViewsRoot, staticRoot, cfg.AppTitle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), apphttp.RequestLogger(logger))

	handler := apphttp.NewHandler(
		creds,
		sessions,
		views,
		filesRoot,
		staticRoot,
		cfg.MaxUploadBytes(),
		cfg.FileRestrictions,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (files root %s)", srv.Addr, filesRoot)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
