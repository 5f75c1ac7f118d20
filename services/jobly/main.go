package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/relabs-tech/jobly/core/config"
	"github.com/relabs-tech/jobly/core/logger"
	"github.com/relabs-tech/jobly/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot load configuration")
	}
	logger.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := service.New(ctx, cfg)
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot start service")
	}
	defer s.Close()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Default().Infoln("listen on port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Default().WithError(err).Errorln("http server")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Default().Infoln("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Default().WithError(err).Errorln("shutdown")
	}
}
