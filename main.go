package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"scholaflow/backend/app"
	"scholaflow/backend/config"
	"scholaflow/backend/db"
	"scholaflow/backend/internal/service"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	if err := config.Setup(); err != nil {
		return err
	}

	if err := app.MakeLogger(); err != nil {
		return err
	}
	defer zap.L().Sync()

	if viper.GetString("app.environment") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := app.NewDeps(ctx)
	if err != nil {
		return err
	}
	defer db.Close(d.DB)

	// Expired sessions are rare, the auth provider already refuses them
	service.SessionCleanup(ctx, viper.GetDuration("sessions.cleanup_interval"), d.DB)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler:           app.NewRouter(ctx, d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
