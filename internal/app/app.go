package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniilsolovey/vsk-portal/config"
	"github.com/daniilsolovey/vsk-portal/internal/cms"
	db "github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/rpc"
	"github.com/daniilsolovey/vsk-portal/internal/session"
	"github.com/daniilsolovey/vsk-portal/internal/site"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

const (
	rpcPath     = "/rpc/"
	metricsPath = "/metrics"
)

type App struct {
	DB      *db.Repository
	Uploads *upload.Ingestor
	Logger  *slog.Logger
	Echo    *echo.Echo
	Config  config.Config
}

func New(cfg config.Config, dbConnect *pg.DB, logger *slog.Logger) (*App, error) {
	database := db.New(dbConnect)

	uploads := upload.New(cfg.Upload.Root, cfg.Upload.Rules(), logger)
	if err := uploads.Prepare(); err != nil {
		return nil, err
	}

	gate, err := session.New(cfg.Gate(), logger)
	if err != nil {
		return nil, fmt.Errorf("session gate: %w", err)
	}

	manager := cms.NewManager(cms.RepositoryStores(database), uploads, logger)

	portal, err := site.New(manager, gate, uploads, site.Options{MaxUploadSize: cfg.Upload.MaxSize}, logger)
	if err != nil {
		return nil, err
	}

	e := portal.RegisterRoutes()
	e.Any(rpcPath, echo.WrapHandler(rpc.New(logger, manager, uploads)))
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))

	return &App{
		DB:      database,
		Uploads: uploads,
		Logger:  logger,
		Echo:    e,
		Config:  cfg,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	addr := net.JoinHostPort(a.Config.App.Host, strconv.Itoa(a.Config.App.Port))
	a.Logger.InfoContext(ctx, "http server starting", "addr", addr)

	err := a.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	if cerr := a.DB.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close database: %w", cerr))
	}

	return err
}
