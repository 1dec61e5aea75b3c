package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/quizboard/internal/config"
	"github.com/DoyleJ11/quizboard/internal/content"
	"github.com/DoyleJ11/quizboard/internal/httpapi"
	"github.com/DoyleJ11/quizboard/internal/logging"
	"github.com/DoyleJ11/quizboard/internal/pages"
	"github.com/DoyleJ11/quizboard/internal/scores"
)

func main() {
	app := &cli.App{
		Name:  "quizboard",
		Usage: "quiz scoreboard server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "optional dotenv file"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "initialize the score store and serve HTTP (default)",
				Action: serve,
			},
			{
				Name:   "init-db",
				Usage:  "create the scores table and seed rows for every team",
				Action: initDB,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type services struct {
	cfg     config.Config
	log     *zap.Logger
	content *content.Store
	scores  *scores.Store
}

func setup(c *cli.Context) (*services, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.SecretKey == "your_very_secret_key" {
		logger.Warn("SECRET_KEY is not set; using the built-in default")
	}

	store, err := scores.Open(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	return &services{
		cfg:     cfg,
		log:     logger,
		content: content.NewStore(cfg.QuestionsPath),
		scores:  store,
	}, nil
}

func initDB(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	teams := rt.content.Teams()
	err = rt.scores.Init(c.Context, teams)
	err = multierr.Append(err, rt.scores.Close())
	if err != nil {
		return err
	}
	rt.log.Info("score store initialized", zap.String("driver", rt.cfg.DBDriver), zap.Strings("teams", teams))
	return nil
}

func serve(c *cli.Context) error {
	rt, err := setup(c)
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	rt.log.Debug("starting",
		zap.String("questions", rt.cfg.QuestionsPath),
		zap.String("driver", rt.cfg.DBDriver),
		zap.String("pages_dir", rt.cfg.PagesDir),
	)

	// Startup continues even if the score store is unusable.
	rt.scores.InitOrLog(c.Context, rt.content.Teams())

	handler := httpapi.SetupRoutes(
		httpapi.Deps{Content: rt.content, Scores: rt.scores, Log: rt.log},
		httpapi.Options{
			Pages:       pages.FS(rt.cfg.PagesDir),
			CORSOrigins: rt.cfg.CORSOrigins,
			Metrics:     httpapi.NewMetrics(),
		},
	)

	server := &http.Server{
		Addr:              rt.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		rt.log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return multierr.Append(err, rt.scores.Close())
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return multierr.Combine(
		server.Shutdown(shutdownCtx),
		rt.scores.Close(),
	)
}
