package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pcb-inspector/internal/api/httpapi"
	"pcb-inspector/internal/api/telegram"
	"pcb-inspector/internal/container"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the optional Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}

	c, err := container.New(cfg, log)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(httpapi.Deps{
		Inspections: c.InspectionService,
		Policy:      c.UploadPolicy,
		Spool:       c.Spool,
		Metrics:     c.Metrics.Handler(),
		StaticDir:   cfg.StaticDir,
		Version:     version,
		Logger:      log,
	})

	// Бот создаётся до запуска горутин.
	var bot runner
	if cfg.TelegramToken != "" {
		b, err := telegram.NewBot(cfg.TelegramToken, telegram.Deps{
			Users:       c.UserService,
			Inspections: c.InspectionService,
			Policy:      c.UploadPolicy,
			Spool:       c.Spool,
			Logger:      log,
		})
		if err != nil {
			return err
		}
		bot = b
	} else {
		log.Info("TELEGRAM_TOKEN is empty, bot is disabled")
	}

	return serveAll(ctx, server, cfg.HTTPAddr, bot)
}

type runner interface {
	Run(ctx context.Context) error
}

// serveAll запускает HTTP-сервер и бота (если он есть) и ждёт обоих.
// Ошибка одного из них останавливает второго.
func serveAll(ctx context.Context, server *httpapi.Server, addr string, bot runner) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, addr)
	})
	if bot != nil {
		g.Go(func() error {
			return bot.Run(gctx)
		})
	}

	return g.Wait()
}
