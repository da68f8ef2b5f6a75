package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userdesk/internal/client/cli"
	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	apiClient := client.NewHTTPClient(cfg.BaseURL,
		client.WithAPIKey(cfg.APIKey),
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRateLimit(cfg.RequestsPerSecond),
		client.WithLogger(logger),
	)

	overlay := services.NewOverlayStore(ctx, db, logger)
	pager := services.NewPager(apiClient, overlay, logger)
	searcher := services.NewSearcher(apiClient, overlay, cfg.SearchConcurrency, logger)

	app := cli.NewApp(
		services.NewAuthService(apiClient, db, overlay, logger),
		services.NewUserService(apiClient, overlay, pager, searcher, logger),
		logger,
		os.Stdin,
		os.Stdout,
	)

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "cli stopped", "error", err)
	}
}
