package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/znsio/specmatic-product-admin-go/internal/api"
	"github.com/znsio/specmatic-product-admin-go/internal/config"
	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/internal/services"
	"github.com/znsio/specmatic-product-admin-go/internal/view"
)

func main() {
	// .env is optional; deployed instances use real env vars.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	backendService := services.NewBackendService(cfg.APIBase, cfg.APIPath, cfg.APITimeout)

	var publisher interface {
		view.ChangePublisher
		Close() error
	} = services.NopPublisher{}
	if cfg.KafkaEnabled() {
		publisher = services.NewProductEventPublisher([]string{cfg.KafkaBroker()}, cfg.KafkaTopic, logger)
		logger.Info("publishing product changes", "broker", cfg.KafkaBroker(), "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	defaultLocale := i18n.Parse(cfg.Locale)
	sessions := view.NewRegistry(func(locale language.Tag) *view.View {
		return view.New(view.Options{
			NewAPI: func(token string) view.ProductAPI {
				return backendService.WithToken(token)
			},
			Publisher:   publisher,
			Locale:      locale,
			DefaultUnit: cfg.DefaultUnit,
			Logger:      logger,
		})
	}, cfg.SessionIdleTimeout)

	// setup router and start server
	r := api.SetupRouter(api.RouterConfig{
		Sessions:    sessions,
		TokenCookie: cfg.TokenCookie,
		LoginURL:    cfg.LoginURL,
		Locale:      defaultLocale,
		Logger:      logger,
	})

	logger.Info("starting product admin", "port", cfg.ServerPort, "api_base", cfg.APIBase)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
