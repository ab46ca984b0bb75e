package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tapfolio/tapfolio-backend/api/controllers"
	"github.com/tapfolio/tapfolio-backend/api/routes"
	"github.com/tapfolio/tapfolio-backend/internal/auth"
	"github.com/tapfolio/tapfolio-backend/internal/cart"
	"github.com/tapfolio/tapfolio-backend/internal/catalog"
	checkoutsvc "github.com/tapfolio/tapfolio-backend/internal/checkout"
	"github.com/tapfolio/tapfolio-backend/internal/drafts"
	"github.com/tapfolio/tapfolio-backend/internal/media"
	"github.com/tapfolio/tapfolio-backend/internal/preview"
	"github.com/tapfolio/tapfolio-backend/internal/profiles"
	"github.com/tapfolio/tapfolio-backend/internal/users"
	"github.com/tapfolio/tapfolio-backend/pkg/auth/session"
	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
	"github.com/tapfolio/tapfolio-backend/pkg/migrate"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox"
	"github.com/tapfolio/tapfolio-backend/pkg/redis"
	"github.com/tapfolio/tapfolio-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewProductRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	draftsService, err := drafts.NewService(drafts.ServiceParams{
		Repo:     drafts.NewRepository(dbClient.DB()),
		Products: catalog.NewProductRepository(dbClient.DB()),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create drafts service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Records:    cart.NewCartRecordRepository(dbClient.DB()),
		Items:      cart.NewCartItemRepository(dbClient.DB()),
		Products:   catalog.NewProductRepository(dbClient.DB()),
		Tx:         dbClient,
		Storefront: cfg.Storefront,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Orders:     checkoutsvc.NewOrderRepository(dbClient.DB()),
		Carts:      cart.NewCartRecordRepository(dbClient.DB()),
		Emitter:    outboxService,
		Tx:         dbClient,
		Storefront: cfg.Storefront,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(media.ServiceParams{
		Repo:    media.NewRepository(dbClient.DB()),
		Storage: gcsClient,
		Emitter: outboxService,
		Tx:      dbClient,
		Config:  cfg.Media,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	renderer, err := preview.NewRenderer(cfg.Storefront)
	if err != nil {
		logg.Error(context.Background(), "failed to create preview renderer", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Pingers: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
			"gcs":   gcsClient,
		},
		Sessions: sessionManager,
		Auth:     authService,
		Catalog:  catalogService,
		Drafts:   draftsService,
		Profiles: profilesService,
		Cart:     cartService,
		Checkout: checkoutService,
		Media:    mediaService,
		Renderer: renderer,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
