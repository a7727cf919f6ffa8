package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/lachabroderie/shop-api/internal/app"
	"github.com/lachabroderie/shop-api/internal/app/handlers"
	"github.com/lachabroderie/shop-api/internal/auth/authmiddleware"
	"github.com/lachabroderie/shop-api/internal/clients/mondialrelay"
	"github.com/lachabroderie/shop-api/internal/clients/payplug"
	"github.com/lachabroderie/shop-api/internal/clients/resend"
	"github.com/lachabroderie/shop-api/internal/config"
	"github.com/lachabroderie/shop-api/internal/lib/logger"
	"github.com/lachabroderie/shop-api/internal/lib/logger/handlers/urllog"
	"github.com/lachabroderie/shop-api/internal/service"
	"github.com/lachabroderie/shop-api/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	productRepo := storage.NewProductRepository(application.DB)
	reviewRepo := storage.NewReviewRepository(application.DB)

	payplugClient := payplug.New(application.Logger, cfg.Payment.APIURL, cfg.Payment.SecretKey)
	relayClient := mondialrelay.New(application.Logger, cfg.MondialRelay.Endpoint, cfg.MondialRelay.Enseigne, cfg.MondialRelay.PrivateKey)
	mailClient := resend.New(application.Logger, cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)

	paymentService := service.NewPaymentService(application.Logger, payplugClient, cfg.SiteURL)
	relayService := service.NewRelayService(application.Logger, relayClient)
	emailService := service.NewEmailService(application.Logger, mailClient)
	catalogService := service.NewCatalogService(application.Logger, productRepo)
	reviewService := service.NewReviewService(application.Logger, reviewRepo)
	adminService := service.NewAdminService(application.Logger, cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, time.Duration(cfg.Admin.TokenTTL)*time.Minute)

	// checkout and confirmation
	router.Post("/api/payment", handlers.CreatePaymentHandler(application.Logger, paymentService))
	router.Get("/api/payment", handlers.GetPaymentHandler(application.Logger, paymentService))
	router.Get("/api/payment/verify", handlers.VerifyPaymentHandler(application.Logger, paymentService))
	router.Post("/api/webhooks/payplug", handlers.PayplugWebhookHandler(application.Logger))

	// shipping
	router.Post("/api/mondialrelay", handlers.RelaySearchHandler(application.Logger, relayService))
	router.Post("/api/shipping/quote", handlers.ShippingQuoteHandler(application.Logger))

	// mail
	router.Post("/api/email/order-confirmation", handlers.OrderEmailHandler(application.Logger, emailService))

	// catalog and reviews
	router.Get("/api/products", handlers.ListProductsHandler(application.Logger, catalogService))
	router.Get("/api/products/{id}", handlers.GetProductHandler(application.Logger, catalogService))
	router.Get("/api/reviews", handlers.GetReviewsHandler(application.Logger, reviewService))
	router.Post("/api/reviews", handlers.CreateReviewHandler(application.Logger, reviewService))
	router.Post("/api/reviews/{id}/like", handlers.LikeReviewHandler(application.Logger, reviewService))

	// back office
	router.Post("/api/admin/login", handlers.AdminLoginHandler(application.Logger, adminService))
	router.Group(func(r chi.Router) {
		r.Use(authmiddleware.New(cfg.Admin.JWTSecret))
		r.Get("/api/admin/products", handlers.ListProductsHandler(application.Logger, catalogService))
		r.Post("/api/admin/products", handlers.CreateProductHandler(application.Logger, catalogService))
		r.Put("/api/admin/products/{id}", handlers.UpdateProductHandler(application.Logger, catalogService))
		r.Delete("/api/admin/products/{id}", handlers.DeleteProductHandler(application.Logger, catalogService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
