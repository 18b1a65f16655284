package main

import (
	"database/sql"
	"net/http"

	"nutrimart-be/internal/address"
	"nutrimart-be/internal/cart"
	"nutrimart-be/internal/config"
	"nutrimart-be/internal/db"
	"nutrimart-be/internal/logger"
	"nutrimart-be/internal/middleware"
	"nutrimart-be/internal/order"
	"nutrimart-be/internal/payhere"
	"nutrimart-be/internal/product"
	"nutrimart-be/internal/rest"
	"nutrimart-be/internal/user"

	"go.uber.org/zap"
)

// Seams for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	handler := newServer(cfg, database)

	logger.L().Info("api server listening", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, handler)
}

// newServer wires repositories, services and the HTTP surface.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	addressRepo := address.NewRepository(database)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, addressRepo, userRepo)

	signer := payhere.NewSigner(cfg.PayHereMerchantID, cfg.PayHereMerchantSecret)

	mux := rest.NewRouter(rest.RouterDeps{
		Users:     rest.NewUserHandler(userSvc),
		Products:  rest.NewProductHandler(productSvc),
		Cart:      rest.NewCartHandler(cartSvc),
		Orders:    rest.NewOrderHandler(orderSvc, signer),
		Addresses: rest.NewAddressHandler(addressRepo),
		Webhook:   payhere.NewWebhookHandler(signer, orderSvc),
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Outermost first: request id, logging, token parsing, then rate
	// limiting (after auth so quotas key on user id when available);
	// per-route guards live in the router.
	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}
