package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ktosdespidoras/roblox/internal/adapter/metrics"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	logger *zap.Logger,
	tokenService port.TokenService,
	sessions port.SessionService,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	userHandler *UserHandler,
	catalogHandler *CatalogHandler,
	checkoutHandler *CheckoutHandler) (*Router, error) {

	h := NewHandler(logger)

	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	if m != nil {
		router.Use(requestMetrics(m))
		router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}

	auth := h.authCheck(tokenService, sessions)

	api := router.Group("/api")
	{
		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/quote", catalogHandler.Quote)

		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
			user.POST("/logout", auth, userHandler.LogoutUser)
		}

		checkout := api.Group("/checkout")
		{
			checkout.Use(auth)
			checkout.POST("", checkoutHandler.Start)
			checkout.GET("", checkoutHandler.View)
			checkout.DELETE("", checkoutHandler.Leave)
			checkout.PUT("/currency", checkoutHandler.SwitchCurrency)
			checkout.POST("/submit", checkoutHandler.Submit)
		}

		api.GET("/orders", auth, checkoutHandler.ListOrders)
	}

	return &Router{router}, nil
}

const shutdownTimeout = 10 * time.Second

// Serve starts the HTTP server and shuts it down gracefully once ctx ends.
func (r *Router) Serve(ctx context.Context, listenAddr string) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
