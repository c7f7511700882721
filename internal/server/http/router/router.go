package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/invoicedash/internal/server/http/handlers"
	"github.com/polkiloo/invoicedash/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.InvoiceFacade, pages handlers.PageStore, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	invoiceHandler := handlers.NewInvoiceHandler(facade, pages, logger)
	healthHandler := handlers.NewHealthHandler(health)

	engine.GET("/ping", healthHandler.Ping)

	invoices := engine.Group("/dashboard/invoices")
	invoices.GET("", invoiceHandler.List)
	invoices.POST("", invoiceHandler.Create)
	invoices.GET("/:id", invoiceHandler.Get)
	invoices.PUT("/:id", invoiceHandler.Update)
	invoices.POST("/:id/edit", invoiceHandler.Update)
	invoices.DELETE("/:id", invoiceHandler.Delete)
	invoices.POST("/:id/delete", invoiceHandler.Delete)

	return engine
}
