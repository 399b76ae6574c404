package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"seniorcare/internal/config"
	"seniorcare/internal/log"
	"seniorcare/internal/services"
)

// Deps are the collaborators the API handlers need.
type Deps struct {
	Seniors      *services.SeniorService
	Applications *services.ApplicationService
	Fund         *services.FundService
	Reports      *services.ReportService
	Receipts     *ReceiptStore
	Ready        func(ctx context.Context) error
}

// NewRouter wires middleware and all API routes.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.RequestLogger())
	router.Use(log.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", func(c *gin.Context) {
		if deps.Ready != nil {
			if err := deps.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Receipts != nil {
		router.Static(cfg.ReceiptBaseURL, deps.Receipts.Dir())
	}

	api := router.Group("/api")
	{
		seniors := &seniorHandler{svc: deps.Seniors}
		api.GET("/seniors", seniors.list)
		api.POST("/seniors", seniors.create)
		api.GET("/seniors/:id", seniors.get)
		api.PUT("/seniors/:id", seniors.update)
		api.DELETE("/seniors/:id", seniors.delete)
		api.GET("/seniors/:id/applications", seniors.applications(deps.Applications))

		apps := &applicationHandler{svc: deps.Applications}
		api.GET("/applications", apps.list)
		api.POST("/applications", apps.submit)
		api.POST("/applications/:id/approve", apps.approve)
		api.POST("/applications/:id/reject", apps.reject)
		api.POST("/applications/:id/release", apps.release)

		fund := &fundHandler{svc: deps.Fund, receipts: deps.Receipts}
		api.GET("/fund", fund.overview)
		api.POST("/fund/history", fund.addHistory)
		api.DELETE("/fund/history/:id", fund.deleteHistory)
		api.GET("/fund/transactions", fund.transactions)
		api.POST("/fund/receipts", fund.uploadReceipt)

		reports := &reportHandler{svc: deps.Reports}
		api.GET("/reports/monthly", reports.monthly)
		api.POST("/reports/monthly/export", reports.export)
	}

	return router
}

// NewServer builds the http.Server around the router with sane timeouts.
func NewServer(cfg *config.Config, deps Deps) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
