// Package router assembles the gin engine.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/server/handlers"
	"github.com/mamadbah2/dairyflow/internal/server/middleware"
)

// Dependencies carries everything the routes need. Auth and Webhook may be nil, which
// leaves the API open and the webhook unmounted. A non-empty WebhookSecret makes
// POST /webhook check Meta's payload signature.
type Dependencies struct {
	Records        *handlers.RecordsHandler
	Alerts         *handlers.AlertsHandler
	Reports        *handlers.ReportsHandler
	Export         *handlers.ExportHandler
	Auth           *handlers.AuthHandler
	Verifier       middleware.Verifier
	Webhook        *handlers.WebhookHandler
	WebhookSecret  string
	Registry       *prometheus.Registry
	AllowedOrigins []string
}

// New wires the Gin engine with required routes and middlewares.
func New(deps Dependencies, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	if deps.Registry != nil {
		metrics := middleware.NewMetrics(deps.Registry)
		r.Use(metrics.Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Webhook != nil {
		r.GET("/webhook", deps.Webhook.Verify)
		if deps.WebhookSecret != "" {
			r.POST("/webhook", middleware.MetaSignature(deps.WebhookSecret, logger.Named("webhook")), deps.Webhook.Receive)
		} else {
			logger.Warn("META_APP_SECRET not set, webhook signatures are not checked")
			r.POST("/webhook", deps.Webhook.Receive)
		}
	}

	api := r.Group("/api/v1")

	protected := api.Group("")
	if deps.Auth != nil && deps.Verifier != nil {
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", deps.Auth.Signup)
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/logout", deps.Auth.Logout)

		protected.Use(middleware.RequireSession(deps.Verifier, logger.Named("session")))
		protected.GET("/auth/me", deps.Auth.Me)
	} else {
		logger.Warn("identity provider not configured, API is unauthenticated")
	}

	rec := deps.Records
	protected.GET("/animals", rec.ListAnimals)
	protected.POST("/animals", rec.CreateAnimal)
	protected.GET("/animals/:id", rec.GetAnimal)
	protected.PATCH("/animals/:id/status", rec.UpdateAnimalStatus)
	protected.GET("/animals/:id/pedigree", rec.Pedigree)
	protected.GET("/health-records", rec.ListHealthRecords)
	protected.POST("/health-records", rec.CreateHealthRecord)
	protected.GET("/milk-records", rec.ListMilkRecords)
	protected.POST("/milk-records", rec.CreateMilkRecord)
	protected.GET("/breeding-records", rec.ListBreedingRecords)
	protected.POST("/breeding-records", rec.CreateBreedingRecord)
	protected.GET("/feed-items", rec.ListFeedItems)
	protected.POST("/feed-items", rec.CreateFeedItem)
	protected.PATCH("/feed-items/:id/stock", rec.UpdateFeedStock)
	protected.GET("/transactions", rec.ListTransactions)
	protected.POST("/transactions", rec.CreateTransaction)

	alerts := deps.Alerts
	protected.GET("/alerts", alerts.List)
	protected.POST("/alerts", alerts.Create)
	protected.POST("/alerts/read-all", alerts.MarkAllRead)
	protected.POST("/alerts/sweep", alerts.Sweep)
	protected.POST("/alerts/:id/read", alerts.MarkRead)
	protected.DELETE("/alerts/:id", alerts.Dismiss)
	protected.DELETE("/alerts", alerts.PurgeRead)

	reports := deps.Reports
	protected.GET("/reports/dashboard", reports.Dashboard)
	protected.GET("/reports/milk", reports.Milk)
	protected.GET("/reports/finance", reports.Finance)
	protected.GET("/reports/feed", reports.Feed)
	protected.GET("/reports/breeding", reports.Breeding)
	protected.GET("/reports/herd", reports.Herd)

	if deps.Export != nil {
		protected.GET("/exports/workbook.xlsx", deps.Export.Workbook)
		protected.POST("/exports/sheets/:collection", deps.Export.SyncSheet)
	}
	if deps.Webhook != nil {
		protected.POST("/send-message", deps.Webhook.SendMessage)
	}

	logger.Info("router initialized")
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowMethods(http.MethodPatch)
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
