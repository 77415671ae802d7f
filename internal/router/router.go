// internal/router/router.go
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/events"
	"github.com/lacra/agritrace-backend/internal/handlers"
	"github.com/lacra/agritrace-backend/internal/i18n"
	"github.com/lacra/agritrace-backend/internal/ledger"
	"github.com/lacra/agritrace-backend/internal/middleware"
	"github.com/lacra/agritrace-backend/internal/models"
	"github.com/lacra/agritrace-backend/internal/repository"
	"github.com/lacra/agritrace-backend/internal/sequence"
	"github.com/lacra/agritrace-backend/internal/services"
	"github.com/lacra/agritrace-backend/internal/storage"
	"github.com/lacra/agritrace-backend/internal/utils"
)

const version = "1.0.0"

// Dependencies are the long-lived components the API is built on. Hub and
// Limiter are optional.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Issuer    *sequence.Issuer
	Store     storage.Store
	Publisher events.Publisher
	Hub       *events.Hub
	Limiter   *middleware.RateLimiter
}

func Initialize(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB

	// Initialize services
	repos := repository.NewRepositories(db)
	trace := ledger.New(db)

	registrationService := services.NewRegistrationService(db, repos, deps.Issuer, trace, deps.Publisher)
	commodityService := services.NewCommodityService(db, repos, trace, deps.Store, deps.Publisher, cfg.Label)
	verificationService := services.NewVerificationService(repos, trace)
	farmerService := services.NewFarmerService(repos, cfg.GPS.Timeout(), cfg.GPS.MaxAge())

	// Initialize handlers
	batchCodeHandler := handlers.NewBatchCodeHandler(registrationService, verificationService, commodityService)
	commodityHandler := handlers.NewCommodityHandler(registrationService, commodityService)
	farmerHandler := handlers.NewFarmerHandler(farmerService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	if deps.Limiter != nil {
		r.Use(deps.Limiter.Middleware())
	}
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":    "healthy",
			"version":   version,
			"languages": i18n.GetSupportedLanguages(),
		}
		if deps.Hub != nil {
			body["live_clients"] = deps.Hub.GetClientsCount()
		}
		c.JSON(http.StatusOK, body)
	})

	api := r.Group("/api")
	{
		// Public verification behind label QR codes
		api.GET("/verify/:batchCode", verificationHandler.VerifyBatch)
		api.POST("/verify/:batchCode", verificationHandler.VerifyBatch)

		authed := api.Group("")
		authed.Use(middleware.AuthRequired())

		batchCodes := authed.Group("/batch-codes")
		{
			batchCodes.POST("", batchCodeHandler.Generate)
			batchCodes.GET("/:code", batchCodeHandler.Lookup)
			batchCodes.GET("/:code/label", batchCodeHandler.DraftLabel)
		}

		commodities := authed.Group("/commodities")
		{
			commodities.POST("", commodityHandler.Register)
			commodities.GET("", commodityHandler.List)
			commodities.GET("/export.xlsx", commodityHandler.Export)
			commodities.GET("/:batchNumber", commodityHandler.Get)
			commodities.PATCH("/:batchNumber/status",
				middleware.RequireRoles(models.RoleInspector, models.RoleAdmin),
				commodityHandler.UpdateStatus)
			commodities.GET("/:batchNumber/label", commodityHandler.Label)
			commodities.POST("/:batchNumber/label/archive", commodityHandler.ArchiveLabel)
			commodities.GET("/:batchNumber/certificate.csv", commodityHandler.Certificate)
			commodities.GET("/:batchNumber/scans", verificationHandler.ListScans)
		}

		farmers := authed.Group("/farmers")
		{
			farmers.GET("", farmerHandler.ListFarmers)
			farmers.GET("/:id", farmerHandler.GetFarmer)
			farmers.POST("", farmerHandler.CreateFarmer)
		}

		plots := authed.Group("/farm-plots")
		{
			plots.GET("", farmerHandler.ListPlots)
			plots.POST("", farmerHandler.CreatePlot)
			plots.GET("/:id/gps", farmerHandler.PlotGPS)
		}

		if deps.Hub != nil {
			liveFeed := handlers.NewLiveFeedHandler(deps.Hub, cfg.CORS.AllowedOrigins)
			api.GET("/ws/commodities", liveFeed.Commodities)
		}
	}

	// Static file serving (for development)
	if cfg.Storage.Driver == "local" && cfg.Environment == "development" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		r.Static(cfg.Storage.BaseURL, cfg.Storage.LocalPath)
	}

	return r
}
