package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"

	"github.com/inshare/goshare/internal/config"
	"github.com/inshare/goshare/internal/logger"
	"github.com/inshare/goshare/internal/metrics"
	"github.com/inshare/goshare/internal/notify"
	"github.com/inshare/goshare/internal/share"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config        config.Config
	DB            *pgxpool.Pool
	ObjectStore   *minio.Client // nil when the local backend is configured
	ShareService  *share.Service
	NotifyService *notify.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.Share.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{logger.CorrelationIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	if deps.ShareService != nil {
		share.RegisterRoutes(router, deps.ShareService, deps.Config.Share.BaseURL, deps.Config.Share.MaxUploadSize)
	}
	if deps.NotifyService != nil {
		notify.RegisterRoutes(router, deps.NotifyService)
	}

	return router
}
