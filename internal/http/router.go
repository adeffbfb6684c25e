package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/productform-backend/internal/http/handlers"
	httpMW "github.com/yungbote/productform-backend/internal/http/middleware"
	"github.com/yungbote/productform-backend/internal/observability"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	ProductFormHandler *httpH.ProductFormHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Product form
		if cfg.ProductFormHandler != nil {
			api.POST("/products", cfg.ProductFormHandler.Create)
			api.PUT("/products/:id", cfg.ProductFormHandler.Update)
			api.GET("/products/:id/form", cfg.ProductFormHandler.Form)
			api.GET("/products/drafts/:token", cfg.ProductFormHandler.Draft)
			api.GET("/parcels/new-row", cfg.ProductFormHandler.NewRow)
		}
	}

	return r
}
