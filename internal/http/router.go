package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/pgscatalog-etl/internal/http/handlers"
	httpMW "github.com/yungbote/pgscatalog-etl/internal/http/middleware"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Metrics is optional; /metrics is only mounted when it is set.
	Metrics *observability.Metrics

	HealthHandler *handlers.HealthHandler
	EtlHandler    *handlers.EtlHandler
	RunsHandler   *handlers.RunsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	etl := api.Group("/etl")
	if cfg.RunsHandler != nil {
		etl.GET("/runs", cfg.RunsHandler.ListRuns)
		etl.GET("/runs/:id", cfg.RunsHandler.GetRun)
	}
	if cfg.EtlHandler != nil {
		for _, route := range handlers.EtlRoutes {
			h := cfg.EtlHandler.Run(route)
			etl.Handle(http.MethodGet, "/"+route, h)
			etl.Handle(http.MethodPost, "/"+route, h)
		}
	}
	return r
}
