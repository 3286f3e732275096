package app

import (
	"github.com/yungbote/pgscatalog-etl/internal/http"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) http.RouterConfig {
	rc := http.RouterConfig{
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		Metrics:       metrics,
		HealthHandler: handlers.Health,
		EtlHandler:    handlers.Etl,
		RunsHandler:   handlers.Runs,
	}
	if cfg.OTel.Enabled {
		rc.ServiceName = cfg.OTel.ServiceName
	}
	return rc
}
