package app

import (
	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

func wireCatalogClient(log *logger.Logger, cfg Config, metrics *observability.Metrics) (*pgscatalog.Client, error) {
	log.Info("Wiring catalog client...", "base_url", cfg.CatalogBaseURL)
	ccfg := pgscatalog.Config{
		BaseURL:           cfg.CatalogBaseURL,
		RateLimitBackoff:  cfg.RateLimitBackoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	if metrics != nil {
		ccfg.Recorder = metrics
	}
	return pgscatalog.New(log, ccfg)
}
