package app

import (
	"fmt"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	"github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/pipeline/catalog_etl"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/runtime"
	"github.com/yungbote/pgscatalog-etl/internal/observability"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type Services struct {
	Runner   *pipeline.Runner
	Registry *runtime.Registry
}

func wireServices(log *logger.Logger, cfg Config, set *repos.Set, client *pgscatalog.Client, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	var pm pipeline.Metrics
	if metrics != nil {
		pm = metrics
	}
	runner, err := pipeline.NewRunner(log, client, set, pipeline.Config{
		AuditDir:     cfg.AuditDir,
		ScoreURLBase: cfg.ScoreURLBase,
	}, pm)
	if err != nil {
		return Services{}, fmt.Errorf("init pipeline runner: %w", err)
	}
	reg := runtime.NewRegistry(set.EtlRuns, log)
	if err := catalog_etl.Register(reg, runner); err != nil {
		return Services{}, fmt.Errorf("register etl handlers: %w", err)
	}
	return Services{Runner: runner, Registry: reg}, nil
}
