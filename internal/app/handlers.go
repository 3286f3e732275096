package app

import (
	"context"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	httpH "github.com/yungbote/pgscatalog-etl/internal/http/handlers"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Etl    *httpH.EtlHandler
	Runs   *httpH.RunsHandler
}

func wireHandlers(log *logger.Logger, services Services, set *repos.Set, ping func(ctx context.Context) error) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(ping),
		Etl:    httpH.NewEtlHandlerWithDeps(httpH.EtlHandlerDeps{Log: log, Runs: services.Registry}),
		Runs:   httpH.NewRunsHandler(set.EtlRuns),
	}
}
