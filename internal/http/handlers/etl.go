package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/http/response"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/pipeline/catalog_etl"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/runtime"
	"github.com/yungbote/pgscatalog-etl/internal/platform/apierr"
	"github.com/yungbote/pgscatalog-etl/internal/platform/ctxutil"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

// Routes served under /api/etl, in the order the catalog should be loaded.
var EtlRoutes = []string{
	"traits",
	"trait-categories",
	"publications",
	"prs-models",
	"prs-model-traits",
	"broad-ancestry-categories",
	"development-samples",
	"broad-ancestry-in-model",
	"model-evaluations",
}

// EntityForRoute maps a URL segment onto its pipeline entity name.
func EntityForRoute(route string) string { return strings.ReplaceAll(route, "-", "_") }

// RunExecutor is satisfied by *runtime.Registry.
type RunExecutor interface {
	Execute(ctx context.Context, entity string, params map[string]any) (*types.EtlRun, error)
}

type EtlHandlerDeps struct {
	Log  *logger.Logger
	Runs RunExecutor
}

type EtlHandler struct {
	log  *logger.Logger
	runs RunExecutor
}

func NewEtlHandlerWithDeps(deps EtlHandlerDeps) *EtlHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &EtlHandler{log: log.With("handler", "EtlHandler"), runs: deps.Runs}
}

type evaluationQuery struct {
	StartPpmID string `form:"startPpmId" binding:"omitempty,alphanum,max=32"`
	IDs        string `form:"ids" binding:"omitempty,max=4096"`
}

// GET|POST /api/etl/<route>
func (h *EtlHandler) Run(route string) gin.HandlerFunc {
	entity := EntityForRoute(route)
	return func(c *gin.Context) {
		params, err := runParams(c, entity)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}

		// The run outlives a dropped client; its bookkeeping must still land.
		ctx := context.WithoutCancel(c.Request.Context())
		run, err := h.runs.Execute(ctx, entity, params)
		if err != nil {
			if runtime.IsMissingHandler(err) {
				response.RespondError(c, http.StatusNotFound, "unknown_entity", err)
				return
			}
			fields := append([]interface{}{"entity", entity, "error", err}, ctxutil.LogFields(c.Request.Context())...)
			h.log.Error("ETL run failed", fields...)
			response.RespondError(c, http.StatusInternalServerError, "etl_failed", err)
			return
		}

		response.RespondOK(c, gin.H{
			"message":   "ETL completed",
			"entity":    run.Entity,
			"run_id":    run.ID,
			"processed": run.Processed,
			"inserted":  run.Inserted,
			"skipped":   run.Skipped,
			"failed":    run.Failed,
		})
	}
}

func runParams(c *gin.Context, entity string) (map[string]any, error) {
	if entity != EntityForRoute("model-evaluations") {
		return map[string]any{}, nil
	}
	var q evaluationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, apierr.BadRequest("invalid_query", err)
	}
	q.StartPpmID = strings.TrimSpace(q.StartPpmID)
	q.IDs = strings.TrimSpace(q.IDs)
	if q.StartPpmID != "" && q.IDs != "" {
		return nil, apierr.BadRequest("invalid_query", errors.New("startPpmId and ids are mutually exclusive"))
	}
	params := map[string]any{}
	if q.StartPpmID != "" {
		params[catalog_etl.ParamStartAfter] = q.StartPpmID
	}
	if q.IDs != "" {
		params[catalog_etl.ParamIDs] = q.IDs
	}
	return params, nil
}
