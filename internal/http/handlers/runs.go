package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	"github.com/yungbote/pgscatalog-etl/internal/http/response"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/apierr"
)

type RunsHandler struct {
	runs repos.EtlRunRepo
}

func NewRunsHandler(runs repos.EtlRunRepo) *RunsHandler {
	return &RunsHandler{runs: runs}
}

type listRunsQuery struct {
	Entity string `form:"entity" binding:"omitempty,max=64"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// GET /api/etl/runs?entity=&limit=
func (h *RunsHandler) ListRuns(c *gin.Context) {
	var q listRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, apierr.BadRequest("invalid_query", err))
		return
	}
	runs, err := h.runs.ListRecent(dbctx.New(c.Request.Context()), EntityForRoute(q.Entity), q.Limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_runs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

// GET /api/etl/runs/:id
func (h *RunsHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
		return
	}
	run, err := h.runs.GetByID(dbctx.New(c.Request.Context()), id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_run_failed", err)
		return
	}
	if run == nil {
		response.RespondError(c, http.StatusNotFound, "run_not_found", errors.New("run not found"))
		return
	}
	response.RespondOK(c, gin.H{"run": run})
}
