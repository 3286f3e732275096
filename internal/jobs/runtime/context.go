package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
)

/*
Context is the execution handle for a single ETL run.
	- Ctx: the caller's context (HTTP runs arrive already detached from request cancellation)
	- Run: the in-memory etl_run row
	- Repo: where terminal state is written
	- params: the decoded invocation parameters
Handlers never touch etl_run directly; terminal state goes through Fail/Succeed.
*/
type Context struct {
	Ctx    context.Context
	Run    *types.EtlRun
	Repo   repos.EtlRunRepo
	params map[string]any
}

func NewContext(ctx context.Context, run *types.EtlRun, repo repos.EtlRunRepo, params map[string]any) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if params == nil {
		params = map[string]any{}
	}
	return &Context{Ctx: ctx, Run: run, Repo: repo, params: params}
}

// Params never returns nil.
func (c *Context) Params() map[string]any {
	if c.params == nil {
		c.params = map[string]any{}
	}
	return c.params
}

func (c *Context) ParamString(key string) string {
	v, ok := c.Params()[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParamStrings accepts a []string, a []any or a comma separated string.
func (c *Context) ParamStrings(key string) []string {
	var parts []string
	switch v := c.Params()[key].(type) {
	case nil:
		return nil
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	default:
		parts = strings.Split(fmt.Sprint(v), ",")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Context) Fail(summary *pipeline.Summary, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.finish(types.RunStatusFailed, summary, msg)
}

func (c *Context) Succeed(summary *pipeline.Summary) {
	c.finish(types.RunStatusSucceeded, summary, "")
}

// finish persists terminal state even when Ctx has been cancelled.
func (c *Context) finish(status string, summary *pipeline.Summary, errMsg string) {
	if c == nil || c.Run == nil {
		return
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      status,
		"error":       errMsg,
		"finished_at": now,
		"updated_at":  now,
	}
	if summary != nil {
		updates["processed"] = summary.Processed
		updates["inserted"] = summary.Inserted
		updates["skipped"] = summary.Skipped
		updates["failed"] = summary.Failed
		if raw, err := json.Marshal(summary); err == nil {
			updates["result"] = datatypes.JSON(raw)
			c.Run.Result = datatypes.JSON(raw)
		}
		c.Run.Processed = summary.Processed
		c.Run.Inserted = summary.Inserted
		c.Run.Skipped = summary.Skipped
		c.Run.Failed = summary.Failed
	}
	c.Run.Status = status
	c.Run.Error = errMsg
	c.Run.FinishedAt = &now
	c.Run.UpdatedAt = now

	if c.Repo != nil {
		_ = c.Repo.UpdateFields(dbctx.New(context.WithoutCancel(c.Ctx)), c.Run.ID, updates)
	}
}
