package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type Handler interface {
	Type() string
	Run(jc *Context) (*pipeline.Summary, error)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	repo     repos.EtlRunRepo
	log      *logger.Logger
}

func NewRegistry(repo repos.EtlRunRepo, baseLog *logger.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		repo:     repo,
		log:      baseLog.With("component", "EtlRegistry"),
	}
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}
	t := h.Type()
	if t == "" {
		return fmt.Errorf("handler Type() is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[t]; exists {
		return fmt.Errorf("handler already registered for entity=%s", t)
	}
	r.handlers[t] = h
	return nil
}

func (r *Registry) Get(entity string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[entity]
	return h, ok
}

// Types lists registered entities in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Execute records an etl_run row, invokes exactly one handler and stores
// its summary. The returned run reflects the final persisted state; err is
// the handler's error (or a dispatch/panic error).
func (r *Registry) Execute(ctx context.Context, entity string, params map[string]any) (*types.EtlRun, error) {
	h, ok := r.Get(entity)
	if !ok {
		return nil, &missingHandlerError{Entity: entity}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	run := &types.EtlRun{
		Entity:    entity,
		Status:    types.RunStatusRunning,
		Params:    datatypes.JSON(raw),
		StartedAt: time.Now().UTC(),
	}
	if _, err := r.repo.Create(dbctx.New(ctx), run); err != nil {
		return nil, fmt.Errorf("record etl run: %w", err)
	}

	jc := NewContext(ctx, run, r.repo, params)
	summary, runErr := r.invoke(h, jc)
	if runErr != nil {
		r.log.Error("etl run failed", "entity", entity, "run_id", run.ID, "error", runErr)
		jc.Fail(summary, runErr)
		return jc.Run, runErr
	}
	jc.Succeed(summary)
	return jc.Run, nil
}

// invoke turns a handler panic into a failed run.
func (r *Registry) invoke(h Handler, jc *Context) (summary *pipeline.Summary, err error) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error("etl handler panic", "entity", h.Type(), "run_id", jc.Run.ID, "panic", v)
			summary, err = nil, errFromRecover(v)
		}
	}()
	return h.Run(jc)
}

type missingHandlerError struct{ Entity string }

func (e *missingHandlerError) Error() string { return "no handler registered for entity=" + e.Entity }

// IsMissingHandler reports whether err came from dispatching an unknown
// entity.
func IsMissingHandler(err error) bool {
	_, ok := err.(*missingHandlerError)
	return ok
}

func errFromRecover(v any) error {
	return &panicError{Val: v}
}

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
