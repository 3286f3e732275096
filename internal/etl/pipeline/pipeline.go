// Package pipeline composes fetch, transform, resolve and write for each
// catalog entity. Records are handled strictly one after another; a record
// failure is audited and counted and the run moves on. Only upstream fetch
// failures end a run early.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	"github.com/yungbote/pgscatalog-etl/internal/etl/audit"
	"github.com/yungbote/pgscatalog-etl/internal/etl/resolve"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
	"github.com/yungbote/pgscatalog-etl/internal/etl/writer"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

// Entity names double as audit file stems and metric labels.
const (
	EntityTraits                  = "traits"
	EntityTraitCategories         = "trait_categories"
	EntityPRSModels               = "prs_models"
	EntityPublications            = "publications"
	EntityPRSModelTraits          = "prs_model_traits"
	EntityDevelopmentSamples      = "development_samples"
	EntityBroadAncestryCategories = "broad_ancestry_categories"
	EntityModelEvaluations        = "model_evaluations"
	EntityBroadAncestryInModel    = "broad_ancestry_in_model"

	entityMetricEvaluations = "performance_metric_evaluations"
)

const (
	OutcomeInserted = "inserted"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

const DefaultAuditDir = "data"

type Summary struct {
	Entity    string `json:"entity"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// Metrics receives per-record outcomes and run durations.
type Metrics interface {
	RecordOutcome(entity, outcome string)
	ObserveRun(entity, status string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordOutcome(string, string)             {}
func (nopMetrics) ObserveRun(string, string, time.Duration) {}

type Config struct {
	AuditDir     string
	ScoreURLBase string
}

type Runner struct {
	log     *logger.Logger
	client  *pgscatalog.Client
	repos   *repos.Set
	cfg     Config
	metrics Metrics
	tracer  trace.Tracer
}

func NewRunner(log *logger.Logger, client *pgscatalog.Client, set *repos.Set, cfg Config, metrics Metrics) (*Runner, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if client == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if set == nil {
		return nil, fmt.Errorf("repos required")
	}
	if cfg.AuditDir == "" {
		cfg.AuditDir = DefaultAuditDir
	}
	if cfg.ScoreURLBase == "" {
		cfg.ScoreURLBase = transform.DefaultScoreURLBase
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Runner{
		log:     log.With("component", "Pipeline"),
		client:  client,
		repos:   set,
		cfg:     cfg,
		metrics: metrics,
		tracer:  otel.Tracer("github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"),
	}, nil
}

// run carries the per-invocation state of one entry point. The resolver's
// ancestry cache lives exactly as long as the run.
type run struct {
	entity  string
	log     *logger.Logger
	audit   *audit.Log
	metrics Metrics
	dbc     dbctx.Context
	writer  *writer.Writer
	res     *resolve.Resolver
	summary Summary
}

func (r *Runner) execute(ctx context.Context, entity string, body func(ctx context.Context, rn *run) error) (*Summary, error) {
	ctx, span := r.tracer.Start(ctx, "pipeline."+entity, trace.WithAttributes(attribute.String("pgs.entity", entity)))
	defer span.End()

	trail, err := audit.Open(r.cfg.AuditDir, entity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit")
		return nil, err
	}
	defer func() { _ = trail.Close() }()

	res := resolve.New(resolve.Deps{
		Publications:       r.repos.Publications,
		Traits:             r.repos.Traits,
		PRSModels:          r.repos.PRSModels,
		AncestryCategories: r.repos.AncestryCategories,
		EvaluationSamples:  r.repos.EvaluationSamples,
	})
	rn := &run{
		entity:  entity,
		log:     r.log.With("pipeline", entity),
		audit:   trail,
		metrics: r.metrics,
		dbc:     dbctx.New(ctx),
		writer:  writer.New(r.repos, res),
		res:     res,
		summary: Summary{Entity: entity},
	}

	start := time.Now()
	rn.log.Info("etl run started")
	err = body(ctx, rn)
	status := "succeeded"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rn.log.Error("etl run aborted", "error", err, "processed", rn.summary.Processed)
	} else {
		rn.log.Info("etl run finished",
			"processed", rn.summary.Processed,
			"inserted", rn.summary.Inserted,
			"skipped", rn.summary.Skipped,
			"failed", rn.summary.Failed,
		)
	}
	r.metrics.ObserveRun(entity, status, time.Since(start))
	span.SetAttributes(
		attribute.Int("pgs.processed", rn.summary.Processed),
		attribute.Int("pgs.inserted", rn.summary.Inserted),
		attribute.Int("pgs.failed", rn.summary.Failed),
	)
	out := rn.summary
	return &out, err
}

func (rn *run) inserted(msg string) {
	rn.summary.Processed++
	rn.summary.Inserted++
	rn.audit.Record(msg)
	rn.metrics.RecordOutcome(rn.entity, OutcomeInserted)
}

// skipped is a record deliberately not written: a duplicate natural key,
// unmapped ancestry, or missing sample set id.
func (rn *run) skipped(msg string) {
	rn.summary.Processed++
	rn.summary.Skipped++
	rn.audit.Record(msg)
	rn.log.Warn(msg)
	rn.metrics.RecordOutcome(rn.entity, OutcomeSkipped)
}

func (rn *run) failed(msg string, err error) {
	rn.summary.Processed++
	rn.summary.Failed++
	line := fmt.Sprintf("%s: %v", msg, err)
	rn.audit.Record(line)
	rn.log.Warn(msg, "error", err)
	rn.metrics.RecordOutcome(rn.entity, OutcomeFailed)
}

// settle classifies a write result: nil is inserted, a duplicate key is
// skipped, anything else failed.
func (rn *run) settle(err error, okMsg, failMsg string) {
	switch {
	case err == nil:
		rn.inserted(okMsg)
	case errors.Is(err, pkgerrors.ErrDuplicate):
		rn.skipped(failMsg + ": already exists")
	default:
		rn.failed(failMsg, err)
	}
}
