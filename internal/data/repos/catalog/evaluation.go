package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type ModelEvaluationRepo interface {
	Create(dbc dbctx.Context, eval *types.ModelEvaluation) (*types.ModelEvaluation, error)
	GetByPpmID(dbc dbctx.Context, ppmID string) (*types.ModelEvaluation, error)
}

type modelEvaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModelEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) ModelEvaluationRepo {
	return &modelEvaluationRepo{db: db, log: baseLog.With("repo", "ModelEvaluationRepo")}
}

func (r *modelEvaluationRepo) Create(dbc dbctx.Context, eval *types.ModelEvaluation) (*types.ModelEvaluation, error) {
	if eval == nil {
		return nil, fmt.Errorf("model evaluation required")
	}
	if eval.PRSModelID == uuid.Nil || eval.PublicationID == uuid.Nil || eval.EvaluationPopulationSampleID == uuid.Nil {
		return nil, fmt.Errorf("model evaluation %s: prs model, publication and sample ids required", eval.PpmID)
	}
	if err := dbc.DB(r.db).
		Omit("PRSModel", "Publication", "EvaluationPopulationSample").
		Create(eval).Error; err != nil {
		return nil, classifyWriteErr("model_evaluation", err)
	}
	return eval, nil
}

func (r *modelEvaluationRepo) GetByPpmID(dbc dbctx.Context, ppmID string) (*types.ModelEvaluation, error) {
	if ppmID == "" {
		return nil, nil
	}
	return first[types.ModelEvaluation](dbc.DB(r.db).Where("ppm_id = ?", ppmID))
}

type PerformanceMetricRepo interface {
	GetByNameAndType(dbc dbctx.Context, nameShort, metricType string) (*types.PerformanceMetric, error)
	// FindOrCreate matches on the exact (NameShort, Type) pair.
	FindOrCreate(dbc dbctx.Context, metric *types.PerformanceMetric) (*types.PerformanceMetric, bool, error)
}

type performanceMetricRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPerformanceMetricRepo(db *gorm.DB, baseLog *logger.Logger) PerformanceMetricRepo {
	return &performanceMetricRepo{db: db, log: baseLog.With("repo", "PerformanceMetricRepo")}
}

func (r *performanceMetricRepo) GetByNameAndType(dbc dbctx.Context, nameShort, metricType string) (*types.PerformanceMetric, error) {
	if nameShort == "" || metricType == "" {
		return nil, nil
	}
	return first[types.PerformanceMetric](dbc.DB(r.db).Where("name_short = ? AND type = ?", nameShort, metricType))
}

func (r *performanceMetricRepo) FindOrCreate(dbc dbctx.Context, metric *types.PerformanceMetric) (*types.PerformanceMetric, bool, error) {
	if metric == nil || metric.NameShort == "" || metric.Type == "" {
		return nil, false, fmt.Errorf("performance metric: short name and type required")
	}
	var (
		out     *types.PerformanceMetric
		created bool
	)
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		existing, err := first[types.PerformanceMetric](tx.Where("name_short = ? AND type = ?", metric.NameShort, metric.Type))
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}
		if err := tx.Create(metric).Error; err != nil {
			return err
		}
		out, created = metric, true
		return nil
	})
	if err != nil && IsDuplicate(err) {
		existing, getErr := r.GetByNameAndType(dbc, metric.NameShort, metric.Type)
		if getErr == nil && existing != nil {
			return existing, false, nil
		}
	}
	if err != nil {
		return nil, false, classifyWriteErr("performance_metric", err)
	}
	return out, created, nil
}

type MetricEvaluationRepo interface {
	Create(dbc dbctx.Context, row *types.PerformanceMetricEvaluation) (*types.PerformanceMetricEvaluation, error)
	ListByEvaluationID(dbc dbctx.Context, modelEvaluationID uuid.UUID) ([]*types.PerformanceMetricEvaluation, error)
}

type metricEvaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetricEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) MetricEvaluationRepo {
	return &metricEvaluationRepo{db: db, log: baseLog.With("repo", "MetricEvaluationRepo")}
}

func (r *metricEvaluationRepo) Create(dbc dbctx.Context, row *types.PerformanceMetricEvaluation) (*types.PerformanceMetricEvaluation, error) {
	if row == nil || row.ModelEvaluationID == uuid.Nil || row.PerformanceMetricID == uuid.Nil {
		return nil, fmt.Errorf("model evaluation and performance metric ids required")
	}
	if err := dbc.DB(r.db).Omit("ModelEvaluation", "PerformanceMetric").Create(row).Error; err != nil {
		return nil, classifyWriteErr("performance_metric_evaluation", err)
	}
	return row, nil
}

func (r *metricEvaluationRepo) ListByEvaluationID(dbc dbctx.Context, modelEvaluationID uuid.UUID) ([]*types.PerformanceMetricEvaluation, error) {
	var out []*types.PerformanceMetricEvaluation
	if modelEvaluationID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("model_evaluation_id = ?", modelEvaluationID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
