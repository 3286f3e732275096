package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type DevelopmentSampleRepo interface {
	Create(dbc dbctx.Context, sample *types.DevelopmentPopulationSample) (*types.DevelopmentPopulationSample, error)
	ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.DevelopmentPopulationSample, error)
}

type developmentSampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDevelopmentSampleRepo(db *gorm.DB, baseLog *logger.Logger) DevelopmentSampleRepo {
	return &developmentSampleRepo{db: db, log: baseLog.With("repo", "DevelopmentSampleRepo")}
}

func (r *developmentSampleRepo) Create(dbc dbctx.Context, sample *types.DevelopmentPopulationSample) (*types.DevelopmentPopulationSample, error) {
	if sample == nil {
		return nil, fmt.Errorf("development sample required")
	}
	if sample.PRSModelID == uuid.Nil || sample.BroadAncestryCategoryID == uuid.Nil {
		return nil, fmt.Errorf("development sample: prs model and ancestry category ids required")
	}
	if err := dbc.DB(r.db).Omit("PRSModel", "BroadAncestryCategory").Create(sample).Error; err != nil {
		return nil, classifyWriteErr("development_population_sample", err)
	}
	return sample, nil
}

func (r *developmentSampleRepo) ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.DevelopmentPopulationSample, error) {
	var out []*types.DevelopmentPopulationSample
	if prsModelID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("prs_model_id = ?", prsModelID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type EvaluationSampleRepo interface {
	GetByPssID(dbc dbctx.Context, pssID string) (*types.EvaluationPopulationSample, error)
	// FindOrCreate returns the row already stored under sample.PssID, or
	// inserts sample. The bool reports whether a row was created.
	FindOrCreate(dbc dbctx.Context, sample *types.EvaluationPopulationSample) (*types.EvaluationPopulationSample, bool, error)
	Count(dbc dbctx.Context) (int64, error)
}

type evaluationSampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationSampleRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationSampleRepo {
	return &evaluationSampleRepo{db: db, log: baseLog.With("repo", "EvaluationSampleRepo")}
}

func (r *evaluationSampleRepo) GetByPssID(dbc dbctx.Context, pssID string) (*types.EvaluationPopulationSample, error) {
	if pssID == "" {
		return nil, nil
	}
	return first[types.EvaluationPopulationSample](dbc.DB(r.db).Where("pss_id = ?", pssID))
}

func (r *evaluationSampleRepo) FindOrCreate(dbc dbctx.Context, sample *types.EvaluationPopulationSample) (*types.EvaluationPopulationSample, bool, error) {
	if sample == nil || sample.PssID == "" {
		return nil, false, fmt.Errorf("evaluation sample: pss id required")
	}
	if sample.BroadAncestryCategoryID == uuid.Nil {
		return nil, false, fmt.Errorf("evaluation sample %s: ancestry category id required", sample.PssID)
	}
	var (
		out     *types.EvaluationPopulationSample
		created bool
	)
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		existing, err := first[types.EvaluationPopulationSample](tx.Where("pss_id = ?", sample.PssID))
		if err != nil {
			return err
		}
		if existing != nil {
			out = existing
			return nil
		}
		if err := tx.Omit("BroadAncestryCategory").Create(sample).Error; err != nil {
			return err
		}
		out, created = sample, true
		return nil
	})
	if err != nil && IsDuplicate(err) {
		// Lost a race with a concurrent writer; the row exists now.
		existing, getErr := r.GetByPssID(dbc, sample.PssID)
		if getErr == nil && existing != nil {
			return existing, false, nil
		}
	}
	if err != nil {
		return nil, false, classifyWriteErr("evaluation_population_sample", err)
	}
	return out, created, nil
}

func (r *evaluationSampleRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.EvaluationPopulationSample{}).Count(&n).Error
	return n, err
}
