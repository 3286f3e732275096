package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type PRSModelRepo interface {
	Create(dbc dbctx.Context, model *types.PRSModel) (*types.PRSModel, error)
	GetByPgscID(dbc dbctx.Context, pgscID string) (*types.PRSModel, error)
	ListAll(dbc dbctx.Context) ([]*types.PRSModel, error)
}

type prsModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPRSModelRepo(db *gorm.DB, baseLog *logger.Logger) PRSModelRepo {
	return &prsModelRepo{db: db, log: baseLog.With("repo", "PRSModelRepo")}
}

func (r *prsModelRepo) Create(dbc dbctx.Context, model *types.PRSModel) (*types.PRSModel, error) {
	if model == nil {
		return nil, fmt.Errorf("prs model required")
	}
	if model.PublicationID == uuid.Nil {
		return nil, fmt.Errorf("prs model %s: publication id required", model.PgscID)
	}
	if err := dbc.DB(r.db).Omit("Publication").Create(model).Error; err != nil {
		return nil, classifyWriteErr("prs_model", err)
	}
	return model, nil
}

func (r *prsModelRepo) GetByPgscID(dbc dbctx.Context, pgscID string) (*types.PRSModel, error) {
	if pgscID == "" {
		return nil, nil
	}
	return first[types.PRSModel](dbc.DB(r.db).Where("pgsc_id = ?", pgscID))
}

func (r *prsModelRepo) ListAll(dbc dbctx.Context) ([]*types.PRSModel, error) {
	var out []*types.PRSModel
	if err := dbc.DB(r.db).Order("pgsc_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type PRSModelTraitRepo interface {
	Create(dbc dbctx.Context, link *types.PRSModelToTrait) (*types.PRSModelToTrait, error)
	ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.PRSModelToTrait, error)
}

type prsModelTraitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPRSModelTraitRepo(db *gorm.DB, baseLog *logger.Logger) PRSModelTraitRepo {
	return &prsModelTraitRepo{db: db, log: baseLog.With("repo", "PRSModelTraitRepo")}
}

func (r *prsModelTraitRepo) Create(dbc dbctx.Context, link *types.PRSModelToTrait) (*types.PRSModelToTrait, error) {
	if link == nil || link.PRSModelID == uuid.Nil || link.TraitID == uuid.Nil {
		return nil, fmt.Errorf("prs model and trait ids required")
	}
	if err := dbc.DB(r.db).Omit("PRSModel", "Trait").Create(link).Error; err != nil {
		return nil, classifyWriteErr("prs_model_to_trait", err)
	}
	return link, nil
}

func (r *prsModelTraitRepo) ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.PRSModelToTrait, error) {
	var out []*types.PRSModelToTrait
	if prsModelID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("prs_model_id = ?", prsModelID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
