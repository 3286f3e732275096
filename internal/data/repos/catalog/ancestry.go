package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type BroadAncestryCategoryRepo interface {
	Create(dbc dbctx.Context, category *types.BroadAncestryCategory) (*types.BroadAncestryCategory, error)
	GetBySymbol(dbc dbctx.Context, symbol string) (*types.BroadAncestryCategory, error)
	ListAll(dbc dbctx.Context) ([]*types.BroadAncestryCategory, error)
}

type broadAncestryCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBroadAncestryCategoryRepo(db *gorm.DB, baseLog *logger.Logger) BroadAncestryCategoryRepo {
	return &broadAncestryCategoryRepo{db: db, log: baseLog.With("repo", "BroadAncestryCategoryRepo")}
}

func (r *broadAncestryCategoryRepo) Create(dbc dbctx.Context, category *types.BroadAncestryCategory) (*types.BroadAncestryCategory, error) {
	if category == nil {
		return nil, fmt.Errorf("broad ancestry category required")
	}
	if err := dbc.DB(r.db).Create(category).Error; err != nil {
		return nil, classifyWriteErr("broad_ancestry_category", err)
	}
	return category, nil
}

func (r *broadAncestryCategoryRepo) GetBySymbol(dbc dbctx.Context, symbol string) (*types.BroadAncestryCategory, error) {
	if symbol == "" {
		return nil, nil
	}
	return first[types.BroadAncestryCategory](dbc.DB(r.db).Where("symbol = ?", symbol))
}

func (r *broadAncestryCategoryRepo) ListAll(dbc dbctx.Context) ([]*types.BroadAncestryCategory, error) {
	var out []*types.BroadAncestryCategory
	if err := dbc.DB(r.db).Order("symbol ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type BroadAncestryInModelRepo interface {
	Create(dbc dbctx.Context, row *types.BroadAncestryInModel) (*types.BroadAncestryInModel, error)
	ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.BroadAncestryInModel, error)
}

type broadAncestryInModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBroadAncestryInModelRepo(db *gorm.DB, baseLog *logger.Logger) BroadAncestryInModelRepo {
	return &broadAncestryInModelRepo{db: db, log: baseLog.With("repo", "BroadAncestryInModelRepo")}
}

func (r *broadAncestryInModelRepo) Create(dbc dbctx.Context, row *types.BroadAncestryInModel) (*types.BroadAncestryInModel, error) {
	if row == nil || row.PRSModelID == uuid.Nil || row.BroadAncestryCategoryID == uuid.Nil {
		return nil, fmt.Errorf("prs model and ancestry category ids required")
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, classifyWriteErr("broad_ancestry_in_model", err)
	}
	return row, nil
}

func (r *broadAncestryInModelRepo) ListByModelID(dbc dbctx.Context, prsModelID uuid.UUID) ([]*types.BroadAncestryInModel, error) {
	var out []*types.BroadAncestryInModel
	if prsModelID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("prs_model_id = ?", prsModelID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
