package catalog

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type TraitCategoryRepo interface {
	// CreateWithTraits inserts the category and its trait links in one transaction.
	CreateWithTraits(dbc dbctx.Context, category *types.TraitCategory, traits []*types.Trait) (*types.TraitCategory, error)
	GetByLabel(dbc dbctx.Context, label string) (*types.TraitCategory, error)
}

type traitCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTraitCategoryRepo(db *gorm.DB, baseLog *logger.Logger) TraitCategoryRepo {
	return &traitCategoryRepo{db: db, log: baseLog.With("repo", "TraitCategoryRepo")}
}

func (r *traitCategoryRepo) CreateWithTraits(dbc dbctx.Context, category *types.TraitCategory, traits []*types.Trait) (*types.TraitCategory, error) {
	if category == nil {
		return nil, fmt.Errorf("trait category required")
	}
	category.Traits = traits
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		// Link existing traits only; never upsert them through the association.
		return tx.Omit("Traits.*").Create(category).Error
	})
	if err != nil {
		return nil, classifyWriteErr("trait_category", err)
	}
	return category, nil
}

func (r *traitCategoryRepo) GetByLabel(dbc dbctx.Context, label string) (*types.TraitCategory, error) {
	if label == "" {
		return nil, nil
	}
	return first[types.TraitCategory](dbc.DB(r.db).Preload("Traits").Where("label = ?", label))
}
