package catalog

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

// OntologyField names one of the trait namespace columns.
type OntologyField string

const (
	FieldEFO   OntologyField = "efo_id"
	FieldMONDO OntologyField = "mondo_id"
	FieldHPO   OntologyField = "hpo_id"
	FieldOrpha OntologyField = "orpha_id"
	FieldOther OntologyField = "other_id"
)

var allOntologyFields = []OntologyField{FieldEFO, FieldMONDO, FieldHPO, FieldOrpha, FieldOther}

func (f OntologyField) valid() bool {
	for _, v := range allOntologyFields {
		if v == f {
			return true
		}
	}
	return false
}

type TraitRepo interface {
	Create(dbc dbctx.Context, trait *types.Trait) (*types.Trait, error)
	GetByOntologyID(dbc dbctx.Context, field OntologyField, id string) (*types.Trait, error)
	FindByAnyOntologyID(dbc dbctx.Context, ids []string) ([]*types.Trait, error)
	Count(dbc dbctx.Context) (int64, error)
}

type traitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTraitRepo(db *gorm.DB, baseLog *logger.Logger) TraitRepo {
	return &traitRepo{db: db, log: baseLog.With("repo", "TraitRepo")}
}

func (r *traitRepo) Create(dbc dbctx.Context, trait *types.Trait) (*types.Trait, error) {
	if trait == nil {
		return nil, fmt.Errorf("trait required")
	}
	if err := dbc.DB(r.db).Create(trait).Error; err != nil {
		return nil, classifyWriteErr("trait", err)
	}
	return trait, nil
}

func (r *traitRepo) GetByOntologyID(dbc dbctx.Context, field OntologyField, id string) (*types.Trait, error) {
	if !field.valid() {
		return nil, fmt.Errorf("unknown ontology field %q", field)
	}
	if id == "" {
		return nil, nil
	}
	return first[types.Trait](dbc.DB(r.db).Where(string(field)+" = ?", id))
}

func (r *traitRepo) FindByAnyOntologyID(dbc dbctx.Context, ids []string) ([]*types.Trait, error) {
	var out []*types.Trait
	if len(ids) == 0 {
		return out, nil
	}
	q := dbc.DB(r.db).Where(string(FieldEFO)+" IN ?", ids)
	for _, f := range allOntologyFields[1:] {
		q = q.Or(string(f)+" IN ?", ids)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *traitRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Trait{}).Count(&n).Error
	return n, err
}
