package catalog

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type PublicationRepo interface {
	Create(dbc dbctx.Context, pub *types.Publication) (*types.Publication, error)
	GetByPMID(dbc dbctx.Context, pmid string) (*types.Publication, error)
	GetByPgpID(dbc dbctx.Context, pgpID string) (*types.Publication, error)
}

type publicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPublicationRepo(db *gorm.DB, baseLog *logger.Logger) PublicationRepo {
	return &publicationRepo{db: db, log: baseLog.With("repo", "PublicationRepo")}
}

func (r *publicationRepo) Create(dbc dbctx.Context, pub *types.Publication) (*types.Publication, error) {
	if pub == nil {
		return nil, fmt.Errorf("publication required")
	}
	if err := dbc.DB(r.db).Create(pub).Error; err != nil {
		return nil, classifyWriteErr("publication", err)
	}
	return pub, nil
}

func (r *publicationRepo) GetByPMID(dbc dbctx.Context, pmid string) (*types.Publication, error) {
	if pmid == "" {
		return nil, nil
	}
	return first[types.Publication](dbc.DB(r.db).Where("pmid = ?", pmid))
}

func (r *publicationRepo) GetByPgpID(dbc dbctx.Context, pgpID string) (*types.Publication, error) {
	if pgpID == "" {
		return nil, nil
	}
	return first[types.Publication](dbc.DB(r.db).Where("pgp_id = ?", pgpID))
}
