package jobs

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

const defaultListLimit = 50

type EtlRunRepo interface {
	Create(dbc dbctx.Context, run *types.EtlRun) (*types.EtlRun, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EtlRun, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// ListRecent returns the newest runs first, optionally filtered by entity.
	ListRecent(dbc dbctx.Context, entity string, limit int) ([]*types.EtlRun, error)
}

type etlRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEtlRunRepo(db *gorm.DB, baseLog *logger.Logger) EtlRunRepo {
	return &etlRunRepo{
		db:  db,
		log: baseLog.With("repo", "EtlRunRepo"),
	}
}

func (r *etlRunRepo) Create(dbc dbctx.Context, run *types.EtlRun) (*types.EtlRun, error) {
	if run == nil || strings.TrimSpace(run.Entity) == "" {
		return nil, fmt.Errorf("etl run entity required")
	}
	if err := dbc.DB(r.db).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *etlRunRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EtlRun, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.EtlRun
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *etlRunRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.EtlRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *etlRunRepo) ListRecent(dbc dbctx.Context, entity string, limit int) ([]*types.EtlRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := dbc.DB(r.db).Model(&types.EtlRun{})
	if entity = strings.TrimSpace(entity); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	var out []*types.EtlRun
	if err := q.Order("started_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
