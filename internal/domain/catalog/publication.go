package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DOIPending is stored when the catalog has no DOI for a publication yet.
const DOIPending = "PENDIENTE"

type Publication struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PgpID   string     `gorm:"column:pgp_id;not null;uniqueIndex" json:"pgp_id"`
	Title   string     `gorm:"column:title" json:"title"`
	Journal string     `gorm:"column:journal" json:"journal"`
	Author  string     `gorm:"column:author" json:"author"`
	Date    *time.Time `gorm:"column:date" json:"date,omitempty"`
	Year    int        `gorm:"column:year;not null;default:0" json:"year"`
	PMID    *string    `gorm:"column:pmid;uniqueIndex" json:"pmid,omitempty"`
	DOI     string     `gorm:"column:doi;not null" json:"doi"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Publication) TableName() string { return "publication" }

func (p *Publication) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}
