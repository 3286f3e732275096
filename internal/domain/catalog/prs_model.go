package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PRSModel struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	PgscID        string       `gorm:"column:pgsc_id;not null;uniqueIndex" json:"pgsc_id"`
	Name          string       `gorm:"column:name" json:"name"`
	NumberOfSNP   int          `gorm:"column:number_of_snp;not null;default:0" json:"number_of_snp"`
	PgscURL       string       `gorm:"column:pgsc_url" json:"pgsc_url"`
	PublicationID uuid.UUID    `gorm:"type:uuid;column:publication_id;not null;index" json:"publication_id"`
	Publication   *Publication `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PublicationID;references:ID" json:"publication,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PRSModel) TableName() string { return "prs_model" }

func (m *PRSModel) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

type PRSModelToTrait struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PRSModelID uuid.UUID `gorm:"type:uuid;column:prs_model_id;not null;uniqueIndex:idx_prs_model_trait" json:"prs_model_id"`
	TraitID    uuid.UUID `gorm:"type:uuid;column:trait_id;not null;uniqueIndex:idx_prs_model_trait;index" json:"trait_id"`
	PRSModel   *PRSModel `gorm:"constraint:OnDelete:CASCADE;foreignKey:PRSModelID;references:ID" json:"-"`
	Trait      *Trait    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TraitID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PRSModelToTrait) TableName() string { return "prs_model_to_trait" }

func (j *PRSModelToTrait) BeforeCreate(*gorm.DB) error {
	j.ID = ensureID(j.ID)
	return nil
}
