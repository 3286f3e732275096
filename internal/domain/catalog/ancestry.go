package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BroadAncestryCategory struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol string    `gorm:"column:symbol;not null;uniqueIndex" json:"symbol"`
	Label  string    `gorm:"column:label;not null" json:"label"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (BroadAncestryCategory) TableName() string { return "broad_ancestry_category" }

func (c *BroadAncestryCategory) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

// BroadAncestryInModel is the share of a model's development individuals
// falling into one broad ancestry category.
type BroadAncestryInModel struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PRSModelID              uuid.UUID `gorm:"type:uuid;column:prs_model_id;not null;uniqueIndex:idx_ancestry_in_model" json:"prs_model_id"`
	BroadAncestryCategoryID uuid.UUID `gorm:"type:uuid;column:broad_ancestry_category_id;not null;uniqueIndex:idx_ancestry_in_model" json:"broad_ancestry_category_id"`
	Percentage              float64   `gorm:"column:percentage;not null" json:"percentage"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (BroadAncestryInModel) TableName() string { return "broad_ancestry_in_model" }

func (b *BroadAncestryInModel) BeforeCreate(*gorm.DB) error {
	b.ID = ensureID(b.ID)
	return nil
}
