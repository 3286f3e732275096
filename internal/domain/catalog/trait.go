package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trait is keyed by exactly one ontology identifier; the other namespace
// columns stay NULL.
type Trait struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Label       string    `gorm:"column:label;not null" json:"label"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	URL         string    `gorm:"column:url;not null" json:"url"`
	EFOID       *string   `gorm:"column:efo_id;uniqueIndex" json:"efo_id,omitempty"`
	MONDOID     *string   `gorm:"column:mondo_id;uniqueIndex" json:"mondo_id,omitempty"`
	HPOID       *string   `gorm:"column:hpo_id;uniqueIndex" json:"hpo_id,omitempty"`
	OrphaID     *string   `gorm:"column:orpha_id;uniqueIndex" json:"orpha_id,omitempty"`
	OtherID     *string   `gorm:"column:other_id;uniqueIndex" json:"other_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Trait) TableName() string { return "trait" }

func (t *Trait) BeforeCreate(*gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

// OntologyID returns whichever namespace column is populated.
func (t *Trait) OntologyID() string {
	for _, v := range []*string{t.EFOID, t.MONDOID, t.HPOID, t.OrphaID, t.OtherID} {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

type TraitCategory struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Label  string    `gorm:"column:label;not null;uniqueIndex" json:"label"`
	Traits []*Trait  `gorm:"many2many:trait_category_trait;" json:"traits,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TraitCategory) TableName() string { return "trait_category" }

func (c *TraitCategory) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
