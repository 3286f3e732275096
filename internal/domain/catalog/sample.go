package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SampleRoleBase   = "BASE"
	SampleRoleTuning = "TUNING"
)

type DevelopmentPopulationSample struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NumberOfIndividuals     int       `gorm:"column:number_of_individuals;not null;default:0" json:"number_of_individuals"`
	NumberOfCases           *int      `gorm:"column:number_of_cases" json:"number_of_cases,omitempty"`
	NumberOfControls        *int      `gorm:"column:number_of_controls" json:"number_of_controls,omitempty"`
	PercentMale             *float64  `gorm:"column:percent_male" json:"percent_male,omitempty"`
	Age                     *float64  `gorm:"column:age" json:"age,omitempty"`
	AgeUnits                *string   `gorm:"column:age_units" json:"age_units,omitempty"`
	AncestryBroad           string    `gorm:"column:ancestry_broad" json:"ancestry_broad"`
	AncestryDetails         *string   `gorm:"column:ancestry_details" json:"ancestry_details,omitempty"`
	Cohort                  *string   `gorm:"column:cohort" json:"cohort,omitempty"`
	GcID                    *string   `gorm:"column:gc_id" json:"gc_id,omitempty"`
	SourcePMID              *string   `gorm:"column:source_pmid" json:"source_pmid,omitempty"`
	SourceDOI               *string   `gorm:"column:source_doi" json:"source_doi,omitempty"`
	Role                    string    `gorm:"column:role;not null;index" json:"role"`
	PRSModelID              uuid.UUID `gorm:"type:uuid;column:prs_model_id;not null;index" json:"prs_model_id"`
	BroadAncestryCategoryID uuid.UUID `gorm:"type:uuid;column:broad_ancestry_category_id;not null;index" json:"broad_ancestry_category_id"`

	PRSModel              *PRSModel              `gorm:"constraint:OnDelete:CASCADE;foreignKey:PRSModelID;references:ID" json:"-"`
	BroadAncestryCategory *BroadAncestryCategory `gorm:"constraint:OnDelete:RESTRICT;foreignKey:BroadAncestryCategoryID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DevelopmentPopulationSample) TableName() string { return "development_population_sample" }

func (s *DevelopmentPopulationSample) BeforeCreate(*gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

type EvaluationPopulationSample struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PssID                   string    `gorm:"column:pss_id;not null;uniqueIndex" json:"pss_id"`
	NumberOfIndividuals     *int      `gorm:"column:number_of_individuals" json:"number_of_individuals,omitempty"`
	NumberOfCases           *int      `gorm:"column:number_of_cases" json:"number_of_cases,omitempty"`
	NumberOfControls        *int      `gorm:"column:number_of_controls" json:"number_of_controls,omitempty"`
	PercentMale             *float64  `gorm:"column:percent_male" json:"percent_male,omitempty"`
	Age                     *float64  `gorm:"column:age" json:"age,omitempty"`
	AgeUnits                *string   `gorm:"column:age_units" json:"age_units,omitempty"`
	AncestryBroad           *string   `gorm:"column:ancestry_broad" json:"ancestry_broad,omitempty"`
	AncestryDetails         *string   `gorm:"column:ancestry_details" json:"ancestry_details,omitempty"`
	Cohort                  string    `gorm:"column:cohort" json:"cohort"`
	GcID                    *string   `gorm:"column:gc_id" json:"gc_id,omitempty"`
	SourcePMID              *string   `gorm:"column:source_pmid" json:"source_pmid,omitempty"`
	SourceDOI               *string   `gorm:"column:source_doi" json:"source_doi,omitempty"`
	PhenotypeFree           *string   `gorm:"column:phenotype_free" json:"phenotype_free,omitempty"`
	BroadAncestryCategoryID uuid.UUID `gorm:"type:uuid;column:broad_ancestry_category_id;not null;index" json:"broad_ancestry_category_id"`

	BroadAncestryCategory *BroadAncestryCategory `gorm:"constraint:OnDelete:RESTRICT;foreignKey:BroadAncestryCategoryID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (EvaluationPopulationSample) TableName() string { return "evaluation_population_sample" }

func (s *EvaluationPopulationSample) BeforeCreate(*gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}
