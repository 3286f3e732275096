package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MetricTypeRiskAssociation     = "RISK_ASSOCIATION"
	MetricTypeDiscriminatingPower = "DISCRIMINATING_POWER"
	MetricTypeOther               = "OTHER"
)

type ModelEvaluation struct {
	ID                           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PpmID                        string    `gorm:"column:ppm_id;not null;uniqueIndex" json:"ppm_id"`
	ReportedTrait                *string   `gorm:"column:reported_trait" json:"reported_trait,omitempty"`
	Covariates                   *string   `gorm:"column:covariates" json:"covariates,omitempty"`
	PRSModelID                   uuid.UUID `gorm:"type:uuid;column:prs_model_id;not null;index" json:"prs_model_id"`
	PublicationID                uuid.UUID `gorm:"type:uuid;column:publication_id;not null;index" json:"publication_id"`
	EvaluationPopulationSampleID uuid.UUID `gorm:"type:uuid;column:evaluation_population_sample_id;not null;index" json:"evaluation_population_sample_id"`

	PRSModel                   *PRSModel                   `gorm:"constraint:OnDelete:CASCADE;foreignKey:PRSModelID;references:ID" json:"-"`
	Publication                *Publication                `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PublicationID;references:ID" json:"-"`
	EvaluationPopulationSample *EvaluationPopulationSample `gorm:"constraint:OnDelete:RESTRICT;foreignKey:EvaluationPopulationSampleID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ModelEvaluation) TableName() string { return "model_evaluation" }

func (e *ModelEvaluation) BeforeCreate(*gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}

// PerformanceMetric is deduplicated by (NameShort, Type).
type PerformanceMetric struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NameShort string    `gorm:"column:name_short;not null;uniqueIndex:idx_performance_metric_name_type" json:"name_short"`
	NameLong  string    `gorm:"column:name_long" json:"name_long"`
	Type      string    `gorm:"column:type;not null;uniqueIndex:idx_performance_metric_name_type" json:"type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PerformanceMetric) TableName() string { return "performance_metric" }

func (m *PerformanceMetric) BeforeCreate(*gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

type PerformanceMetricEvaluation struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModelEvaluationID   uuid.UUID `gorm:"type:uuid;column:model_evaluation_id;not null;uniqueIndex:idx_metric_evaluation" json:"model_evaluation_id"`
	PerformanceMetricID uuid.UUID `gorm:"type:uuid;column:performance_metric_id;not null;uniqueIndex:idx_metric_evaluation" json:"performance_metric_id"`
	Estimate            float64   `gorm:"column:estimate;not null" json:"estimate"`
	CILower             *float64  `gorm:"column:ci_lower" json:"ci_lower,omitempty"`
	CIUpper             *float64  `gorm:"column:ci_upper" json:"ci_upper,omitempty"`

	ModelEvaluation   *ModelEvaluation   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModelEvaluationID;references:ID" json:"-"`
	PerformanceMetric *PerformanceMetric `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PerformanceMetricID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PerformanceMetricEvaluation) TableName() string { return "performance_metric_evaluation" }

func (p *PerformanceMetricEvaluation) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}
