package domain

import (
	"github.com/yungbote/pgscatalog-etl/internal/domain/catalog"
	"github.com/yungbote/pgscatalog-etl/internal/domain/jobs"
)

const (
	SampleRoleBase   = catalog.SampleRoleBase
	SampleRoleTuning = catalog.SampleRoleTuning

	MetricTypeRiskAssociation     = catalog.MetricTypeRiskAssociation
	MetricTypeDiscriminatingPower = catalog.MetricTypeDiscriminatingPower
	MetricTypeOther               = catalog.MetricTypeOther

	DOIPending = catalog.DOIPending

	RunStatusRunning   = jobs.RunStatusRunning
	RunStatusSucceeded = jobs.RunStatusSucceeded
	RunStatusFailed    = jobs.RunStatusFailed
)

// =========================
// Catalog
// =========================
type Trait = catalog.Trait
type TraitCategory = catalog.TraitCategory
type Publication = catalog.Publication
type PRSModel = catalog.PRSModel
type PRSModelToTrait = catalog.PRSModelToTrait
type BroadAncestryCategory = catalog.BroadAncestryCategory
type BroadAncestryInModel = catalog.BroadAncestryInModel
type DevelopmentPopulationSample = catalog.DevelopmentPopulationSample
type EvaluationPopulationSample = catalog.EvaluationPopulationSample
type ModelEvaluation = catalog.ModelEvaluation
type PerformanceMetric = catalog.PerformanceMetric
type PerformanceMetricEvaluation = catalog.PerformanceMetricEvaluation

// =========================
// Jobs
// =========================
type EtlRun = jobs.EtlRun
