package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos/catalog"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos/jobs"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type TraitRepo = catalog.TraitRepo
type TraitCategoryRepo = catalog.TraitCategoryRepo
type PublicationRepo = catalog.PublicationRepo
type PRSModelRepo = catalog.PRSModelRepo
type PRSModelTraitRepo = catalog.PRSModelTraitRepo
type BroadAncestryCategoryRepo = catalog.BroadAncestryCategoryRepo
type BroadAncestryInModelRepo = catalog.BroadAncestryInModelRepo
type DevelopmentSampleRepo = catalog.DevelopmentSampleRepo
type EvaluationSampleRepo = catalog.EvaluationSampleRepo
type ModelEvaluationRepo = catalog.ModelEvaluationRepo
type PerformanceMetricRepo = catalog.PerformanceMetricRepo
type MetricEvaluationRepo = catalog.MetricEvaluationRepo

type EtlRunRepo = jobs.EtlRunRepo

func NewTraitRepo(db *gorm.DB, baseLog *logger.Logger) TraitRepo {
	return catalog.NewTraitRepo(db, baseLog)
}
func NewTraitCategoryRepo(db *gorm.DB, baseLog *logger.Logger) TraitCategoryRepo {
	return catalog.NewTraitCategoryRepo(db, baseLog)
}
func NewPublicationRepo(db *gorm.DB, baseLog *logger.Logger) PublicationRepo {
	return catalog.NewPublicationRepo(db, baseLog)
}
func NewPRSModelRepo(db *gorm.DB, baseLog *logger.Logger) PRSModelRepo {
	return catalog.NewPRSModelRepo(db, baseLog)
}
func NewPRSModelTraitRepo(db *gorm.DB, baseLog *logger.Logger) PRSModelTraitRepo {
	return catalog.NewPRSModelTraitRepo(db, baseLog)
}
func NewBroadAncestryCategoryRepo(db *gorm.DB, baseLog *logger.Logger) BroadAncestryCategoryRepo {
	return catalog.NewBroadAncestryCategoryRepo(db, baseLog)
}
func NewBroadAncestryInModelRepo(db *gorm.DB, baseLog *logger.Logger) BroadAncestryInModelRepo {
	return catalog.NewBroadAncestryInModelRepo(db, baseLog)
}
func NewDevelopmentSampleRepo(db *gorm.DB, baseLog *logger.Logger) DevelopmentSampleRepo {
	return catalog.NewDevelopmentSampleRepo(db, baseLog)
}
func NewEvaluationSampleRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationSampleRepo {
	return catalog.NewEvaluationSampleRepo(db, baseLog)
}
func NewModelEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) ModelEvaluationRepo {
	return catalog.NewModelEvaluationRepo(db, baseLog)
}
func NewPerformanceMetricRepo(db *gorm.DB, baseLog *logger.Logger) PerformanceMetricRepo {
	return catalog.NewPerformanceMetricRepo(db, baseLog)
}
func NewMetricEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) MetricEvaluationRepo {
	return catalog.NewMetricEvaluationRepo(db, baseLog)
}

func NewEtlRunRepo(db *gorm.DB, baseLog *logger.Logger) EtlRunRepo {
	return jobs.NewEtlRunRepo(db, baseLog)
}

// Set bundles every repository the pipeline writes through.
type Set struct {
	Traits             TraitRepo
	TraitCategories    TraitCategoryRepo
	Publications       PublicationRepo
	PRSModels          PRSModelRepo
	PRSModelTraits     PRSModelTraitRepo
	AncestryCategories BroadAncestryCategoryRepo
	AncestryInModel    BroadAncestryInModelRepo
	DevelopmentSamples DevelopmentSampleRepo
	EvaluationSamples  EvaluationSampleRepo
	ModelEvaluations   ModelEvaluationRepo
	PerformanceMetrics PerformanceMetricRepo
	MetricEvaluations  MetricEvaluationRepo
	EtlRuns            EtlRunRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) *Set {
	return &Set{
		Traits:             NewTraitRepo(db, baseLog),
		TraitCategories:    NewTraitCategoryRepo(db, baseLog),
		Publications:       NewPublicationRepo(db, baseLog),
		PRSModels:          NewPRSModelRepo(db, baseLog),
		PRSModelTraits:     NewPRSModelTraitRepo(db, baseLog),
		AncestryCategories: NewBroadAncestryCategoryRepo(db, baseLog),
		AncestryInModel:    NewBroadAncestryInModelRepo(db, baseLog),
		DevelopmentSamples: NewDevelopmentSampleRepo(db, baseLog),
		EvaluationSamples:  NewEvaluationSampleRepo(db, baseLog),
		ModelEvaluations:   NewModelEvaluationRepo(db, baseLog),
		PerformanceMetrics: NewPerformanceMetricRepo(db, baseLog),
		MetricEvaluations:  NewMetricEvaluationRepo(db, baseLog),
		EtlRuns:            NewEtlRunRepo(db, baseLog),
	}
}
