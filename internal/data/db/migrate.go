package db

import (
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		// =========================
		// Reference data
		// =========================
		&types.Trait{},
		&types.TraitCategory{},
		&types.Publication{},
		&types.BroadAncestryCategory{},

		// =========================
		// Score models
		// =========================
		&types.PRSModel{},
		&types.PRSModelToTrait{},
		&types.DevelopmentPopulationSample{},
		&types.BroadAncestryInModel{},

		// =========================
		// Evaluations
		// =========================
		&types.EvaluationPopulationSample{},
		&types.ModelEvaluation{},
		&types.PerformanceMetric{},
		&types.PerformanceMetricEvaluation{},

		// =========================
		// Jobs
		// =========================
		&types.EtlRun{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
