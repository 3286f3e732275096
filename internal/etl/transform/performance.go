package transform

import (
	"strings"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

// EvaluationSample uses the first sample of the sample set. PssID is empty
// when the record carries no sample set id.
func EvaluationSample(raw pgscatalog.Performance) (*types.EvaluationPopulationSample, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("evaluation_population_sample", raw.ID, raw); err != nil {
		return nil, err
	}
	out := &types.EvaluationPopulationSample{}
	if raw.SampleSet == nil {
		return out, nil
	}
	out.PssID = strings.TrimSpace(raw.SampleSet.ID)
	if len(raw.SampleSet.Samples) == 0 {
		return out, nil
	}
	s := raw.SampleSet.Samples[0]
	age, unit := ageOf(s)
	out.NumberOfIndividuals = s.SampleNumber
	out.NumberOfCases = s.SampleCases
	out.NumberOfControls = s.SampleControls
	out.PercentMale = s.SamplePercentMale
	out.Age = age
	out.AgeUnits = unit
	out.AncestryBroad = strPtr(strings.TrimSpace(s.AncestryBroad))
	out.AncestryDetails = optString(s.AncestryFree)
	out.Cohort = CohortText(s.Cohorts)
	out.GcID = optString(s.SourceGWASCatalog)
	out.SourcePMID = s.SourcePMID.Ptr()
	out.SourceDOI = optString(s.SourceDOI)
	out.PhenotypeFree = optString(s.PhenotypingFree)
	return out, nil
}

type ModelEvaluationRecord struct {
	Evaluation types.ModelEvaluation
	PgscID     string
	PgpID      string
}

func ModelEvaluation(raw pgscatalog.Performance) (*ModelEvaluationRecord, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("model_evaluation", raw.ID, raw); err != nil {
		return nil, err
	}
	pgscID := strings.TrimSpace(raw.AssociatedPGSID)
	if pgscID == "" {
		return nil, invalid("model_evaluation", raw.ID, "associated_pgs_id required")
	}
	out := &ModelEvaluationRecord{
		Evaluation: types.ModelEvaluation{
			PpmID:         raw.ID,
			ReportedTrait: optString(raw.PhenotypingReported),
			Covariates:    optString(raw.Covariates),
		},
		PgscID: pgscID,
	}
	if raw.Publication != nil {
		out.PgpID = strings.TrimSpace(raw.Publication.ID)
	}
	return out, nil
}

// MetricRecord is one reported metric value. Estimate may be nil; the
// writer rejects such metrics individually.
type MetricRecord struct {
	Metric   types.PerformanceMetric
	Estimate *float64
	CILower  *float64
	CIUpper  *float64
}

func PerformanceMetrics(raw pgscatalog.Performance) []MetricRecord {
	groups := []struct {
		metrics []pgscatalog.Metric
		kind    string
	}{
		{raw.PerformanceMetrics.EffectSizes, types.MetricTypeRiskAssociation},
		{raw.PerformanceMetrics.ClassAcc, types.MetricTypeDiscriminatingPower},
		{raw.PerformanceMetrics.OtherMetrics, types.MetricTypeOther},
	}
	var out []MetricRecord
	for _, g := range groups {
		for _, m := range g.metrics {
			out = append(out, MetricRecord{
				Metric: types.PerformanceMetric{
					NameShort: strings.TrimSpace(m.NameShort),
					NameLong:  strings.TrimSpace(m.NameLong),
					Type:      g.kind,
				},
				Estimate: m.Estimate,
				CILower:  m.CILower,
				CIUpper:  m.CIUpper,
			})
		}
	}
	return out
}
