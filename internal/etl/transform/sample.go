package transform

import (
	"strings"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

type DevelopmentSampleRecord struct {
	PgscID string
	Sample types.DevelopmentPopulationSample
}

// CohortText renders cohorts as "<name_full> (<name_short>)" joined by ", ".
func CohortText(cohorts []pgscatalog.Cohort) string {
	parts := make([]string, 0, len(cohorts))
	for _, c := range cohorts {
		parts = append(parts, c.NameFull+" ("+c.NameShort+")")
	}
	return strings.Join(parts, ", ")
}

func ageOf(s pgscatalog.Sample) (*float64, *string) {
	if s.SampleAge == nil {
		return nil, nil
	}
	return s.SampleAge.Estimate, optString(s.SampleAge.Unit)
}

// DevelopmentSamples flattens samples_variants (BASE) and samples_training
// (TUNING) into one row each, in that order.
func DevelopmentSamples(raw pgscatalog.Score) ([]DevelopmentSampleRecord, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("development_population_sample", raw.ID, raw); err != nil {
		return nil, err
	}
	out := make([]DevelopmentSampleRecord, 0, len(raw.SamplesVariants)+len(raw.SamplesTraining))
	extract := func(s pgscatalog.Sample, role string) DevelopmentSampleRecord {
		age, unit := ageOf(s)
		n := 0
		if s.SampleNumber != nil {
			n = *s.SampleNumber
		}
		return DevelopmentSampleRecord{
			PgscID: raw.ID,
			Sample: types.DevelopmentPopulationSample{
				NumberOfIndividuals: n,
				NumberOfCases:       s.SampleCases,
				NumberOfControls:    s.SampleControls,
				PercentMale:         s.SamplePercentMale,
				Age:                 age,
				AgeUnits:            unit,
				AncestryBroad:       strings.TrimSpace(s.AncestryBroad),
				AncestryDetails:     optString(s.AncestryFree),
				Cohort:              strPtr(CohortText(s.Cohorts)),
				GcID:                optString(s.SourceGWASCatalog),
				SourcePMID:          s.SourcePMID.Ptr(),
				SourceDOI:           optString(s.SourceDOI),
				Role:                role,
			},
		}
	}
	for _, s := range raw.SamplesVariants {
		out = append(out, extract(s, types.SampleRoleBase))
	}
	for _, s := range raw.SamplesTraining {
		out = append(out, extract(s, types.SampleRoleTuning))
	}
	return out, nil
}

func BroadAncestryCategory(symbol string, raw pgscatalog.AncestryCategory) (*types.BroadAncestryCategory, error) {
	symbol = strings.TrimSpace(symbol)
	label := strings.TrimSpace(raw.DisplayCategory)
	if symbol == "" {
		return nil, invalid("broad_ancestry_category", symbol, "symbol required")
	}
	if label == "" {
		return nil, invalid("broad_ancestry_category", symbol, "display_category required")
	}
	return &types.BroadAncestryCategory{Symbol: symbol, Label: label}, nil
}
