package transform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestTraitClassifiesByPrefix(t *testing.T) {
	cases := []struct {
		id   string
		want func(*types.Trait) *string
	}{
		{"EFO_0000305", func(t *types.Trait) *string { return t.EFOID }},
		{"MONDO_0004979", func(t *types.Trait) *string { return t.MONDOID }},
		{"HP_0000822", func(t *types.Trait) *string { return t.HPOID }},
		{"OBA_2045228", func(t *types.Trait) *string { return t.OrphaID }},
		{"Orphanet_1234", func(t *types.Trait) *string { return t.OtherID }},
		{"GO_0008150", func(t *types.Trait) *string { return t.OtherID }},
	}
	for _, tc := range cases {
		tr, err := Trait(pgscatalog.Trait{ID: tc.id, Label: "x", URL: "http://x"})
		require.NoError(t, err, tc.id)

		populated := 0
		for _, f := range []*string{tr.EFOID, tr.MONDOID, tr.HPOID, tr.OrphaID, tr.OtherID} {
			if f != nil {
				populated++
			}
		}
		assert.Equal(t, 1, populated, "exactly one namespace for %s", tc.id)
		got := tc.want(tr)
		require.NotNil(t, got, tc.id)
		assert.Equal(t, tc.id, *got)
		assert.Equal(t, tc.id, tr.OntologyID())
	}
}

func TestTraitMissingRequiredField(t *testing.T) {
	for name, raw := range map[string]pgscatalog.Trait{
		"label": {ID: "EFO_1", URL: "http://x"},
		"id":    {Label: "x", URL: "http://x"},
		"url":   {ID: "EFO_1", Label: "x"},
	} {
		tr, err := Trait(raw)
		assert.Nil(t, tr, name)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument, name)
	}
}

func TestTraitKeepsDescription(t *testing.T) {
	tr, err := Trait(pgscatalog.Trait{ID: "EFO_1", Label: "x", URL: "u", Description: ptr("  a disease ")})
	require.NoError(t, err)
	require.NotNil(t, tr.Description)
	assert.Equal(t, "a disease", *tr.Description)
}

func TestPublication(t *testing.T) {
	t.Run("preprint nulls pmid", func(t *testing.T) {
		for _, journal := range []string{"medRxiv", "MEDRXIV", "bioRxiv : the preprint server for biology"} {
			p, err := Publication(pgscatalog.Publication{ID: "PGP1", Journal: journal, PMID: "12345"})
			require.NoError(t, err)
			assert.Nil(t, p.PMID, journal)
		}
	})
	t.Run("journal keeps pmid", func(t *testing.T) {
		var raw pgscatalog.Publication
		require.NoError(t, json.Unmarshal([]byte(`{"id":"PGP1","journal":"Nature","PMID":12345,"date_publication":"2019-03-04","doi":" 10.1/x "}`), &raw))
		p, err := Publication(raw)
		require.NoError(t, err)
		require.NotNil(t, p.PMID)
		assert.Equal(t, "12345", *p.PMID)
		assert.Equal(t, 2019, p.Year)
		require.NotNil(t, p.Date)
		assert.Equal(t, "10.1/x", p.DOI)
	})
	t.Run("defaults", func(t *testing.T) {
		p, err := Publication(pgscatalog.Publication{ID: "PGP1", Journal: "Nature", DOI: ptr("   ")})
		require.NoError(t, err)
		assert.Equal(t, types.DOIPending, p.DOI)
		assert.Equal(t, 0, p.Year)
		assert.Nil(t, p.Date)
		assert.Nil(t, p.PMID)
	})
	t.Run("bad date", func(t *testing.T) {
		_, err := Publication(pgscatalog.Publication{ID: "PGP1", DatePublication: ptr("yesterday")})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
	})
}

func TestPRSModel(t *testing.T) {
	var raw pgscatalog.Score
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"PGS000001","name":"PRS77_BC","variants_number":77,
		"publication":{"id":"PGP000001","PMID":25855707},
		"trait_efo":[{"id":"EFO_0000305"},{"id":"MONDO_0007254"}]
	}`), &raw))

	rec, err := PRSModel(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.pgscatalog.org/score/PGS000001/", rec.Model.PgscURL)
	assert.Equal(t, 77, rec.Model.NumberOfSNP)
	require.NotNil(t, rec.PublicationPMID)
	assert.Equal(t, "25855707", *rec.PublicationPMID)
	assert.Equal(t, "PGP000001", rec.PublicationPgpID)

	rec, err = PRSModel(raw, "http://mirror/score/")
	require.NoError(t, err)
	assert.Equal(t, "http://mirror/score/PGS000001/", rec.Model.PgscURL)

	links, err := ModelTraits(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"EFO_0000305", "MONDO_0007254"}, links.TraitIDs)

	_, err = PRSModel(pgscatalog.Score{}, "")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestDevelopmentSamplesFlattensRoles(t *testing.T) {
	raw := pgscatalog.Score{
		ID: "PGS000001",
		SamplesVariants: []pgscatalog.Sample{
			{SampleNumber: ptr(1000), AncestryBroad: "European", Cohorts: []pgscatalog.Cohort{{NameFull: "UK Biobank", NameShort: "UKB"}, {NameFull: "FinnGen", NameShort: "FG"}}},
			{SampleNumber: ptr(200), AncestryBroad: "East Asian", SourcePMID: "2911"},
		},
		SamplesTraining: []pgscatalog.Sample{
			{SampleNumber: ptr(50), AncestryBroad: "African unspecified", SampleAge: &pgscatalog.SampleAge{Estimate: ptr(54.2), Unit: ptr("years")}},
		},
	}
	out, err := DevelopmentSamples(raw)
	require.NoError(t, err)
	require.Len(t, out, 3)

	roles := map[string]int{}
	for _, r := range out {
		roles[r.Sample.Role]++
		assert.Equal(t, "PGS000001", r.PgscID)
	}
	assert.Equal(t, 2, roles[types.SampleRoleBase])
	assert.Equal(t, 1, roles[types.SampleRoleTuning])

	require.NotNil(t, out[0].Sample.Cohort)
	assert.Equal(t, "UK Biobank (UKB), FinnGen (FG)", *out[0].Sample.Cohort)
	assert.Nil(t, out[1].Sample.Cohort)
	require.NotNil(t, out[1].Sample.SourcePMID)
	assert.Equal(t, "2911", *out[1].Sample.SourcePMID)
	require.NotNil(t, out[2].Sample.Age)
	assert.Equal(t, 54.2, *out[2].Sample.Age)
	assert.Equal(t, "years", *out[2].Sample.AgeUnits)
}

func TestEvaluationSampleAndModelEvaluation(t *testing.T) {
	var raw pgscatalog.Performance
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"PPM000001","associated_pgs_id":"PGS000001","phenotyping_reported":"Breast cancer",
		"covariates":"age","publication":{"id":"PGP000002"},
		"sampleset":{"id":"PSS000001","samples":[
			{"sample_number":500,"sample_cases":100,"ancestry_broad":"European","phenotyping_free":"ICD10 C50",
			 "cohorts":[{"name_full":"UK Biobank","name_short":"UKB"}]},
			{"sample_number":1}
		]},
		"performance_metrics":{
			"effect_sizes":[{"name_short":"HR","name_long":"Hazard Ratio","estimate":1.6,"ci_lower":1.5,"ci_upper":1.7}],
			"class_acc":[{"name_short":"AUROC","name_long":"Area Under the ROC","estimate":0.63}],
			"othermetrics":[{"name_short":"R2","name_long":"Nagelkerke R2"}]
		}
	}`), &raw))

	s, err := EvaluationSample(raw)
	require.NoError(t, err)
	assert.Equal(t, "PSS000001", s.PssID)
	require.NotNil(t, s.NumberOfIndividuals)
	assert.Equal(t, 500, *s.NumberOfIndividuals)
	assert.Equal(t, "UK Biobank (UKB)", s.Cohort)
	require.NotNil(t, s.PhenotypeFree)
	assert.Equal(t, "ICD10 C50", *s.PhenotypeFree)

	ev, err := ModelEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, "PPM000001", ev.Evaluation.PpmID)
	assert.Equal(t, "PGS000001", ev.PgscID)
	assert.Equal(t, "PGP000002", ev.PgpID)
	assert.Equal(t, "age", *ev.Evaluation.Covariates)

	metrics := PerformanceMetrics(raw)
	require.Len(t, metrics, 3)
	assert.Equal(t, types.MetricTypeRiskAssociation, metrics[0].Metric.Type)
	assert.Equal(t, types.MetricTypeDiscriminatingPower, metrics[1].Metric.Type)
	assert.Equal(t, types.MetricTypeOther, metrics[2].Metric.Type)
	assert.Nil(t, metrics[2].Estimate)
	assert.Equal(t, 1.5, *metrics[0].CILower)

	noSet, err := EvaluationSample(pgscatalog.Performance{ID: "PPM2"})
	require.NoError(t, err)
	assert.Empty(t, noSet.PssID)

	_, err = ModelEvaluation(pgscatalog.Performance{ID: "PPM3"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}

func TestBroadAncestryCategory(t *testing.T) {
	c, err := BroadAncestryCategory("EUR", pgscatalog.AncestryCategory{DisplayCategory: "European"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Symbol)
	assert.Equal(t, "European", c.Label)

	_, err = BroadAncestryCategory("XX", pgscatalog.AncestryCategory{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidArgument)
}
