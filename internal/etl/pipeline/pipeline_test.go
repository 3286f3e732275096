package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	"github.com/yungbote/pgscatalog-etl/internal/data/repos/testutil"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl/audit"
	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

type env struct {
	runner *Runner
	db     *gorm.DB
	dir    string
	logs   *observer.ObservedLogs
}

// newEnv serves routes keyed by request URI; "{{base}}" in a body expands
// to the server's own address so next cursors stay absolute. A body of the
// form "status:503" answers with that status instead.
func newEnv(t *testing.T, routes map[string]string) *env {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if code, found := strings.CutPrefix(body, "status:"); found {
			status, err := strconv.Atoi(code)
			if err != nil {
				status = http.StatusInternalServerError
			}
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.ReplaceAll(body, "{{base}}", "http://"+r.Host))
	}))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.WarnLevel)
	log := logger.NewFromZap(zap.New(core))
	client, err := pgscatalog.New(log, pgscatalog.Config{
		BaseURL: srv.URL,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	})
	require.NoError(t, err)

	db := testutil.IsolatedDB(t)
	dir := t.TempDir()
	runner, err := NewRunner(log, client, repos.NewSet(db, log), Config{AuditDir: dir}, nil)
	require.NoError(t, err)
	return &env{runner: runner, db: db, dir: dir, logs: logs}
}

func (e *env) auditLines(t *testing.T, entity string) []string {
	t.Helper()
	raw, err := os.ReadFile(audit.Path(e.dir, entity))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *env) seedSample(t *testing.T, model *types.PRSModel, cat *types.BroadAncestryCategory, n int) {
	t.Helper()
	s := &types.DevelopmentPopulationSample{
		NumberOfIndividuals:     n,
		AncestryBroad:           cat.Label,
		Role:                    types.SampleRoleBase,
		PRSModelID:              model.ID,
		BroadAncestryCategoryID: cat.ID,
	}
	require.NoError(t, e.db.Omit(clause.Associations).Create(s).Error)
}

const traitPages = `{"count":3,"next":"{{base}}/trait/all?page=2","results":[
	{"id":"EFO_0000305","label":"breast carcinoma","url":"http://www.ebi.ac.uk/efo/EFO_0000305"},
	{"id":"MONDO_0004975","label":"Alzheimer disease","url":"http://purl.obolibrary.org/obo/MONDO_0004975"}]}`

func TestRunTraits(t *testing.T) {
	e := newEnv(t, map[string]string{
		"/trait/all":        traitPages,
		"/trait/all?page=2": `{"count":3,"next":null,"results":[{"id":"HP_0000822","url":"http://purl.obolibrary.org/obo/HP_0000822"}]}`,
	})
	ctx := context.Background()

	sum, err := e.runner.RunTraits(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityTraits, Processed: 3, Inserted: 2, Failed: 1}, *sum)
	assert.EqualValues(t, 2, e.count(t, &types.Trait{}))

	lines := e.auditLines(t, EntityTraits)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Trait inserted: breast carcinoma")
	assert.Contains(t, lines[2], "HP_0000822 rejected")
	for _, l := range lines {
		assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z\] `, l)
	}

	// A re-run appends and counts collisions as skipped.
	sum, err = e.runner.RunTraits(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityTraits, Processed: 3, Skipped: 2, Failed: 1}, *sum)
	assert.Len(t, e.auditLines(t, EntityTraits), 6)
	assert.EqualValues(t, 2, e.count(t, &types.Trait{}))
}

func TestRunTraitCategoriesLinksStoredTraits(t *testing.T) {
	e := newEnv(t, map[string]string{
		"/trait_category/all": `{"count":3,"next":null,"results":[
			{"label":"Cancer","efotraits":[{"id":"EFO_0000305"},{"id":"EFO_404"}]},
			{"label":"Other trait","efotraits":[{"id":"EFO_405"}]},
			{"label":"Empty","efotraits":[]}]}`,
	})
	testutil.SeedTrait(t, context.Background(), e.db, "EFO_0000305", "breast carcinoma")

	sum, err := e.runner.RunTraitCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Inserted)

	var cat types.TraitCategory
	require.NoError(t, e.db.Preload("Traits").Where("label = ?", "Cancer").First(&cat).Error)
	assert.Len(t, cat.Traits, 1)

	warned := e.logs.FilterMessageSnippet("linked no stored traits").All()
	require.Len(t, warned, 2)
	assert.Equal(t, "Other trait", warned[0].ContextMap()["label"])
	assert.Equal(t, "Empty", warned[1].ContextMap()["label"])
}

func TestRunPRSModelsAndTraitLinks(t *testing.T) {
	scores := `{"count":2,"next":null,"results":[
		{"id":"PGS000001","name":"PRS77_BC","variants_number":77,
		 "publication":{"id":"PGP000001","PMID":25855707},
		 "trait_efo":[{"id":"EFO_0000305"},{"id":"EFO_404"}]},
		{"id":"PGS000002","name":"orphan","publication":{"id":"PGP404"}}]}`
	e := newEnv(t, map[string]string{"/score/all": scores})
	ctx := context.Background()
	pub := testutil.SeedPublication(t, ctx, e.db, "PGP000001", testutil.StrPtr("25855707"))
	testutil.SeedTrait(t, ctx, e.db, "EFO_0000305", "breast carcinoma")

	sum, err := e.runner.RunPRSModels(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityPRSModels, Processed: 2, Inserted: 1, Failed: 1}, *sum)

	var m types.PRSModel
	require.NoError(t, e.db.Where("pgsc_id = ?", "PGS000001").First(&m).Error)
	assert.Equal(t, pub.ID, m.PublicationID)
	assert.Equal(t, "https://www.pgscatalog.org/score/PGS000001/", m.PgscURL)
	assert.Contains(t, e.auditLines(t, EntityPRSModels)[1], "publication")

	sum, err = e.runner.RunPRSModelTraits(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityPRSModelTraits, Processed: 2, Inserted: 1, Failed: 1}, *sum)
	assert.EqualValues(t, 1, e.count(t, &types.PRSModelToTrait{}))
}

func TestRunBroadAncestryCategories(t *testing.T) {
	e := newEnv(t, map[string]string{
		"/ancestry_categories": `{"EUR":{"display_category":"European"},"AFR":{"display_category":"African"},"XXX":{"display_category":""}}`,
	})
	sum, err := e.runner.RunBroadAncestryCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityBroadAncestryCategories, Processed: 3, Inserted: 2, Failed: 1}, *sum)

	lines := e.auditLines(t, EntityBroadAncestryCategories)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "AFR (African)")
	assert.Contains(t, lines[1], "EUR (European)")
	assert.Contains(t, lines[2], "XXX")
}

func TestRunDevelopmentSamples(t *testing.T) {
	scores := `{"count":2,"next":null,"results":[
		{"id":"PGS000001",
		 "samples_variants":[
			{"sample_number":100,"ancestry_broad":"European","cohorts":[{"name_short":"UKB","name_full":"UK Biobank"}]},
			{"sample_number":5,"ancestry_broad":"Martian"}],
		 "samples_training":[{"sample_number":30,"ancestry_broad":"African American or Afro-Caribbean"}]},
		{"id":"PGS999999","samples_variants":[{"sample_number":1,"ancestry_broad":"European"}]}]}`
	e := newEnv(t, map[string]string{"/score/all": scores})
	ctx := context.Background()
	pub := testutil.SeedPublication(t, ctx, e.db, "PGP000001", nil)
	testutil.SeedPRSModel(t, ctx, e.db, "PGS000001", pub.ID)
	testutil.SeedAncestryCategory(t, ctx, e.db, "EUR", "European")
	testutil.SeedAncestryCategory(t, ctx, e.db, "AFR", "african")

	sum, err := e.runner.RunDevelopmentSamples(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityDevelopmentSamples, Processed: 4, Inserted: 2, Skipped: 1, Failed: 1}, *sum)

	var rows []types.DevelopmentPopulationSample
	require.NoError(t, e.db.Order("number_of_individuals DESC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, types.SampleRoleBase, rows[0].Role)
	require.NotNil(t, rows[0].Cohort)
	assert.Equal(t, "UK Biobank (UKB)", *rows[0].Cohort)
	assert.Equal(t, types.SampleRoleTuning, rows[1].Role)
	assert.Equal(t, 1, e.logs.FilterMessageSnippet("Martian").Len())
}

func TestRunBroadAncestryInModel(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	pub := testutil.SeedPublication(t, ctx, e.db, "PGP000001", nil)
	mixed := testutil.SeedPRSModel(t, ctx, e.db, "PGS000001", pub.ID)
	empty := testutil.SeedPRSModel(t, ctx, e.db, "PGS000002", pub.ID)
	eur := testutil.SeedAncestryCategory(t, ctx, e.db, "EUR", "European")
	afr := testutil.SeedAncestryCategory(t, ctx, e.db, "AFR", "African")
	sas := testutil.SeedAncestryCategory(t, ctx, e.db, "SAS", "South Asian")
	e.seedSample(t, mixed, eur, 50)
	e.seedSample(t, mixed, afr, 40)
	e.seedSample(t, mixed, eur, 10)
	e.seedSample(t, mixed, sas, 0)
	e.seedSample(t, empty, eur, 0)

	sum, err := e.runner.RunBroadAncestryInModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityBroadAncestryInModel, Processed: 3, Inserted: 2, Skipped: 1}, *sum)

	var shares []types.BroadAncestryInModel
	require.NoError(t, e.db.Where("prs_model_id = ?", mixed.ID).Find(&shares).Error)
	require.Len(t, shares, 2)
	got := map[string]float64{}
	for _, s := range shares {
		switch s.BroadAncestryCategoryID {
		case eur.ID:
			got["EUR"] = s.Percentage
		case afr.ID:
			got["AFR"] = s.Percentage
		}
	}
	assert.InDelta(t, 60.0, got["EUR"], 1e-9)
	assert.InDelta(t, 40.0, got["AFR"], 1e-9)

	assert.EqualValues(t, 2, e.count(t, &types.BroadAncestryInModel{}))
	assert.Equal(t, 1, e.logs.FilterMessageSnippet("0 individuals").Len())
	assert.Equal(t, 1, e.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestAncestrySharesWithoutIndividuals(t *testing.T) {
	assert.Nil(t, AncestryShares(nil))
	assert.Nil(t, AncestryShares([]*types.DevelopmentPopulationSample{{NumberOfIndividuals: 0}}))
}

func TestAncestrySharesDropsEmptyCategories(t *testing.T) {
	eur, sas := uuid.New(), uuid.New()
	shares := AncestryShares([]*types.DevelopmentPopulationSample{
		{NumberOfIndividuals: 100, BroadAncestryCategoryID: eur},
		{NumberOfIndividuals: 0, BroadAncestryCategoryID: sas},
	})
	require.Len(t, shares, 1)
	assert.Equal(t, eur, shares[0].CategoryID)
	assert.Equal(t, 100, shares[0].Individuals)
	assert.InDelta(t, 100.0, shares[0].Percentage, 1e-9)
}

const performancePage = `{"count":5,"next":null,"results":[
	{"id":"PPM000001","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
	 "sampleset":{"id":"PSS000001","samples":[{"sample_number":500,"ancestry_broad":"European"}]},
	 "performance_metrics":{
		"effect_sizes":[{"name_short":"OR","name_long":"Odds Ratio","estimate":1.55,"ci_lower":1.4,"ci_upper":1.7}],
		"class_acc":[{"name_short":"AUROC","name_long":"Area Under the ROC"}]}},
	{"id":"PPM000002","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
	 "sampleset":{"samples":[{"sample_number":5,"ancestry_broad":"European"}]}},
	{"id":"PPM000003","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
	 "sampleset":{"id":"PSS000003","samples":[{"sample_number":5,"ancestry_broad":"NR"}]}},
	{"id":"PPM000004","associated_pgs_id":"PGS999999","publication":{"id":"PGP000001"},
	 "sampleset":{"id":"PSS000004","samples":[{"sample_number":500,"ancestry_broad":"European"}]}},
	{"id":"PPM000005","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
	 "sampleset":{"id":"PSS000001","samples":[{"sample_number":500,"ancestry_broad":"European"}]},
	 "performance_metrics":{"effect_sizes":[{"name_short":"OR","name_long":"Odds Ratio","estimate":1.2}]}}]}`

func seedEvaluationRefs(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	pub := testutil.SeedPublication(t, ctx, e.db, "PGP000001", nil)
	testutil.SeedPRSModel(t, ctx, e.db, "PGS000001", pub.ID)
	testutil.SeedAncestryCategory(t, ctx, e.db, "EUR", "European")
}

func TestRunModelEvaluations(t *testing.T) {
	e := newEnv(t, map[string]string{"/performance/all": performancePage})
	seedEvaluationRefs(t, e)

	sum, err := e.runner.RunModelEvaluations(context.Background(), EvaluationOptions{})
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityModelEvaluations, Processed: 5, Inserted: 2, Skipped: 2, Failed: 1}, *sum)

	assert.EqualValues(t, 2, e.count(t, &types.ModelEvaluation{}))
	assert.EqualValues(t, 1, e.count(t, &types.EvaluationPopulationSample{}), "sample set reused, none stored for an unknown model")
	assert.EqualValues(t, 1, e.count(t, &types.PerformanceMetric{}))
	assert.EqualValues(t, 2, e.count(t, &types.PerformanceMetricEvaluation{}), "metric without estimate dropped alone")

	joined := strings.Join(e.auditLines(t, EntityModelEvaluations), "\n")
	assert.Contains(t, joined, "Metric DISCRIMINATING_POWER/AUROC of PPM000001 not inserted")
	assert.Contains(t, joined, "PPM000002 skipped: sample set has no id")
	assert.Contains(t, joined, "PPM000003 skipped")
	assert.Contains(t, joined, "PPM000004 not inserted")
}

func TestRunModelEvaluationsStartAfter(t *testing.T) {
	routes := map[string]string{
		"/performance/all": `{"count":3,"next":"{{base}}/performance/all?page=2","results":[
			{"id":"PPM000001","associated_pgs_id":"PGS000001"},
			{"id":"PPM000002","associated_pgs_id":"PGS000001"}]}`,
		"/performance/all?page=2": `{"count":3,"next":null,"results":[{"id":"PPM000003","associated_pgs_id":"PGS000001"}]}`,
	}

	e := newEnv(t, routes)
	sum, err := e.runner.RunModelEvaluations(context.Background(), EvaluationOptions{StartAfter: "PPM000002"})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Processed)
	lines := e.auditLines(t, EntityModelEvaluations)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "PPM000002")
	assert.Contains(t, lines[1], "PPM000003")

	e = newEnv(t, routes)
	sum, err = e.runner.RunModelEvaluations(context.Background(), EvaluationOptions{StartAfter: "PPM000009"})
	require.NoError(t, err)
	assert.Zero(t, sum.Processed)
	assert.Equal(t, 1, e.logs.FilterMessageSnippet("start marker").Len())
}

func TestRunModelEvaluationsByIDs(t *testing.T) {
	e := newEnv(t, map[string]string{
		"/performance/PPM000001": `{"id":"PPM000001","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
			"sampleset":{"id":"PSS000001","samples":[{"sample_number":500,"ancestry_broad":"European"}]}}`,
	})
	seedEvaluationRefs(t, e)

	sum, err := e.runner.RunModelEvaluations(context.Background(), EvaluationOptions{IDs: []string{"PPM000001", " ", "PPM404", "PPM000001"}})
	require.NoError(t, err)
	assert.Equal(t, Summary{Entity: EntityModelEvaluations, Processed: 2, Inserted: 1, Failed: 1}, *sum)
}

func TestRunModelEvaluationsByIDsAbortsOnServerError(t *testing.T) {
	e := newEnv(t, map[string]string{
		"/performance/PPM000001": `{"id":"PPM000001","associated_pgs_id":"PGS000001","publication":{"id":"PGP000001"},
			"sampleset":{"id":"PSS000001","samples":[{"sample_number":500,"ancestry_broad":"European"}]}}`,
		"/performance/PPM000002": "status:503",
	})
	seedEvaluationRefs(t, e)

	sum, err := e.runner.RunModelEvaluations(context.Background(), EvaluationOptions{IDs: []string{"PPM000002", "PPM000001"}})
	var fe *pgscatalog.FetchError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	require.NotNil(t, sum)
	assert.Zero(t, sum.Processed)
	assert.EqualValues(t, 0, e.count(t, &types.ModelEvaluation{}))
}

func TestFetchFailureAbortsRun(t *testing.T) {
	e := newEnv(t, map[string]string{})
	sum, err := e.runner.RunPublications(context.Background())
	var fe *pgscatalog.FetchError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	require.NotNil(t, sum)
	assert.Zero(t, sum.Processed)
}

func TestEmptyPageAbortsRun(t *testing.T) {
	e := newEnv(t, map[string]string{"/publication/all": `{"count":0,"next":null,"results":[]}`})
	_, err := e.runner.RunPublications(context.Background())
	assert.ErrorIs(t, err, pgscatalog.ErrEmptyPage)
}
