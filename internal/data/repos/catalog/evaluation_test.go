package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos/testutil"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
)

func TestEvaluationRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	eur := testutil.SeedAncestryCategory(t, ctx, tx, "EUR", "European")
	pub := testutil.SeedPublication(t, ctx, tx, "PGP000001", nil)
	model := testutil.SeedPRSModel(t, ctx, tx, "PGS000001", pub.ID)

	samples := NewEvaluationSampleRepo(db, log)
	stored, created, err := samples.FindOrCreate(dbc, &types.EvaluationPopulationSample{PssID: "PSS000001", Cohort: "UKB", BroadAncestryCategoryID: eur.ID})
	if err != nil || !created {
		t.Fatalf("FindOrCreate: created=%v err=%v", created, err)
	}
	again, created, err := samples.FindOrCreate(dbc, &types.EvaluationPopulationSample{PssID: "PSS000001", Cohort: "other", BroadAncestryCategoryID: eur.ID})
	if err != nil || created || again.ID != stored.ID {
		t.Fatalf("FindOrCreate(existing): created=%v err=%v id=%v want %v", created, err, again.ID, stored.ID)
	}
	if again.Cohort != "UKB" {
		t.Fatalf("FindOrCreate must return the stored row, got cohort %q", again.Cohort)
	}
	if n, err := samples.Count(dbc); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	evals := NewModelEvaluationRepo(db, log)
	if _, err := evals.Create(dbc, &types.ModelEvaluation{PpmID: "PPM000001", PRSModelID: model.ID}); err == nil {
		t.Fatalf("Create evaluation without sample: expected error")
	}
	eval, err := evals.Create(dbc, &types.ModelEvaluation{
		PpmID:                        "PPM000001",
		PRSModelID:                   model.ID,
		PublicationID:                pub.ID,
		EvaluationPopulationSampleID: stored.ID,
	})
	if err != nil {
		t.Fatalf("Create evaluation: %v", err)
	}
	if got, err := evals.GetByPpmID(dbc, "PPM000001"); err != nil || got == nil || got.ID != eval.ID {
		t.Fatalf("GetByPpmID: got=%v err=%v", got, err)
	}

	metrics := NewPerformanceMetricRepo(db, log)
	or, created, err := metrics.FindOrCreate(dbc, &types.PerformanceMetric{NameShort: "OR", NameLong: "Odds Ratio", Type: types.MetricTypeRiskAssociation})
	if err != nil || !created {
		t.Fatalf("FindOrCreate metric: created=%v err=%v", created, err)
	}
	orAgain, created, err := metrics.FindOrCreate(dbc, &types.PerformanceMetric{NameShort: "OR", NameLong: "Odds Ratio", Type: types.MetricTypeRiskAssociation})
	if err != nil || created || orAgain.ID != or.ID {
		t.Fatalf("FindOrCreate metric(existing): created=%v err=%v", created, err)
	}
	// Same short name under another type is a distinct metric.
	orOther, created, err := metrics.FindOrCreate(dbc, &types.PerformanceMetric{NameShort: "OR", Type: types.MetricTypeOther})
	if err != nil || !created || orOther.ID == or.ID {
		t.Fatalf("FindOrCreate metric(other type): created=%v err=%v", created, err)
	}

	values := NewMetricEvaluationRepo(db, log)
	lower, upper := 1.5, 1.7
	if _, err := values.Create(dbc, &types.PerformanceMetricEvaluation{
		ModelEvaluationID:   eval.ID,
		PerformanceMetricID: or.ID,
		Estimate:            1.61,
		CILower:             &lower,
		CIUpper:             &upper,
	}); err != nil {
		t.Fatalf("Create metric evaluation: %v", err)
	}
	rows, err := values.ListByEvaluationID(dbc, eval.ID)
	if err != nil || len(rows) != 1 || rows[0].Estimate != 1.61 {
		t.Fatalf("ListByEvaluationID: err=%v rows=%v", err, rows)
	}
}

func TestAncestryRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	cats := NewBroadAncestryCategoryRepo(db, log)
	for _, c := range []*types.BroadAncestryCategory{
		{Symbol: "EUR", Label: "European"},
		{Symbol: "AFR", Label: "African"},
	} {
		if _, err := cats.Create(dbc, c); err != nil {
			t.Fatalf("Create(%s): %v", c.Symbol, err)
		}
	}
	all, err := cats.ListAll(dbc)
	if err != nil || len(all) != 2 || all[0].Symbol != "AFR" {
		t.Fatalf("ListAll: err=%v rows=%v", err, all)
	}
	eur, err := cats.GetBySymbol(dbc, "EUR")
	if err != nil || eur == nil || eur.Label != "European" {
		t.Fatalf("GetBySymbol: got=%v err=%v", eur, err)
	}

	pub := testutil.SeedPublication(t, ctx, tx, "PGP000001", nil)
	model := testutil.SeedPRSModel(t, ctx, tx, "PGS000001", pub.ID)

	dev := NewDevelopmentSampleRepo(db, log)
	if _, err := dev.Create(dbc, &types.DevelopmentPopulationSample{
		NumberOfIndividuals:     1000,
		AncestryBroad:           "European",
		Role:                    types.SampleRoleBase,
		PRSModelID:              model.ID,
		BroadAncestryCategoryID: eur.ID,
	}); err != nil {
		t.Fatalf("Create development sample: %v", err)
	}
	if rows, err := dev.ListByModelID(dbc, model.ID); err != nil || len(rows) != 1 || rows[0].Role != types.SampleRoleBase {
		t.Fatalf("ListByModelID: err=%v rows=%v", err, rows)
	}

	shares := NewBroadAncestryInModelRepo(db, log)
	if _, err := shares.Create(dbc, &types.BroadAncestryInModel{PRSModelID: model.ID, BroadAncestryCategoryID: eur.ID, Percentage: 100}); err != nil {
		t.Fatalf("Create share: %v", err)
	}
	if rows, err := shares.ListByModelID(dbc, model.ID); err != nil || len(rows) != 1 || rows[0].Percentage != 100 {
		t.Fatalf("ListByModelID share: err=%v rows=%v", err, rows)
	}
}
