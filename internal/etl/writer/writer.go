// Package writer performs one create (or find-or-create) per normalized
// record after resolving its mandatory relations by natural key.
package writer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl"
	"github.com/yungbote/pgscatalog-etl/internal/etl/resolve"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
)

type Writer struct {
	repos    *repos.Set
	resolver *resolve.Resolver
}

func New(set *repos.Set, resolver *resolve.Resolver) *Writer {
	return &Writer{repos: set, resolver: resolver}
}

// owned stamps the owning entity on a relation miss.
func owned(entity string, err error) error {
	var rel *etl.RelationError
	if errors.As(err, &rel) && rel.Entity == "" {
		rel.Entity = entity
	}
	return err
}

func (w *Writer) InsertTrait(dbc dbctx.Context, t *types.Trait) (*types.Trait, error) {
	return w.repos.Traits.Create(dbc, t)
}

// InsertTraitCategory links every stored trait whose ontology id appears in
// rec.TraitIDs. matched is the number of linked traits; zero is allowed.
func (w *Writer) InsertTraitCategory(dbc dbctx.Context, rec *transform.TraitCategoryRecord) (cat *types.TraitCategory, matched int, err error) {
	traits, err := w.repos.Traits.FindByAnyOntologyID(dbc, rec.TraitIDs)
	if err != nil {
		return nil, 0, err
	}
	cat, err = w.repos.TraitCategories.CreateWithTraits(dbc, &types.TraitCategory{Label: rec.Label}, traits)
	if err != nil {
		return nil, 0, err
	}
	return cat, len(traits), nil
}

func (w *Writer) InsertPublication(dbc dbctx.Context, p *types.Publication) (*types.Publication, error) {
	return w.repos.Publications.Create(dbc, p)
}

func (w *Writer) InsertPRSModel(dbc dbctx.Context, rec *transform.PRSModelRecord) (*types.PRSModel, error) {
	pub, err := w.resolver.Publication(dbc, rec.PublicationPMID, rec.PublicationPgpID)
	if err != nil {
		return nil, owned("prs_model", err)
	}
	m := rec.Model
	m.PublicationID = pub.ID
	return w.repos.PRSModels.Create(dbc, &m)
}

func (w *Writer) LinkModelTrait(dbc dbctx.Context, pgscID, traitID string) (*types.PRSModelToTrait, error) {
	model, err := w.resolver.PRSModel(dbc, pgscID)
	if err != nil {
		return nil, owned("prs_model_to_trait", err)
	}
	trait, err := w.resolver.TraitForLink(dbc, traitID)
	if err != nil {
		return nil, owned("prs_model_to_trait", err)
	}
	return w.repos.PRSModelTraits.Create(dbc, &types.PRSModelToTrait{PRSModelID: model.ID, TraitID: trait.ID})
}

func (w *Writer) InsertDevelopmentSample(dbc dbctx.Context, rec *transform.DevelopmentSampleRecord, categoryID uuid.UUID) (*types.DevelopmentPopulationSample, error) {
	model, err := w.resolver.PRSModel(dbc, rec.PgscID)
	if err != nil {
		return nil, owned("development_population_sample", err)
	}
	s := rec.Sample
	s.PRSModelID = model.ID
	s.BroadAncestryCategoryID = categoryID
	return w.repos.DevelopmentSamples.Create(dbc, &s)
}

func (w *Writer) InsertBroadAncestryCategory(dbc dbctx.Context, c *types.BroadAncestryCategory) (*types.BroadAncestryCategory, error) {
	return w.repos.AncestryCategories.Create(dbc, c)
}

// FindOrCreateEvaluationSample returns the stored sample for s.PssID
// unchanged when one exists.
func (w *Writer) FindOrCreateEvaluationSample(dbc dbctx.Context, s *types.EvaluationPopulationSample, categoryID uuid.UUID) (*types.EvaluationPopulationSample, bool, error) {
	if s.PssID == "" {
		return nil, false, &etl.ValidationError{Entity: "evaluation_population_sample", Err: fmt.Errorf("sample set id required")}
	}
	row := *s
	row.BroadAncestryCategoryID = categoryID
	return w.repos.EvaluationSamples.FindOrCreate(dbc, &row)
}

// EvaluationRefs are the stored rows an evaluation points at.
type EvaluationRefs struct {
	Model       *types.PRSModel
	Publication *types.Publication
}

// ResolveEvaluationRefs looks up the PRS model and publication of rec so a
// miss can be reported before anything is written for the record.
func (w *Writer) ResolveEvaluationRefs(dbc dbctx.Context, rec *transform.ModelEvaluationRecord) (EvaluationRefs, error) {
	model, err := w.resolver.PRSModel(dbc, rec.PgscID)
	if err != nil {
		return EvaluationRefs{}, owned("model_evaluation", err)
	}
	pub, err := w.resolver.Publication(dbc, nil, rec.PgpID)
	if err != nil {
		return EvaluationRefs{}, owned("model_evaluation", err)
	}
	return EvaluationRefs{Model: model, Publication: pub}, nil
}

func (w *Writer) InsertModelEvaluation(dbc dbctx.Context, rec *transform.ModelEvaluationRecord, refs EvaluationRefs, sampleID uuid.UUID) (*types.ModelEvaluation, error) {
	if refs.Model == nil || refs.Publication == nil {
		return nil, &etl.RelationError{Entity: "model_evaluation", Relation: "prs_model", Key: rec.PgscID}
	}
	if sampleID == uuid.Nil {
		return nil, &etl.RelationError{Entity: "model_evaluation", Relation: "evaluation_population_sample", Key: rec.Evaluation.PpmID}
	}
	e := rec.Evaluation
	e.PRSModelID = refs.Model.ID
	e.PublicationID = refs.Publication.ID
	e.EvaluationPopulationSampleID = sampleID
	return w.repos.ModelEvaluations.Create(dbc, &e)
}

// InsertMetricEvaluation find-or-creates the metric and records its value
// for the evaluation.
func (w *Writer) InsertMetricEvaluation(dbc dbctx.Context, evaluationID uuid.UUID, rec transform.MetricRecord) (*types.PerformanceMetricEvaluation, error) {
	key := rec.Metric.Type + "/" + rec.Metric.NameShort
	if rec.Metric.NameShort == "" {
		return nil, &etl.ValidationError{Entity: "performance_metric", Key: key, Err: fmt.Errorf("name_short required")}
	}
	if rec.Estimate == nil {
		return nil, &etl.ValidationError{Entity: "performance_metric_evaluation", Key: key, Err: fmt.Errorf("estimate required")}
	}
	metric := rec.Metric
	stored, _, err := w.repos.PerformanceMetrics.FindOrCreate(dbc, &metric)
	if err != nil {
		return nil, err
	}
	return w.repos.MetricEvaluations.Create(dbc, &types.PerformanceMetricEvaluation{
		ModelEvaluationID:   evaluationID,
		PerformanceMetricID: stored.ID,
		Estimate:            *rec.Estimate,
		CILower:             rec.CILower,
		CIUpper:             rec.CIUpper,
	})
}

func (w *Writer) InsertBroadAncestryInModel(dbc dbctx.Context, modelID, categoryID uuid.UUID, percentage float64) (*types.BroadAncestryInModel, error) {
	return w.repos.AncestryInModel.Create(dbc, &types.BroadAncestryInModel{
		PRSModelID:              modelID,
		BroadAncestryCategoryID: categoryID,
		Percentage:              percentage,
	})
}
