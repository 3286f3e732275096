package catalog_etl

import (
	"context"

	"github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/runtime"
)

// Param keys understood by the model evaluation handler.
const (
	ParamStartAfter = "start_after"
	ParamIDs        = "ids"
)

type Pipeline struct {
	entity string
	run    func(jc *runtime.Context) (*pipeline.Summary, error)
}

func (p *Pipeline) Type() string { return p.entity }

func (p *Pipeline) Run(jc *runtime.Context) (*pipeline.Summary, error) { return p.run(jc) }

func simple(entity string, fn func(ctx context.Context) (*pipeline.Summary, error)) *Pipeline {
	return &Pipeline{entity: entity, run: func(jc *runtime.Context) (*pipeline.Summary, error) {
		return fn(jc.Ctx)
	}}
}

// New binds one handler per pipeline entry point.
func New(runner *pipeline.Runner) []*Pipeline {
	return []*Pipeline{
		simple(pipeline.EntityTraits, runner.RunTraits),
		simple(pipeline.EntityTraitCategories, runner.RunTraitCategories),
		simple(pipeline.EntityPRSModels, runner.RunPRSModels),
		simple(pipeline.EntityPublications, runner.RunPublications),
		simple(pipeline.EntityPRSModelTraits, runner.RunPRSModelTraits),
		simple(pipeline.EntityDevelopmentSamples, runner.RunDevelopmentSamples),
		simple(pipeline.EntityBroadAncestryCategories, runner.RunBroadAncestryCategories),
		{entity: pipeline.EntityModelEvaluations, run: func(jc *runtime.Context) (*pipeline.Summary, error) {
			return runner.RunModelEvaluations(jc.Ctx, pipeline.EvaluationOptions{
				StartAfter: jc.ParamString(ParamStartAfter),
				IDs:        jc.ParamStrings(ParamIDs),
			})
		}},
		simple(pipeline.EntityBroadAncestryInModel, runner.RunBroadAncestryInModel),
	}
}

func Register(reg *runtime.Registry, runner *pipeline.Runner) error {
	for _, p := range New(runner) {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}
