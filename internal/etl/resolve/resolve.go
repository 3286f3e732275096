// Package resolve looks up persisted rows by natural key. It never creates
// rows and never logs; a miss is returned as *etl.RelationError.
package resolve

import (
	"fmt"
	"strings"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos/catalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl"
	"github.com/yungbote/pgscatalog-etl/internal/normalization"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
)

type PublicationFinder interface {
	GetByPMID(dbc dbctx.Context, pmid string) (*types.Publication, error)
	GetByPgpID(dbc dbctx.Context, pgpID string) (*types.Publication, error)
}

type TraitFinder interface {
	GetByOntologyID(dbc dbctx.Context, field catalog.OntologyField, id string) (*types.Trait, error)
}

type PRSModelFinder interface {
	GetByPgscID(dbc dbctx.Context, pgscID string) (*types.PRSModel, error)
}

type AncestryCategoryLister interface {
	ListAll(dbc dbctx.Context) ([]*types.BroadAncestryCategory, error)
}

type EvaluationSampleFinder interface {
	GetByPssID(dbc dbctx.Context, pssID string) (*types.EvaluationPopulationSample, error)
}

type Deps struct {
	Publications       PublicationFinder
	Traits             TraitFinder
	PRSModels          PRSModelFinder
	AncestryCategories AncestryCategoryLister
	EvaluationSamples  EvaluationSampleFinder
}

// Resolver is meant to live for one pipeline run: the ancestry category
// list is loaded on first use and kept.
type Resolver struct {
	deps       Deps
	categories []*types.BroadAncestryCategory
	loaded     bool
}

func New(deps Deps) *Resolver {
	return &Resolver{deps: deps}
}

// Publication tries the PMID first (when present) and falls back to the
// catalog publication id.
func (r *Resolver) Publication(dbc dbctx.Context, pmid *string, pgpID string) (*types.Publication, error) {
	if pmid != nil && strings.TrimSpace(*pmid) != "" {
		pub, err := r.deps.Publications.GetByPMID(dbc, strings.TrimSpace(*pmid))
		if err != nil {
			return nil, err
		}
		if pub != nil {
			return pub, nil
		}
	}
	if pgpID = strings.TrimSpace(pgpID); pgpID != "" {
		pub, err := r.deps.Publications.GetByPgpID(dbc, pgpID)
		if err != nil {
			return nil, err
		}
		if pub != nil {
			return pub, nil
		}
	}
	return nil, &etl.RelationError{Relation: "publication", Key: publicationKey(pmid, pgpID)}
}

func publicationKey(pmid *string, pgpID string) string {
	p := ""
	if pmid != nil {
		p = *pmid
	}
	return fmt.Sprintf("pmid=%s pgp=%s", p, pgpID)
}

// traitLinkOrder is the namespace order used when linking a model to a trait.
var traitLinkOrder = []catalog.OntologyField{
	catalog.FieldEFO,
	catalog.FieldMONDO,
	catalog.FieldHPO,
	catalog.FieldOrpha,
}

// TraitForLink finds a trait by ontology id, first hit wins.
func (r *Resolver) TraitForLink(dbc dbctx.Context, ontologyID string) (*types.Trait, error) {
	ontologyID = strings.TrimSpace(ontologyID)
	if ontologyID != "" {
		for _, field := range traitLinkOrder {
			t, err := r.deps.Traits.GetByOntologyID(dbc, field, ontologyID)
			if err != nil {
				return nil, err
			}
			if t != nil {
				return t, nil
			}
		}
	}
	return nil, &etl.RelationError{Relation: "trait", Key: ontologyID}
}

func (r *Resolver) PRSModel(dbc dbctx.Context, pgscID string) (*types.PRSModel, error) {
	pgscID = strings.TrimSpace(pgscID)
	if pgscID != "" {
		m, err := r.deps.PRSModels.GetByPgscID(dbc, pgscID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, &etl.RelationError{Relation: "prs_model", Key: pgscID}
}

// BroadAncestryCategory matches label case-insensitively against every
// category label.
func (r *Resolver) BroadAncestryCategory(dbc dbctx.Context, label string) (*types.BroadAncestryCategory, error) {
	if !r.loaded {
		all, err := r.deps.AncestryCategories.ListAll(dbc)
		if err != nil {
			return nil, err
		}
		r.categories = all
		r.loaded = true
	}
	want := normalization.Key(label)
	for _, c := range r.categories {
		if normalization.Key(c.Label) == want {
			return c, nil
		}
	}
	return nil, &etl.RelationError{Relation: "broad_ancestry_category", Key: label}
}

func (r *Resolver) EvaluationSample(dbc dbctx.Context, pssID string) (*types.EvaluationPopulationSample, error) {
	pssID = strings.TrimSpace(pssID)
	if pssID != "" {
		s, err := r.deps.EvaluationSamples.GetByPssID(dbc, pssID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, &etl.RelationError{Relation: "evaluation_population_sample", Key: pssID}
}
