package transform

import (
	"strings"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

// PRSModelRecord carries the natural keys of the model's publication; the
// resolver turns them into a publication id.
type PRSModelRecord struct {
	Model            types.PRSModel
	PublicationPMID  *string
	PublicationPgpID string
}

func ScoreURL(base, pgscID string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultScoreURLBase
	}
	return base + "/" + pgscID + "/"
}

func PRSModel(raw pgscatalog.Score, scoreURLBase string) (*PRSModelRecord, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("prs_model", raw.ID, raw); err != nil {
		return nil, err
	}
	out := &PRSModelRecord{
		Model: types.PRSModel{
			PgscID:      raw.ID,
			Name:        raw.Name,
			NumberOfSNP: raw.VariantsNumber,
			PgscURL:     ScoreURL(scoreURLBase, raw.ID),
		},
	}
	if raw.Publication != nil {
		out.PublicationPMID = raw.Publication.PMID.Ptr()
		out.PublicationPgpID = strings.TrimSpace(raw.Publication.ID)
	}
	return out, nil
}

type ModelTraitRecord struct {
	PgscID   string
	TraitIDs []string
}

func ModelTraits(raw pgscatalog.Score) (*ModelTraitRecord, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("prs_model_to_trait", raw.ID, raw); err != nil {
		return nil, err
	}
	out := &ModelTraitRecord{PgscID: raw.ID, TraitIDs: make([]string, 0, len(raw.TraitEFO))}
	for _, t := range raw.TraitEFO {
		if id := strings.TrimSpace(t.ID); id != "" {
			out.TraitIDs = append(out.TraitIDs, id)
		}
	}
	return out, nil
}
