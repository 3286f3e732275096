package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
	"github.com/yungbote/pgscatalog-etl/internal/normalization"
	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
)

// resolveAncestry maps a raw ancestry_broad label onto a stored category.
// A nil category with a nil error means the record should be skipped; the
// reason is returned for the audit line.
func (rn *run) resolveAncestry(raw string) (*types.BroadAncestryCategory, string, error) {
	group, ok := normalization.BroadAncestryGroup(raw)
	if !ok {
		return nil, fmt.Sprintf("ancestry %q not mapped", raw), nil
	}
	cat, err := rn.res.BroadAncestryCategory(rn.dbc, group)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, fmt.Sprintf("no broad ancestry category labelled %q (from %q)", group, raw), nil
	}
	if err != nil {
		return nil, "", err
	}
	return cat, "", nil
}

// RunDevelopmentSamples stores the BASE and TUNING samples of every score.
// Broad ancestry categories and PRS models must already be loaded.
func (r *Runner) RunDevelopmentSamples(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityDevelopmentSamples, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.ScoresURL(), func(batch []pgscatalog.Score) error {
			for _, raw := range batch {
				recs, err := transform.DevelopmentSamples(raw)
				if err != nil {
					rn.failed(fmt.Sprintf("Samples of PRS model %s rejected", raw.ID), err)
					continue
				}
				for i := range recs {
					rec := &recs[i]
					label := fmt.Sprintf("%s sample of PRS model %s", rec.Sample.Role, rec.PgscID)
					cat, reason, err := rn.resolveAncestry(rec.Sample.AncestryBroad)
					if err != nil {
						rn.failed(label+" not inserted", err)
						continue
					}
					if cat == nil {
						rn.skipped(fmt.Sprintf("%s skipped: %s", label, reason))
						continue
					}
					_, err = rn.writer.InsertDevelopmentSample(rn.dbc, rec, cat.ID)
					rn.settle(err, "Inserted "+label, label+" not inserted")
				}
			}
			return nil
		})
	})
}

type AncestryShare struct {
	CategoryID  uuid.UUID
	Individuals int
	Percentage  float64
}

// AncestryShares groups a model's development samples by ancestry category
// and returns each non-empty category's share of the individuals, in order of
// first appearance. It returns nil when the samples hold no individuals.
func AncestryShares(samples []*types.DevelopmentPopulationSample) []AncestryShare {
	total := 0
	index := map[uuid.UUID]int{}
	var out []AncestryShare
	for _, s := range samples {
		if s == nil || s.BroadAncestryCategoryID == uuid.Nil {
			continue
		}
		i, ok := index[s.BroadAncestryCategoryID]
		if !ok {
			i = len(out)
			index[s.BroadAncestryCategoryID] = i
			out = append(out, AncestryShare{CategoryID: s.BroadAncestryCategoryID})
		}
		out[i].Individuals += s.NumberOfIndividuals
		total += s.NumberOfIndividuals
	}
	if total == 0 {
		return nil
	}
	shares := out[:0]
	for _, sh := range out {
		if sh.Individuals == 0 {
			continue
		}
		sh.Percentage = float64(sh.Individuals) / float64(total) * 100
		shares = append(shares, sh)
	}
	return shares
}

// RunBroadAncestryInModel derives per-model ancestry shares from stored
// development samples; nothing is fetched. Each share row is one record and
// a model without individuals counts as one skipped record.
func (r *Runner) RunBroadAncestryInModel(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityBroadAncestryInModel, func(ctx context.Context, rn *run) error {
		models, err := r.repos.PRSModels.ListAll(rn.dbc)
		if err != nil {
			return fmt.Errorf("list prs models: %w", err)
		}
		for _, m := range models {
			samples, err := r.repos.DevelopmentSamples.ListByModelID(rn.dbc, m.ID)
			if err != nil {
				rn.failed(fmt.Sprintf("Samples of PRS model %s not loaded", m.PgscID), err)
				continue
			}
			shares := AncestryShares(samples)
			if len(shares) == 0 {
				rn.skipped(fmt.Sprintf("PRS model %s skipped: development samples hold 0 individuals", m.PgscID))
				continue
			}
			for _, share := range shares {
				_, err := rn.writer.InsertBroadAncestryInModel(rn.dbc, m.ID, share.CategoryID, share.Percentage)
				rn.settle(err,
					fmt.Sprintf("Ancestry share inserted: %s %s %.2f%%", m.PgscID, share.CategoryID, share.Percentage),
					fmt.Sprintf("Ancestry share %s %s not inserted", m.PgscID, share.CategoryID))
			}
		}
		return nil
	})
}
