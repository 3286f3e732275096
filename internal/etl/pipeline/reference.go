package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
)

func (r *Runner) RunTraits(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityTraits, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.TraitsURL(), func(batch []pgscatalog.Trait) error {
			for _, raw := range batch {
				t, err := transform.Trait(raw)
				if err != nil {
					rn.failed(fmt.Sprintf("Trait %s rejected", raw.ID), err)
					continue
				}
				_, err = rn.writer.InsertTrait(rn.dbc, t)
				rn.settle(err,
					fmt.Sprintf("Trait inserted: %s (%s)", t.Label, raw.ID),
					fmt.Sprintf("Trait %s (%s) not inserted", t.Label, raw.ID))
			}
			return nil
		})
	})
}

func (r *Runner) RunTraitCategories(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityTraitCategories, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.TraitCategoriesURL(), func(batch []pgscatalog.TraitCategory) error {
			for _, raw := range batch {
				rec, err := transform.TraitCategory(raw)
				if err != nil {
					rn.failed(fmt.Sprintf("Trait category %q rejected", raw.Label), err)
					continue
				}
				_, matched, err := rn.writer.InsertTraitCategory(rn.dbc, rec)
				if err == nil && matched == 0 {
					rn.log.Warn("trait category linked no stored traits", "label", rec.Label, "trait_ids", len(rec.TraitIDs))
				}
				rn.settle(err,
					fmt.Sprintf("Trait category inserted: %s (%d traits)", rec.Label, matched),
					fmt.Sprintf("Trait category %s not inserted", rec.Label))
			}
			return nil
		})
	})
}

func (r *Runner) RunPublications(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityPublications, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.PublicationsURL(), func(batch []pgscatalog.Publication) error {
			for _, raw := range batch {
				p, err := transform.Publication(raw)
				if err != nil {
					rn.failed(fmt.Sprintf("Publication %s rejected", raw.ID), err)
					continue
				}
				_, err = rn.writer.InsertPublication(rn.dbc, p)
				rn.settle(err,
					fmt.Sprintf("Publication inserted: %s", p.PgpID),
					fmt.Sprintf("Publication %s not inserted", p.PgpID))
			}
			return nil
		})
	})
}

// RunPRSModels requires publications to be loaded first.
func (r *Runner) RunPRSModels(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityPRSModels, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.ScoresURL(), func(batch []pgscatalog.Score) error {
			for _, raw := range batch {
				rec, err := transform.PRSModel(raw, r.cfg.ScoreURLBase)
				if err != nil {
					rn.failed(fmt.Sprintf("PRS model %s rejected", raw.ID), err)
					continue
				}
				_, err = rn.writer.InsertPRSModel(rn.dbc, rec)
				rn.settle(err,
					fmt.Sprintf("PRS model inserted: %s", rec.Model.PgscID),
					fmt.Sprintf("PRS model %s not inserted", rec.Model.PgscID))
			}
			return nil
		})
	})
}

// RunPRSModelTraits links every score to each of its traits. Each
// (model, trait) pair is one record.
func (r *Runner) RunPRSModelTraits(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityPRSModelTraits, func(ctx context.Context, rn *run) error {
		return pgscatalog.ForEachPage(ctx, r.client, r.client.ScoresURL(), func(batch []pgscatalog.Score) error {
			for _, raw := range batch {
				rec, err := transform.ModelTraits(raw)
				if err != nil {
					rn.failed(fmt.Sprintf("PRS model %s rejected", raw.ID), err)
					continue
				}
				for _, traitID := range rec.TraitIDs {
					_, err := rn.writer.LinkModelTrait(rn.dbc, rec.PgscID, traitID)
					rn.settle(err,
						fmt.Sprintf("Relation inserted: %s -> %s", rec.PgscID, traitID),
						fmt.Sprintf("Relation %s -> %s not inserted", rec.PgscID, traitID))
				}
			}
			return nil
		})
	})
}

// RunBroadAncestryCategories loads the non-paginated category map in symbol
// order.
func (r *Runner) RunBroadAncestryCategories(ctx context.Context) (*Summary, error) {
	return r.execute(ctx, EntityBroadAncestryCategories, func(ctx context.Context, rn *run) error {
		raw, err := r.client.GetAncestryCategories(ctx)
		if err != nil {
			return err
		}
		symbols := make([]string, 0, len(raw))
		for symbol := range raw {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			c, err := transform.BroadAncestryCategory(symbol, raw[symbol])
			if err != nil {
				rn.failed(fmt.Sprintf("Broad ancestry category %s rejected", symbol), err)
				continue
			}
			_, err = rn.writer.InsertBroadAncestryCategory(rn.dbc, c)
			rn.settle(err,
				fmt.Sprintf("Broad ancestry category inserted: %s (%s)", c.Symbol, c.Label),
				fmt.Sprintf("Broad ancestry category %s not inserted", c.Symbol))
		}
		return nil
	})
}
