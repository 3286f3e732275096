package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	"github.com/yungbote/pgscatalog-etl/internal/etl/transform"
)

type EvaluationOptions struct {
	// StartAfter resumes the paginated walk at this PPM id, inclusive.
	StartAfter string
	// IDs fetches exactly these records instead of walking the collection.
	IDs []string
}

// RunModelEvaluations stores one evaluation per performance record together
// with its evaluation sample and reported metrics. PRS models, publications
// and broad ancestry categories must already be loaded.
func (r *Runner) RunModelEvaluations(ctx context.Context, opts EvaluationOptions) (*Summary, error) {
	return r.execute(ctx, EntityModelEvaluations, func(ctx context.Context, rn *run) error {
		if ids := cleanIDs(opts.IDs); len(ids) > 0 {
			for _, id := range ids {
				raw, err := r.client.GetPerformance(ctx, id)
				if err != nil {
					var fe *pgscatalog.FetchError
					if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
						return err
					}
					rn.failed(fmt.Sprintf("Performance %s not fetched", id), err)
					continue
				}
				rn.evaluate(*raw)
			}
			return nil
		}

		marker := strings.TrimSpace(opts.StartAfter)
		pages := pgscatalog.Pages[pgscatalog.Performance](ctx, r.client, r.client.PerformancesURL())
		pages = pgscatalog.StartAt(pages, marker, func(p pgscatalog.Performance) string { return strings.TrimSpace(p.ID) })
		for batch, err := range pages {
			if err != nil {
				return err
			}
			for _, raw := range batch {
				rn.evaluate(raw)
			}
		}
		if marker != "" && rn.summary.Processed == 0 {
			rn.log.Warn("start marker never seen, nothing processed", "start_after", marker)
		}
		return nil
	})
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// evaluate handles one performance record: sample, ancestry, evaluation,
// then each metric on its own.
func (rn *run) evaluate(raw pgscatalog.Performance) {
	ppm := strings.TrimSpace(raw.ID)
	sample, err := transform.EvaluationSample(raw)
	if err != nil {
		rn.failed(fmt.Sprintf("Model evaluation %s rejected", ppm), err)
		return
	}
	rec, err := transform.ModelEvaluation(raw)
	if err != nil {
		rn.failed(fmt.Sprintf("Model evaluation %s rejected", ppm), err)
		return
	}
	if sample.PssID == "" {
		rn.skipped(fmt.Sprintf("Model evaluation %s skipped: sample set has no id", ppm))
		return
	}
	ancestry := ""
	if sample.AncestryBroad != nil {
		ancestry = *sample.AncestryBroad
	}
	cat, reason, err := rn.resolveAncestry(ancestry)
	if err != nil {
		rn.failed(fmt.Sprintf("Model evaluation %s not inserted", ppm), err)
		return
	}
	if cat == nil {
		rn.skipped(fmt.Sprintf("Model evaluation %s skipped: %s", ppm, reason))
		return
	}
	refs, err := rn.writer.ResolveEvaluationRefs(rn.dbc, rec)
	if err != nil {
		rn.failed(fmt.Sprintf("Model evaluation %s not inserted", ppm), err)
		return
	}
	stored, _, err := rn.writer.FindOrCreateEvaluationSample(rn.dbc, sample, cat.ID)
	if err != nil {
		rn.failed(fmt.Sprintf("Model evaluation %s: sample %s not stored", ppm, sample.PssID), err)
		return
	}
	eval, err := rn.writer.InsertModelEvaluation(rn.dbc, rec, refs, stored.ID)
	rn.settle(err,
		fmt.Sprintf("Model evaluation inserted: %s", ppm),
		fmt.Sprintf("Model evaluation %s not inserted", ppm))
	if err != nil {
		return
	}
	for _, m := range transform.PerformanceMetrics(raw) {
		rn.metric(ppm, eval.ID, m)
	}
}

// metric failures are audited and counted in metrics only; the evaluation
// stays in place.
func (rn *run) metric(ppm string, evaluationID uuid.UUID, m transform.MetricRecord) {
	key := m.Metric.Type + "/" + m.Metric.NameShort
	if _, err := rn.writer.InsertMetricEvaluation(rn.dbc, evaluationID, m); err != nil {
		rn.audit.Record(fmt.Sprintf("Metric %s of %s not inserted: %v", key, ppm, err))
		rn.log.Warn("metric not inserted", "ppm_id", ppm, "metric", key, "error", err)
		rn.metrics.RecordOutcome(entityMetricEvaluations, OutcomeFailed)
		return
	}
	rn.audit.Record(fmt.Sprintf("Metric inserted: %s of %s", key, ppm))
	rn.metrics.RecordOutcome(entityMetricEvaluations, OutcomeInserted)
}
