package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/pgscatalog-etl/internal/app"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/etl/pipeline"
	"github.com/yungbote/pgscatalog-etl/internal/jobs/pipeline/catalog_etl"
)

// etlCommand binds one CLI verb to a pipeline entity.
type etlCommand struct {
	use    string
	entity string
	short  string
}

// Listed in dependency order; run-all-etl walks them top to bottom.
var etlCommands = []etlCommand{
	{"run-trait-etl", pipeline.EntityTraits, "Load traits"},
	{"run-trait-category-etl", pipeline.EntityTraitCategories, "Load trait categories and link them to stored traits"},
	{"run-publication-etl", pipeline.EntityPublications, "Load publications"},
	{"run-prs-model-etl", pipeline.EntityPRSModels, "Load PRS models (publications must be loaded)"},
	{"run-prs-model-trait-relation-etl", pipeline.EntityPRSModelTraits, "Link PRS models to their traits"},
	{"run-broad-ancestry-category-etl", pipeline.EntityBroadAncestryCategories, "Load broad ancestry categories"},
	{"run-development-samples-etl", pipeline.EntityDevelopmentSamples, "Load development samples of every PRS model"},
	{"run-broad-ancestry-in-model-etl", pipeline.EntityBroadAncestryInModel, "Aggregate development samples into per-model ancestry shares"},
	{"run-model-evaluation-etl", pipeline.EntityModelEvaluations, "Load model evaluations, evaluation samples and metrics"},
}

// appFactory builds the application for one command; tests swap it out.
type appFactory func(ctx context.Context, cfg app.Config) (*app.App, error)

func defaultFactory(ctx context.Context, cfg app.Config) (*app.App, error) {
	return app.New(ctx, cfg, nil)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultFactory)
}

func newRootCmdWith(factory appFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "pgsetl",
		Short:         "Load the PGS Catalog into a relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	app.BindFlags(root.PersistentFlags())

	open := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := app.LoadConfig()
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
			return nil, err
		}
		return factory(cmd.Context(), cfg)
	}

	for _, ec := range etlCommands {
		root.AddCommand(newEtlCmd(ec, open))
	}
	root.AddCommand(newRunAllCmd(open))
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	})
	return root
}

func newEtlCmd(ec etlCommand, open func(*cobra.Command) (*app.App, error)) *cobra.Command {
	var startAfter string
	var ids []string
	cmd := &cobra.Command{
		Use:   ec.use,
		Short: ec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			params := map[string]any{}
			if s := strings.TrimSpace(startAfter); s != "" {
				params[catalog_etl.ParamStartAfter] = s
			}
			if len(ids) > 0 {
				params[catalog_etl.ParamIDs] = ids
			}
			run, err := a.RunEntity(cmd.Context(), ec.entity, params)
			writeRun(cmd.OutOrStdout(), run)
			if err != nil {
				return fmt.Errorf("%s failed: %w", ec.use, err)
			}
			return nil
		},
	}
	if ec.entity == pipeline.EntityModelEvaluations {
		cmd.Flags().StringVar(&startAfter, "start-after", "", "resume from this performance id (inclusive)")
		cmd.Flags().StringSliceVar(&ids, "ids", nil, "only load these performance ids")
		cmd.MarkFlagsMutuallyExclusive("start-after", "ids")
	}
	return cmd
}

func newRunAllCmd(open func(*cobra.Command) (*app.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "run-all-etl",
		Short: "Run every loader in dependency order, stopping at the first failed run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			for _, ec := range etlCommands {
				run, err := a.RunEntity(cmd.Context(), ec.entity, map[string]any{})
				writeRun(cmd.OutOrStdout(), run)
				if err != nil {
					return fmt.Errorf("%s failed: %w", ec.use, err)
				}
			}
			return nil
		},
	}
}

type runReport struct {
	RunID     string `json:"run_id"`
	Entity    string `json:"entity"`
	Status    string `json:"status"`
	Processed int    `json:"processed"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

func writeRun(w io.Writer, run *types.EtlRun) {
	if run == nil {
		return
	}
	enc := json.NewEncoder(w)
	_ = enc.Encode(runReport{
		RunID:     run.ID.String(),
		Entity:    run.Entity,
		Status:    run.Status,
		Processed: run.Processed,
		Inserted:  run.Inserted,
		Skipped:   run.Skipped,
		Failed:    run.Failed,
		Error:     run.Error,
	})
}
