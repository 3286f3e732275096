package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/pgscatalog-etl/internal/data/repos/testutil"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
	"github.com/yungbote/pgscatalog-etl/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
)

func TestTraitRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTraitRepo(db, testutil.Logger(t))

	efo := &types.Trait{Label: "breast carcinoma", URL: "http://www.ebi.ac.uk/efo/EFO_0000305", EFOID: testutil.StrPtr("EFO_0000305")}
	mondo := &types.Trait{Label: "asthma", URL: "http://purl.obolibrary.org/obo/MONDO_0004979", MONDOID: testutil.StrPtr("MONDO_0004979")}
	for _, tr := range []*types.Trait{efo, mondo} {
		if _, err := repo.Create(dbc, tr); err != nil {
			t.Fatalf("Create(%s): %v", tr.Label, err)
		}
	}

	got, err := repo.GetByOntologyID(dbc, FieldEFO, "EFO_0000305")
	if err != nil || got == nil || got.ID != efo.ID {
		t.Fatalf("GetByOntologyID(efo): got=%v err=%v", got, err)
	}
	if got.OntologyID() != "EFO_0000305" {
		t.Fatalf("OntologyID: want EFO_0000305, got %q", got.OntologyID())
	}
	if got, err := repo.GetByOntologyID(dbc, FieldEFO, "MONDO_0004979"); err != nil || got != nil {
		t.Fatalf("GetByOntologyID(wrong field): want nil, got=%v err=%v", got, err)
	}
	if _, err := repo.GetByOntologyID(dbc, OntologyField("label; DROP TABLE trait"), "x"); err == nil {
		t.Fatalf("GetByOntologyID: expected error for unknown field")
	}

	rows, err := repo.FindByAnyOntologyID(dbc, []string{"EFO_0000305", "MONDO_0004979", "HP_0000001"})
	if err != nil || len(rows) != 2 {
		t.Fatalf("FindByAnyOntologyID: err=%v len=%d", err, len(rows))
	}

	if n, err := repo.Count(dbc); err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	dup := &types.Trait{Label: "dup", URL: "x", EFOID: testutil.StrPtr("EFO_0000305")}
	if _, err := repo.Create(dbc, dup); !errors.Is(err, pkgerrors.ErrDuplicate) {
		t.Fatalf("Create duplicate: want ErrDuplicate, got %v", err)
	}
}

func TestTraitCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTraitCategoryRepo(db, testutil.Logger(t))

	a := testutil.SeedTrait(t, ctx, tx, "EFO_0000305", "breast carcinoma")
	b := testutil.SeedTrait(t, ctx, tx, "EFO_0001645", "coronary artery disease")

	cat, err := repo.CreateWithTraits(dbc, &types.TraitCategory{Label: "Cancer"}, []*types.Trait{a, b})
	if err != nil {
		t.Fatalf("CreateWithTraits: %v", err)
	}

	got, err := repo.GetByLabel(dbc, "Cancer")
	if err != nil || got == nil || got.ID != cat.ID {
		t.Fatalf("GetByLabel: got=%v err=%v", got, err)
	}
	if len(got.Traits) != 2 {
		t.Fatalf("GetByLabel: expected 2 linked traits, got %d", len(got.Traits))
	}
	if got, err := repo.GetByLabel(dbc, "Missing"); err != nil || got != nil {
		t.Fatalf("GetByLabel(missing): got=%v err=%v", got, err)
	}

	var traitCount int64
	if err := tx.Model(&types.Trait{}).Count(&traitCount).Error; err != nil || traitCount != 2 {
		t.Fatalf("linking must not create traits: count=%d err=%v", traitCount, err)
	}
}
