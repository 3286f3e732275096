package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

func StrPtr(s string) *string { return &s }

func SeedTrait(tb testing.TB, ctx context.Context, tx *gorm.DB, efoID, label string) *types.Trait {
	tb.Helper()
	t := &types.Trait{
		ID:    uuid.New(),
		Label: label,
		URL:   "http://www.ebi.ac.uk/efo/" + efoID,
		EFOID: StrPtr(efoID),
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed trait: %v", err)
	}
	return t
}

func SeedPublication(tb testing.TB, ctx context.Context, tx *gorm.DB, pgpID string, pmid *string) *types.Publication {
	tb.Helper()
	p := &types.Publication{
		ID:      uuid.New(),
		PgpID:   pgpID,
		Title:   "title " + pgpID,
		Journal: "Nat Genet",
		Author:  "Doe J",
		PMID:    pmid,
		DOI:     "10.1000/" + pgpID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed publication: %v", err)
	}
	return p
}

func SeedPRSModel(tb testing.TB, ctx context.Context, tx *gorm.DB, pgscID string, publicationID uuid.UUID) *types.PRSModel {
	tb.Helper()
	m := &types.PRSModel{
		ID:            uuid.New(),
		PgscID:        pgscID,
		Name:          "model " + pgscID,
		NumberOfSNP:   10,
		PgscURL:       "https://www.pgscatalog.org/score/" + pgscID + "/",
		PublicationID: publicationID,
	}
	if err := tx.WithContext(ctx).Omit("Publication").Create(m).Error; err != nil {
		tb.Fatalf("seed prs model: %v", err)
	}
	return m
}

func SeedAncestryCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, symbol, label string) *types.BroadAncestryCategory {
	tb.Helper()
	c := &types.BroadAncestryCategory{ID: uuid.New(), Symbol: symbol, Label: label}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed ancestry category: %v", err)
	}
	return c
}
