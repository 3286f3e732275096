package transform

import (
	"strings"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

type Namespace string

const (
	NamespaceEFO   Namespace = "EFO"
	NamespaceMONDO Namespace = "MONDO"
	NamespaceHPO   Namespace = "HPO"
	NamespaceOrpha Namespace = "ORPHA"
	NamespaceOther Namespace = "OTHER"
)

// Prefixes are tried in order; the first match wins. OBA_ ids land in the
// Orpha column.
var namespacePrefixes = []struct {
	prefix string
	ns     Namespace
}{
	{"EFO_", NamespaceEFO},
	{"MONDO_", NamespaceMONDO},
	{"HP_", NamespaceHPO},
	{"OBA_", NamespaceOrpha},
}

func ClassifyOntologyID(id string) Namespace {
	for _, p := range namespacePrefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.ns
		}
	}
	return NamespaceOther
}

func Trait(raw pgscatalog.Trait) (*types.Trait, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("trait", raw.ID, raw); err != nil {
		return nil, err
	}
	out := &types.Trait{
		Label:       raw.Label,
		Description: optString(raw.Description),
		URL:         raw.URL,
	}
	id := raw.ID
	switch ClassifyOntologyID(id) {
	case NamespaceEFO:
		out.EFOID = &id
	case NamespaceMONDO:
		out.MONDOID = &id
	case NamespaceHPO:
		out.HPOID = &id
	case NamespaceOrpha:
		out.OrphaID = &id
	default:
		out.OtherID = &id
	}
	return out, nil
}

type TraitCategoryRecord struct {
	Label    string
	TraitIDs []string
}

func TraitCategory(raw pgscatalog.TraitCategory) (*TraitCategoryRecord, error) {
	if err := check("trait_category", raw.Label, raw); err != nil {
		return nil, err
	}
	out := &TraitCategoryRecord{Label: raw.Label, TraitIDs: make([]string, 0, len(raw.EFOTraits))}
	for _, t := range raw.EFOTraits {
		if id := strings.TrimSpace(t.ID); id != "" {
			out.TraitIDs = append(out.TraitIDs, id)
		}
	}
	return out, nil
}
