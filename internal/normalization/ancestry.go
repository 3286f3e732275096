package normalization

import "strings"

// Broad ancestry group labels as published by the catalog's
// ancestry_categories endpoint.
const (
	GroupEuropean          = "European"
	GroupEastAsian         = "East Asian"
	GroupSouthAsian        = "South Asian"
	GroupAdditionalAsian   = "Additional Asian Ancestries"
	GroupAfrican           = "African"
	GroupGreaterMiddleEast = "Greater Middle Eastern"
	GroupHispanic          = "Hispanic or Latin American"
	GroupAdditionalDiverse = "Additional Diverse Ancestries"
	GroupMultiWithEuropean = "Multi-ancestry (including European)"
	GroupMultiNoEuropean   = "Multi-ancestry (excluding European)"
	GroupNotReported       = "Not Reported"
)

var broadAncestrySynonyms = map[string]string{
	"European": GroupEuropean,

	"East Asian":        GroupEastAsian,
	"South East Asian":  GroupEastAsian,
	"South Asian":       GroupSouthAsian,
	"Central Asian":     GroupAdditionalAsian,
	"Asian unspecified": GroupAdditionalAsian,

	"African":                            GroupAfrican,
	"African unspecified":                GroupAfrican,
	"Sub-Saharan African":                GroupAfrican,
	"African American or Afro-Caribbean": GroupAfrican,

	"Greater Middle Eastern":                                            GroupGreaterMiddleEast,
	"Greater Middle Eastern (Middle Eastern, North African or Persian)": GroupGreaterMiddleEast,

	"Hispanic or Latin American": GroupHispanic,

	"Oceanian":               GroupAdditionalDiverse,
	"Native American":        GroupAdditionalDiverse,
	"Other admixed ancestry": GroupAdditionalDiverse,
	"Other":                  GroupAdditionalDiverse,

	"Multi-ancestry (including European)": GroupMultiWithEuropean,
	"Multi-ancestry (excluding European)": GroupMultiNoEuropean,

	"NR":           GroupNotReported,
	"Not reported": GroupNotReported,
	"Not Reported": GroupNotReported,
}

// BroadAncestryGroup maps a raw ancestry_broad label onto its broad group.
// A comma separated list of known labels maps onto one of the multi-ancestry
// groups. ok is false when the label is unknown.
func BroadAncestryGroup(raw string) (group string, ok bool) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "", false
	}
	if g, found := broadAncestrySynonyms[label]; found {
		return g, true
	}
	if !strings.Contains(label, ",") {
		return "", false
	}
	withEuropean := false
	for _, part := range splitAncestryList(label) {
		g, found := broadAncestrySynonyms[part]
		if !found || g == GroupNotReported {
			return "", false
		}
		if g == GroupEuropean || g == GroupMultiWithEuropean {
			withEuropean = true
		}
	}
	if withEuropean {
		return GroupMultiWithEuropean, true
	}
	return GroupMultiNoEuropean, true
}

// splitAncestryList splits on commas that are not inside parentheses, so
// "Greater Middle Eastern (Middle Eastern, North African or Persian)" stays whole.
func splitAncestryList(label string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range label {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(label[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(label[start:]))
}
