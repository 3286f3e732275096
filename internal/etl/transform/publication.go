package transform

import (
	"strings"
	"time"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	types "github.com/yungbote/pgscatalog-etl/internal/domain"
)

var preprintServers = []string{"medrxiv", "biorxiv"}

func isPreprint(journal string) bool {
	j := strings.ToLower(journal)
	for _, p := range preprintServers {
		if strings.Contains(j, p) {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Publication derives year from the publication date (0 when absent), nulls
// the PMID of preprints and defaults a blank DOI to types.DOIPending.
func Publication(raw pgscatalog.Publication) (*types.Publication, error) {
	raw.ID = strings.TrimSpace(raw.ID)
	if err := check("publication", raw.ID, raw); err != nil {
		return nil, err
	}
	out := &types.Publication{
		PgpID:   raw.ID,
		Title:   raw.Title,
		Journal: raw.Journal,
		Author:  raw.FirstAuthor,
		DOI:     types.DOIPending,
	}
	if d := optString(raw.DatePublication); d != nil {
		date, err := parseDate(*d)
		if err != nil {
			return nil, invalid("publication", raw.ID, "date_publication %q: %v", *d, err)
		}
		date = date.UTC()
		out.Date = &date
		out.Year = date.Year()
	}
	if !isPreprint(raw.Journal) {
		out.PMID = raw.PMID.Ptr()
	}
	if doi := optString(raw.DOI); doi != nil {
		out.DOI = *doi
	}
	return out, nil
}
