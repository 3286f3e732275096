package pgscatalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Page is the cursor envelope shared by every paginated collection.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// LooseString accepts a JSON string, number or null. The catalog emits
// PMIDs as either depending on the endpoint.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = LooseString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}

// Ptr returns nil for an empty value.
func (s LooseString) Ptr() *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

type Trait struct {
	ID          string  `json:"id" validate:"required"`
	Label       string  `json:"label" validate:"required"`
	Description *string `json:"description"`
	URL         string  `json:"url" validate:"required"`
}

type TraitRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

type TraitCategory struct {
	Label     string     `json:"label" validate:"required"`
	EFOTraits []TraitRef `json:"efotraits"`
}

// PublicationSummary is the publication stub embedded in scores and
// performance records.
type PublicationSummary struct {
	ID      string      `json:"id"`
	PMID    LooseString `json:"PMID"`
	Journal string      `json:"journal"`
}

type Publication struct {
	ID              string      `json:"id" validate:"required"`
	Title           string      `json:"title"`
	Journal         string      `json:"journal"`
	FirstAuthor     string      `json:"firstauthor"`
	DatePublication *string     `json:"date_publication"`
	PMID            LooseString `json:"PMID"`
	DOI             *string     `json:"doi"`
}

type Cohort struct {
	NameShort string `json:"name_short"`
	NameFull  string `json:"name_full"`
}

type SampleAge struct {
	Estimate *float64 `json:"estimate"`
	Unit     *string  `json:"unit"`
}

type Sample struct {
	SampleNumber      *int        `json:"sample_number"`
	SampleCases       *int        `json:"sample_cases"`
	SampleControls    *int        `json:"sample_controls"`
	SamplePercentMale *float64    `json:"sample_percent_male"`
	SampleAge         *SampleAge  `json:"sample_age"`
	PhenotypingFree   *string     `json:"phenotyping_free"`
	AncestryBroad     string      `json:"ancestry_broad"`
	AncestryFree      *string     `json:"ancestry_free"`
	AncestryCountry   *string     `json:"ancestry_country"`
	SourceGWASCatalog *string     `json:"source_GWAS_catalog"`
	SourcePMID        LooseString `json:"source_PMID"`
	SourceDOI         *string     `json:"source_DOI"`
	Cohorts           []Cohort    `json:"cohorts"`
}

type Score struct {
	ID              string              `json:"id" validate:"required"`
	Name            string              `json:"name"`
	VariantsNumber  int                 `json:"variants_number"`
	Publication     *PublicationSummary `json:"publication"`
	TraitEFO        []TraitRef          `json:"trait_efo"`
	SamplesVariants []Sample            `json:"samples_variants"`
	SamplesTraining []Sample            `json:"samples_training"`
}

// AncestryCategory is one value of the symbol-keyed ancestry_categories map.
type AncestryCategory struct {
	DisplayCategory string `json:"display_category"`
}

type Metric struct {
	NameLong  string   `json:"name_long"`
	NameShort string   `json:"name_short"`
	Estimate  *float64 `json:"estimate"`
	CILower   *float64 `json:"ci_lower"`
	CIUpper   *float64 `json:"ci_upper"`
	SE        *float64 `json:"se"`
}

type PerformanceMetrics struct {
	EffectSizes  []Metric `json:"effect_sizes"`
	ClassAcc     []Metric `json:"class_acc"`
	OtherMetrics []Metric `json:"othermetrics"`
}

type SampleSet struct {
	ID      string   `json:"id"`
	Samples []Sample `json:"samples"`
}

type Performance struct {
	ID                  string              `json:"id" validate:"required"`
	AssociatedPGSID     string              `json:"associated_pgs_id"`
	PhenotypingReported *string             `json:"phenotyping_reported"`
	Covariates          *string             `json:"covariates"`
	Publication         *PublicationSummary `json:"publication"`
	SampleSet           *SampleSet          `json:"sampleset"`
	PerformanceMetrics  PerformanceMetrics  `json:"performance_metrics"`
}
