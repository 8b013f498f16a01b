package models

import (
	"math"
	"strconv"
	"strings"

	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
)

// Storage sentinels. Reconciliation tracks absence explicitly and only
// converts to these when a record is assembled.
const (
	UnknownAAF   float64 = -1.0
	UnknownDepth int     = -1
	UnknownMaf   float64 = -1.0
)

// Metric names every caller parser is expected to provide.
const (
	MetricAAF   = "AAF"
	MetricDepth = "DP"
)

// CallerMetrics holds one caller's parsed values for one locus.
type CallerMetrics map[string]string

func (m CallerMetrics) AAF() (float64, bool) {
	v, ok := m[MetricAAF]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func (m CallerMetrics) Depth() (int, bool) {
	v, ok := m[MetricDepth]
	if !ok {
		return 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		// some callers emit depths as floats, i.e. "120.0"
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if ferr != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
			return 0, false
		}
		d = int(f)
	}
	if d < 0 || d > math.MaxInt32 {
		return 0, false
	}
	return d, true
}

// Tracked is a value that may never have been observed.
type Tracked[T int | float64] struct {
	Value T
	Set   bool
}

func (t Tracked[T]) Or(unknown T) T {
	if !t.Set {
		return unknown
	}
	return t.Value
}

// ConsensusStats aggregates the metrics of every caller that reported a locus.
// CallerData always has one entry per known caller; callers that did not
// report the locus map to an empty CallerMetrics.
type ConsensusStats struct {
	MaxSomAAF  Tracked[float64]
	MinDepth   Tracked[int]
	MaxDepth   Tracked[int]
	CallerData map[constants.Caller]CallerMetrics
}

func NewConsensusStats() ConsensusStats {
	data := make(map[constants.Caller]CallerMetrics, len(caller.All))
	for _, c := range caller.All {
		data[c] = CallerMetrics{}
	}
	return ConsensusStats{CallerData: data}
}

// Effect is one functional consequence from the annotation, keyed by the
// annotation header's field names (Allele, Annotation, Annotation_Impact, ...).
type Effect map[string]string

type TopImpact struct {
	Gene           string `json:"gene"`
	Transcript     string `json:"transcript"`
	Exon           string `json:"exon"`
	CodonChange    string `json:"codonChange"`
	Biotype        string `json:"biotype"`
	AaChange       string `json:"aaChange"`
	Severity       string `json:"severity"`
	TopConsequence string `json:"topConsequence"`
	So             string `json:"so"`
}

// AnnotatedVariant is one entry of the annotated variant stream.
type AnnotatedVariant struct {
	Locus   Locus
	RsId    string
	Callers []string
	Effects []Effect

	Type    string
	SubType string

	MaxMafAll       float64
	MaxMafNoFin     float64
	PopulationFreqs map[string]float64
	ClinvarData     map[string]string
	CosmicData      map[string]string
	AmpliconData    map[string]string
	TranscriptsData map[string]string
	RsIds           []string
	CosmicIds       []string

	InClinvar    bool
	InCosmic     bool
	IsPathogenic bool
	IsLof        bool
	IsCoding     bool
	IsSplicing   bool

	// 1-based line in the annotated file, for failure reporting
	Line int
}

// ReconciledVariant is the consensus view of one annotated variant for one sample.
type ReconciledVariant struct {
	Locus      Locus
	Sample     *Sample
	Annotation *AnnotatedVariant
	TopImpact  TopImpact
	Stats      ConsensusStats
	Callers    []constants.Caller
}
