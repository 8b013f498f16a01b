package indexes

import (
	"time"
)

// Record is one document bound for one collection.
// Identity is the human readable key written to the outcome log on failure.
type Record struct {
	Index    string
	Id       string
	Identity string
	Body     interface{}
}

// Variant is stored twice per reconciled variant: once in the run-scoped
// collection and once in the canonical historical collection.
type Variant struct {
	ReferenceGenome string `json:"referenceGenome"`
	GenomeVersion   string `json:"genomeVersion"`
	Chrom           string `json:"chrom"`
	Pos             int    `json:"pos"`
	End             int    `json:"end"`
	Ref             string `json:"ref"`
	Alt             string `json:"alt"`

	Sample      string `json:"sample"`
	LibraryName string `json:"libraryName"`
	RunId       string `json:"runId"`
	Extraction  string `json:"extraction"`
	PanelName   string `json:"panelName"`
	TargetPool  string `json:"targetPool"`
	Sequencer   string `json:"sequencer"`

	RsId          string    `json:"rsId"`
	DateAnnotated time.Time `json:"dateAnnotated"`
	Type          string    `json:"type"`
	SubType       string    `json:"subType"`

	Gene        string `json:"gene"`
	Transcript  string `json:"transcript"`
	Exon        string `json:"exon"`
	CodonChange string `json:"codonChange"`
	Biotype     string `json:"biotype"`
	AaChange    string `json:"aaChange"`
	Severity    string `json:"severity"`
	Impact      string `json:"impact"`
	ImpactSo    string `json:"impactSo"`

	MaxMafAll       float64            `json:"maxMafAll"`
	MaxMafNoFin     float64            `json:"maxMafNoFin"`
	TranscriptsData map[string]string  `json:"transcriptsData"`
	ClinvarData     map[string]string  `json:"clinvarData"`
	CosmicData      map[string]string  `json:"cosmicData"`
	PopulationFreqs map[string]float64 `json:"populationFreqs"`
	AmpliconData    map[string]string  `json:"ampliconData"`
	RsIds           []string           `json:"rsIds"`
	CosmicIds       []string           `json:"cosmicIds"`

	InClinvar    bool `json:"inClinvar"`
	InCosmic     bool `json:"inCosmic"`
	IsPathogenic bool `json:"isPathogenic"`
	IsLof        bool `json:"isLof"`
	IsCoding     bool `json:"isCoding"`
	IsSplicing   bool `json:"isSplicing"`

	Callers    []string                     `json:"callers"`
	MaxSomAaf  float64                      `json:"maxSomAaf"`
	MinDepth   int                          `json:"minDepth"`
	MaxDepth   int                          `json:"maxDepth"`
	CallerData map[string]map[string]string `json:"callerData"`
}

// CoverageFields are shared by both coverage shapes.
type CoverageFields struct {
	Sample                string          `json:"sample"`
	LibraryName           string          `json:"libraryName"`
	RunId                 string          `json:"runId"`
	NumLibrariesInRun     int             `json:"numLibrariesInRun"`
	SequencerId           string          `json:"sequencerId"`
	ProgramName           string          `json:"programName"`
	Extraction            string          `json:"extraction"`
	Panel                 string          `json:"panel"`
	TargetPool            string          `json:"targetPool"`
	Amplicon              string          `json:"amplicon"`
	NumReads              int             `json:"numReads"`
	MeanCoverage          float64         `json:"meanCoverage"`
	Thresholds            []int           `json:"thresholds"`
	PercBpCovAtThresholds map[int]float64 `json:"percBpCovAtThresholds"`
}

// AmpliconCoverage is keyed by amplicon then sample.
type AmpliconCoverage struct {
	CoverageFields
}

// SampleCoverage is keyed by sample, amplicon agnostic.
type SampleCoverage struct {
	CoverageFields
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_KEYWORD = map[string]interface{}{"type": "keyword"}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_FLOAT64 = map[string]interface{}{"type": "double"}
var MAPPING_BOOL = map[string]interface{}{"type": "boolean"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}

// free-form key/value blocks; every value is indexed as a keyword
var MAPPING_FLAT_OBJECT = map[string]interface{}{
	"type":    "object",
	"dynamic": true,
}

var VARIANT_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"referenceGenome": MAPPING_KEYWORD,
		"genomeVersion":   MAPPING_KEYWORD,
		"chrom":           MAPPING_KEYWORD,
		"pos":             MAPPING_LONG,
		"end":             MAPPING_LONG,
		"ref":             MAPPING_KEYWORD,
		"alt":             MAPPING_KEYWORD,

		"sample":      MAPPING_KEYWORD,
		"libraryName": MAPPING_KEYWORD,
		"runId":       MAPPING_KEYWORD,
		"extraction":  MAPPING_KEYWORD,
		"panelName":   MAPPING_KEYWORD,
		"targetPool":  MAPPING_KEYWORD,
		"sequencer":   MAPPING_KEYWORD,

		"rsId":          MAPPING_TEXT,
		"dateAnnotated": MAPPING_DATE,
		"type":          MAPPING_KEYWORD,
		"subType":       MAPPING_KEYWORD,

		"gene":        MAPPING_KEYWORD,
		"transcript":  MAPPING_KEYWORD,
		"exon":        MAPPING_TEXT,
		"codonChange": MAPPING_TEXT,
		"biotype":     MAPPING_KEYWORD,
		"aaChange":    MAPPING_TEXT,
		"severity":    MAPPING_KEYWORD,
		"impact":      MAPPING_KEYWORD,
		"impactSo":    MAPPING_TEXT,

		"maxMafAll":       MAPPING_FLOAT64,
		"maxMafNoFin":     MAPPING_FLOAT64,
		"transcriptsData": MAPPING_FLAT_OBJECT,
		"clinvarData":     MAPPING_FLAT_OBJECT,
		"cosmicData":      MAPPING_FLAT_OBJECT,
		"populationFreqs": MAPPING_FLAT_OBJECT,
		"ampliconData":    MAPPING_FLAT_OBJECT,
		"rsIds":           MAPPING_KEYWORD,
		"cosmicIds":       MAPPING_KEYWORD,

		"inClinvar":    MAPPING_BOOL,
		"inCosmic":     MAPPING_BOOL,
		"isPathogenic": MAPPING_BOOL,
		"isLof":        MAPPING_BOOL,
		"isCoding":     MAPPING_BOOL,
		"isSplicing":   MAPPING_BOOL,

		"callers":    MAPPING_KEYWORD,
		"maxSomAaf":  MAPPING_FLOAT64,
		"minDepth":   MAPPING_LONG,
		"maxDepth":   MAPPING_LONG,
		"callerData": MAPPING_FLAT_OBJECT,
	},
}

var COVERAGE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"sample":                MAPPING_KEYWORD,
		"libraryName":           MAPPING_KEYWORD,
		"runId":                 MAPPING_KEYWORD,
		"numLibrariesInRun":     MAPPING_LONG,
		"sequencerId":           MAPPING_KEYWORD,
		"programName":           MAPPING_KEYWORD,
		"extraction":            MAPPING_KEYWORD,
		"panel":                 MAPPING_KEYWORD,
		"targetPool":            MAPPING_KEYWORD,
		"amplicon":              MAPPING_KEYWORD,
		"numReads":              MAPPING_LONG,
		"meanCoverage":          MAPPING_FLOAT64,
		"thresholds":            MAPPING_LONG,
		"percBpCovAtThresholds": MAPPING_FLAT_OBJECT,
	},
}
