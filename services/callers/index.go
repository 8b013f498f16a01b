package callers

import (
	"fmt"
	"path/filepath"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
	"variantstore/api/models/constants/requirement"
	"variantstore/api/utils"
)

// Index maps each active caller to its records for one sample.
// It is built once per unit of work and never shared between samples.
type Index struct {
	records map[constants.Caller]map[models.Locus]*Record
}

func NewIndex() *Index {
	return &Index{records: map[constants.Caller]map[models.Locus]*Record{}}
}

// Add registers a caller's records; nil records registers an empty index.
func (ix *Index) Add(c constants.Caller, records map[models.Locus]*Record) {
	if records == nil {
		records = map[models.Locus]*Record{}
	}
	ix.records[c] = records
}

// Has reports whether the caller was active for this sample.
func (ix *Index) Has(c constants.Caller) bool {
	_, ok := ix.records[c]
	return ok
}

func (ix *Index) Lookup(c constants.Caller, l models.Locus) (*Record, bool) {
	byLocus, ok := ix.records[c]
	if !ok {
		return nil, false
	}
	rec, ok := byLocus[l]
	return rec, ok
}

func (ix *Index) Size(c constants.Caller) int {
	return len(ix.records[c])
}

// NormalizedVcfPath is the upstream naming convention for one caller's output.
func NormalizedVcfPath(dir string, sample string, c constants.Caller) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s.normalized.vcf", sample, c))
}

// BuildIndex reads every active caller's normalized file before any lookup happens.
// A missing or malformed file for a required caller is fatal; a missing file for
// an optional caller yields an empty index.
func BuildIndex(dir string, sample string, policy map[constants.Caller]constants.Requirement) (*Index, error) {
	ix := NewIndex()

	// deterministic read order keeps logs comparable between runs
	for _, c := range caller.All {
		req, active := policy[c]
		if !active {
			continue
		}

		path, found := utils.ResolveVcfPath(NormalizedVcfPath(dir, sample, c))
		if !found {
			if req == requirement.Optional {
				log.Printf("%s: no %s calls found at %s, continuing with an empty index", sample, c, path)
				ix.Add(c, nil)
				continue
			}
			return nil, errors.Errorf("%s: required %s calls not found at %s", sample, c, path)
		}

		records, err := readFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: reading %s calls", sample, c)
		}
		ix.Add(c, records)
		log.Debug.Printf("%s: indexed %d %s records", sample, len(records), c)
	}
	return ix, nil
}

func readFile(path string) (map[models.Locus]*Record, error) {
	f, err := utils.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f, filepath.Base(path))
}
