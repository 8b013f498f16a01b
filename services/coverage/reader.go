package coverage

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"

	"variantstore/api/models/constants"
	coverageLayout "variantstore/api/models/constants/coverage-layout"
)

// ThresholdPrefix marks a "percent of bases covered at >= N reads" column; N follows the prefix.
const ThresholdPrefix = "percentage"

// Row is one amplicon's coverage.
type Row struct {
	Amplicon     string
	NumReads     int
	MeanCoverage float64
	Percentages  map[int]float64
	Line         int
}

// RowError reports a data row whose values cannot be read. It fails that row only.
type RowError struct {
	Line     int
	Amplicon string
	Reason   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("coverage row %d (amplicon %q): %s", e.Line, e.Amplicon, e.Reason)
}

type Reader struct {
	Header     []string
	Thresholds []int

	tsv           *tsv.Reader
	columns       coverageLayout.Columns
	thresholdCols []int
	line          int
}

// ParseThresholdHeader finds the threshold columns of a header, in header
// order. A threshold column whose suffix is not an integer, or a threshold
// that appears twice, makes the whole table unusable.
func ParseThresholdHeader(header []string) ([]int, []int, error) {
	var thresholds, cols []int
	seen := map[int]int{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, ThresholdPrefix) {
			continue
		}
		threshold, err := strconv.Atoi(strings.TrimPrefix(name, ThresholdPrefix))
		if err != nil {
			return nil, nil, fmt.Errorf("coverage column %d %q is not %s<integer>", i, name, ThresholdPrefix)
		}
		if prev, dup := seen[threshold]; dup {
			return nil, nil, fmt.Errorf("coverage columns %d and %d both report threshold %d", prev, i, threshold)
		}
		seen[threshold] = i
		thresholds = append(thresholds, threshold)
		cols = append(cols, i)
	}
	return thresholds, cols, nil
}

// NewReader reads the header row of a tab-delimited coverage table.
func NewReader(r io.Reader, layout constants.CoverageLayout) (*Reader, error) {
	t := tsv.NewReader(r)
	t.Reader.Comma = '\t'
	t.Reader.FieldsPerRecord = -1
	t.Reader.LazyQuotes = true

	header, err := t.Reader.Read()
	if err == io.EOF {
		return nil, errors.New("coverage table is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading coverage header")
	}
	header = append([]string(nil), header...)

	thresholds, cols, err := ParseThresholdHeader(header)
	if err != nil {
		return nil, err
	}

	columns := coverageLayout.ColumnsOf(layout)
	if len(header) <= columns.MeanCoverage {
		return nil, fmt.Errorf("coverage header has %d columns, the %s layout needs at least %d", len(header), layout, columns.MeanCoverage+1)
	}

	return &Reader{
		Header:        header,
		Thresholds:    thresholds,
		tsv:           t,
		columns:       columns,
		thresholdCols: cols,
		line:          1,
	}, nil
}

// Next returns the next row, a *RowError for an unreadable row, or io.EOF.
func (r *Reader) Next() (*Row, error) {
	record, err := r.tsv.Reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading coverage table")
	}
	r.line++

	row := &Row{Line: r.line, Percentages: make(map[int]float64, len(r.Thresholds))}
	if len(record) > r.columns.Amplicon {
		row.Amplicon = strings.TrimSpace(record[r.columns.Amplicon])
	}

	fail := func(format string, args ...interface{}) (*Row, error) {
		return row, &RowError{Line: r.line, Amplicon: row.Amplicon, Reason: fmt.Sprintf(format, args...)}
	}

	if len(record) < len(r.Header) {
		return fail("expected %d columns, found %d", len(r.Header), len(record))
	}
	if row.Amplicon == "" {
		return fail("empty amplicon name")
	}

	if row.NumReads, err = strconv.Atoi(strings.TrimSpace(record[r.columns.NumReads])); err != nil {
		return fail("read count %q is not an integer", record[r.columns.NumReads])
	}
	if row.MeanCoverage, err = strconv.ParseFloat(strings.TrimSpace(record[r.columns.MeanCoverage]), 64); err != nil {
		return fail("mean coverage %q is not a number", record[r.columns.MeanCoverage])
	}
	for i, col := range r.thresholdCols {
		pct, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return fail("%s value %q is not a number", r.Header[col], record[col])
		}
		row.Percentages[r.Thresholds[i]] = pct
	}
	return row, nil
}
