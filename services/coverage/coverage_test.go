package coverage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variantstore/api/models"
	coverageLayout "variantstore/api/models/constants/coverage-layout"
	"variantstore/api/models/indexes"
)

func TestThresholdCoverage(t *testing.T) {
	table := "amplicon\treads\tmean_cov\tpercentage20\tpercentage100\n" +
		"EGFR_3\t1500\t812.5\t95.0\t10.0\n"

	r, err := NewReader(strings.NewReader(table), coverageLayout.Simple)
	require.Nil(t, err)
	assert.Equal(t, []int{20, 100}, r.Thresholds)

	row, err := r.Next()
	require.Nil(t, err)
	assert.Equal(t, "EGFR_3", row.Amplicon)
	assert.Equal(t, 1500, row.NumReads)
	assert.Equal(t, 812.5, row.MeanCoverage)
	assert.Equal(t, map[int]float64{20: 95.0, 100: 10.0}, row.Percentages)
	assert.Equal(t, 2, row.Line)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	b := &Builder{
		Sample:        &models.Sample{SampleName: "S1", LibraryName: "LIB1", RunId: "RUN1", NumLibrariesInRun: 12, Panel: "CHP2"},
		Program:       "sambamba",
		Thresholds:    r.Thresholds,
		AmpliconIndex: "amplicon-coverage",
		SampleIndex:   "sample-coverage",
	}
	amplicon, sample := b.Records(row)

	assert.Equal(t, "amplicon-coverage", amplicon.Index)
	assert.Equal(t, "sample-coverage", sample.Index)
	assert.Contains(t, amplicon.Identity, "EGFR_3")

	ampDoc := amplicon.Body.(*indexes.AmpliconCoverage)
	sampleDoc := sample.Body.(*indexes.SampleCoverage)
	for _, fields := range []indexes.CoverageFields{ampDoc.CoverageFields, sampleDoc.CoverageFields} {
		assert.Equal(t, []int{20, 100}, fields.Thresholds)
		assert.Equal(t, map[int]float64{20: 95.0, 100: 10.0}, fields.PercBpCovAtThresholds)
		assert.Equal(t, "S1", fields.Sample)
		assert.Equal(t, "EGFR_3", fields.Amplicon)
		assert.Equal(t, "sambamba", fields.ProgramName)
		assert.Equal(t, 12, fields.NumLibrariesInRun)
	}
}

func TestBadThresholdHeaderIsFatal(t *testing.T) {
	_, err := NewReader(strings.NewReader("amplicon\treads\tmean_cov\tpercentage20x\n"), coverageLayout.Simple)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "percentage20x")

	_, err = NewReader(strings.NewReader(""), coverageLayout.Simple)
	assert.NotNil(t, err)

	_, err = NewReader(strings.NewReader("amplicon\treads\n"), coverageLayout.Simple)
	assert.NotNil(t, err)
}

func TestSambambaLayout(t *testing.T) {
	table := "# chrom\tchromStart\tchromEnd\tF4\treadCount\tmeanCoverage\tpercentage1\tpercentage50\tsampleName\n" +
		"chr7\t55241600\t55241750\tEGFR_18\t431\t287.3\t100\t99.3\tS1\n" +
		"chr7\t55242400\t55242550\tEGFR_19\tmany\t12.0\t100\t20.1\tS1\n" +
		"chr7\t55248980\t55249100\tEGFR_20\t97\t64.0\t100\t40.5\tS1\n"

	r, err := NewReader(strings.NewReader(table), coverageLayout.Sambamba)
	require.Nil(t, err)
	assert.Equal(t, []int{1, 50}, r.Thresholds)

	first, err := r.Next()
	require.Nil(t, err)
	assert.Equal(t, "EGFR_18", first.Amplicon)
	assert.Equal(t, 431, first.NumReads)
	assert.Equal(t, 99.3, first.Percentages[50])

	// a malformed row fails alone
	bad, err := r.Next()
	require.NotNil(t, err)
	rowErr, ok := err.(*RowError)
	require.True(t, ok)
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "EGFR_19", bad.Amplicon)

	third, err := r.Next()
	require.Nil(t, err)
	assert.Equal(t, "EGFR_20", third.Amplicon)
	assert.Equal(t, 4, third.Line)
}

func TestShortRowIsMalformed(t *testing.T) {
	r, err := NewReader(strings.NewReader("amplicon\treads\tmean_cov\tpercentage20\nKRAS_2\t10\n"), coverageLayout.Simple)
	require.Nil(t, err)

	_, err = r.Next()
	_, ok := err.(*RowError)
	assert.True(t, ok)
}

func TestParseThresholdHeader(t *testing.T) {
	thresholds, cols, err := ParseThresholdHeader([]string{"amplicon", "percentage5", "x", "percentage200"})
	require.Nil(t, err)
	assert.Equal(t, []int{5, 200}, thresholds)
	assert.Equal(t, []int{1, 3}, cols)

	// header order is kept, not sorted
	thresholds, cols, err = ParseThresholdHeader([]string{"amplicon", "reads", "mean_cov", "percentage100", "percentage20", "percentage50"})
	require.Nil(t, err)
	assert.Equal(t, []int{100, 20, 50}, thresholds)
	assert.Equal(t, []int{3, 4, 5}, cols)

	_, _, err = ParseThresholdHeader([]string{"amplicon", "percentage20", "percentage100", "percentage20"})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "threshold 20")
}

func TestUnsortedThresholdsKeepHeaderOrder(t *testing.T) {
	table := "amplicon\treads\tmean_cov\tpercentage100\tpercentage20\n" +
		"KRAS_2\t900\t300.0\t12.5\t97.0\n"

	r, err := NewReader(strings.NewReader(table), coverageLayout.Simple)
	require.Nil(t, err)
	assert.Equal(t, []int{100, 20}, r.Thresholds)

	row, err := r.Next()
	require.Nil(t, err)
	assert.Equal(t, map[int]float64{100: 12.5, 20: 97.0}, row.Percentages)

	b := &Builder{
		Sample:        &models.Sample{SampleName: "S1", LibraryName: "LIB1", RunId: "RUN1", NumLibrariesInRun: 4},
		Program:       "sambamba",
		Thresholds:    r.Thresholds,
		AmpliconIndex: "amplicon-coverage",
		SampleIndex:   "sample-coverage",
	}
	amplicon, _ := b.Records(row)
	assert.Equal(t, []int{100, 20}, amplicon.Body.(*indexes.AmpliconCoverage).Thresholds)
}

func TestRepeatedThresholdColumnIsFatal(t *testing.T) {
	table := "amplicon\treads\tmean_cov\tpercentage20\tpercentage20\n" +
		"KRAS_2\t900\t300.0\t95.0\t96.0\n"

	_, err := NewReader(strings.NewReader(table), coverageLayout.Simple)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "threshold 20")
}
