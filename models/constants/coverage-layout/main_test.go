package coverageLayout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCastToCoverageLayout(t *testing.T) {
	assert.Equal(t, Simple, CastToCoverageLayout(""))
	assert.Equal(t, Sambamba, CastToCoverageLayout(" Sambamba "))
	assert.Equal(t, Unknown, CastToCoverageLayout("mosdepth"))

	assert.Equal(t, Columns{Amplicon: 3, NumReads: 4, MeanCoverage: 5}, ColumnsOf(Sambamba))
	assert.Equal(t, Columns{Amplicon: 0, NumReads: 1, MeanCoverage: 2}, ColumnsOf(Simple))
}
