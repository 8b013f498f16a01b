package coverageLayout

import (
	"strings"

	"variantstore/api/models/constants"
)

const (
	Unknown  constants.CoverageLayout = "unknown"
	Simple   constants.CoverageLayout = "simple"
	Sambamba constants.CoverageLayout = "sambamba"
)

// Columns holds the positions of the fixed (non-threshold) coverage columns.
type Columns struct {
	Amplicon     int
	NumReads     int
	MeanCoverage int
}

func CastToCoverageLayout(text string) constants.CoverageLayout {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "simple", "":
		return Simple
	case "sambamba":
		return Sambamba
	default:
		return Unknown
	}
}

// ColumnsOf returns the fixed column positions for a layout.
// sambamba region output is prefixed by chrom, chromStart and chromEnd.
func ColumnsOf(layout constants.CoverageLayout) Columns {
	switch layout {
	case Sambamba:
		return Columns{Amplicon: 3, NumReads: 4, MeanCoverage: 5}
	default:
		return Columns{Amplicon: 0, NumReads: 1, MeanCoverage: 2}
	}
}
