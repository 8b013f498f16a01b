package coverage

import (
	"fmt"

	"github.com/google/uuid"

	"variantstore/api/models"
	"variantstore/api/models/indexes"
)

// Builder maps coverage rows onto the per-amplicon and per-sample record shapes.
type Builder struct {
	Sample        *models.Sample
	Program       string
	Thresholds    []int
	AmpliconIndex string
	SampleIndex   string
}

func (b *Builder) Identity(row *Row) string {
	return fmt.Sprintf("amplicon %s (line %d)", row.Amplicon, row.Line)
}

// Records returns the amplicon-keyed and the sample-keyed record for one row.
func (b *Builder) Records(row *Row) (indexes.Record, indexes.Record) {
	s := b.Sample
	fields := indexes.CoverageFields{
		Sample:                s.SampleName,
		LibraryName:           s.LibraryName,
		RunId:                 s.RunId,
		NumLibrariesInRun:     s.NumLibrariesInRun,
		SequencerId:           s.Sequencer,
		ProgramName:           b.Program,
		Extraction:            s.Extraction,
		Panel:                 s.Panel,
		TargetPool:            s.TargetPool,
		Amplicon:              row.Amplicon,
		NumReads:              row.NumReads,
		MeanCoverage:          row.MeanCoverage,
		Thresholds:            b.Thresholds,
		PercBpCovAtThresholds: row.Percentages,
	}

	identity := b.Identity(row)
	amplicon := indexes.Record{
		Index:    b.AmpliconIndex,
		Id:       documentId(fmt.Sprintf("%s|%s|%s|%s|%s", row.Amplicon, s.SampleName, s.LibraryName, s.RunId, b.Program)),
		Identity: identity,
		Body:     &indexes.AmpliconCoverage{CoverageFields: fields},
	}
	sample := indexes.Record{
		Index:    b.SampleIndex,
		Id:       documentId(fmt.Sprintf("%s|%s|%s|%s|%s", s.SampleName, s.LibraryName, s.RunId, b.Program, row.Amplicon)),
		Identity: identity,
		Body:     &indexes.SampleCoverage{CoverageFields: fields},
	}
	return amplicon, sample
}

func documentId(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
