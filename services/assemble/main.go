package assemble

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
	"variantstore/api/models/indexes"
)

// Assembler maps reconciled variants onto the run-scoped and canonical record shapes.
type Assembler struct {
	Genome constants.AssemblyId
	// GenomeVersion is the raw build string the genome was normalized from
	GenomeVersion  string
	Sample         *models.Sample
	RunIndex       string
	CanonicalIndex string
	Now            func() time.Time
}

// New fails when the sample lacks required metadata; that is a configuration
// error for the whole unit of work.
func New(genome constants.AssemblyId, sample *models.Sample, runIndex string, canonicalIndex string) (*Assembler, error) {
	if sample == nil {
		return nil, errors.New("no sample metadata supplied")
	}
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	if genome == "" {
		return nil, errors.New("no reference genome build configured")
	}
	if runIndex == "" || canonicalIndex == "" {
		return nil, errors.New("variant collections are not configured")
	}
	return &Assembler{
		Genome:         genome,
		Sample:         sample,
		RunIndex:       runIndex,
		CanonicalIndex: canonicalIndex,
		Now:            time.Now,
	}, nil
}

// Assemble returns the run-scoped and the canonical record for one variant.
// The two bodies are identical; only their collection differs.
func (a *Assembler) Assemble(rv *models.ReconciledVariant) (indexes.Record, indexes.Record) {
	doc := a.document(rv)
	s := a.Sample

	// one document per locus per library run in each collection; re-running a
	// sample overwrites instead of duplicating
	id := documentId(fmt.Sprintf("%s|%s|%s|%s|%s", a.Genome, s.SampleName, s.LibraryName, s.RunId, rv.Locus))

	identity := fmt.Sprintf("%s (sample %s, library %s)", rv.Locus, s.SampleName, s.LibraryName)

	run := indexes.Record{
		Index:    a.RunIndex,
		Id:       id,
		Identity: identity,
		Body:     doc,
	}
	canonical := indexes.Record{
		Index:    a.CanonicalIndex,
		Id:       id,
		Identity: identity,
		Body:     doc,
	}
	return run, canonical
}

func documentId(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func (a *Assembler) document(rv *models.ReconciledVariant) *indexes.Variant {
	s := a.Sample
	av := rv.Annotation
	if av == nil {
		av = &models.AnnotatedVariant{Locus: rv.Locus, MaxMafAll: models.UnknownMaf, MaxMafNoFin: models.UnknownMaf}
	}

	callerNames := make([]string, 0, len(rv.Callers))
	for _, c := range rv.Callers {
		callerNames = append(callerNames, string(c))
	}

	callerData := make(map[string]map[string]string, len(caller.All))
	for _, c := range caller.All {
		metrics := rv.Stats.CallerData[c]
		if metrics == nil {
			metrics = models.CallerMetrics{}
		}
		callerData[string(c)] = metrics
	}

	return &indexes.Variant{
		ReferenceGenome: string(a.Genome),
		GenomeVersion:   a.GenomeVersion,
		Chrom:           rv.Locus.Chrom,
		Pos:             rv.Locus.Start,
		End:             rv.Locus.End,
		Ref:             rv.Locus.Ref,
		Alt:             rv.Locus.Alt,

		Sample:      s.SampleName,
		LibraryName: s.LibraryName,
		RunId:       s.RunId,
		Extraction:  s.Extraction,
		PanelName:   s.Panel,
		TargetPool:  s.TargetPool,
		Sequencer:   s.Sequencer,

		RsId:          av.RsId,
		DateAnnotated: a.Now().UTC(),
		Type:          av.Type,
		SubType:       av.SubType,

		Gene:        rv.TopImpact.Gene,
		Transcript:  rv.TopImpact.Transcript,
		Exon:        rv.TopImpact.Exon,
		CodonChange: rv.TopImpact.CodonChange,
		Biotype:     rv.TopImpact.Biotype,
		AaChange:    rv.TopImpact.AaChange,
		Severity:    rv.TopImpact.Severity,
		Impact:      rv.TopImpact.TopConsequence,
		ImpactSo:    rv.TopImpact.So,

		MaxMafAll:       av.MaxMafAll,
		MaxMafNoFin:     av.MaxMafNoFin,
		TranscriptsData: av.TranscriptsData,
		ClinvarData:     av.ClinvarData,
		CosmicData:      av.CosmicData,
		PopulationFreqs: av.PopulationFreqs,
		AmpliconData:    av.AmpliconData,
		RsIds:           av.RsIds,
		CosmicIds:       av.CosmicIds,

		InClinvar:    av.InClinvar,
		InCosmic:     av.InCosmic,
		IsPathogenic: av.IsPathogenic,
		IsLof:        av.IsLof,
		IsCoding:     av.IsCoding,
		IsSplicing:   av.IsSplicing,

		Callers:    callerNames,
		MaxSomAaf:  rv.Stats.MaxSomAAF.Or(models.UnknownAAF),
		MinDepth:   rv.Stats.MinDepth.Or(models.UnknownDepth),
		MaxDepth:   rv.Stats.MaxDepth.Or(models.UnknownDepth),
		CallerData: callerData,
	}
}
