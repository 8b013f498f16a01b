package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	ingestionKind "variantstore/api/models/constants/ingestion-kind"
	"variantstore/api/models/constants/outcome"
	"variantstore/api/models/ingest"
	"variantstore/api/models/ingest/structs"
	"variantstore/api/services/annotation"
	"variantstore/api/services/assemble"
	"variantstore/api/services/callers"
	"variantstore/api/services/coverage"
	"variantstore/api/services/persist"
	"variantstore/api/services/reconcile"
	"variantstore/api/utils"
)

const (
	VariantLogSuffix  = "sample_variant_add.log"
	CoverageLogSuffix = "sample_coverage_add.log"
)

type (
	IngestionService struct {
		Initialized bool
		Config      *models.Config
		Runtime     *models.RuntimeConfig
		Samples     map[string]*models.Sample
		Store       persist.Store

		IngestRequestChan   chan *ingest.IngestRequest
		IngestRequestMap    map[string]*ingest.IngestRequest
		IngestRequestMapMux sync.RWMutex
		IngestionQueue      chan *structs.IngestionQueueStructure

		Now func() time.Time
	}
)

func NewIngestionService(store persist.Store, cfg *models.Config, runtime *models.RuntimeConfig, samples map[string]*models.Sample) *IngestionService {
	workers := cfg.Api.ConcurrencyLevel
	if workers < 1 {
		workers = 1
	}

	iz := &IngestionService{
		Initialized:         false,
		Config:              cfg,
		Runtime:             runtime,
		Samples:             samples,
		Store:               store,
		IngestRequestChan:   make(chan *ingest.IngestRequest),
		IngestRequestMap:    map[string]*ingest.IngestRequest{},
		IngestRequestMapMux: sync.RWMutex{},
		IngestionQueue:      make(chan *structs.IngestionQueueStructure, workers*4),
		Now:                 time.Now,
	}
	iz.Init(workers)

	return iz
}

// Init starts the request listener and the ingestion workers.
func (i *IngestionService) Init(workers int) {
	if i.Initialized {
		return
	}

	// listener for ingest request updates
	go func() {
		for request := range i.IngestRequestChan {
			i.IngestRequestMapMux.Lock()
			i.IngestRequestMap[request.Id.String()] = request
			i.IngestRequestMapMux.Unlock()
		}
	}()

	// bounded pool; each job is one sample's unit of work
	for w := 0; w < workers; w++ {
		go func() {
			for job := range i.IngestionQueue {
				i.runQueued(job)
			}
		}()
	}

	i.Initialized = true
}

// ProcessSample is one sample's variant unit of work: build every caller
// index, then reconcile, assemble and persist the annotated variants one at a
// time in file order. The returned error is fatal for the sample; per-variant
// failures are only counted and logged.
func (i *IngestionService) ProcessSample(ctx context.Context, sampleKey string, status persist.StatusReporter) (persist.Summary, error) {
	sample, err := i.sample(sampleKey)
	if err != nil {
		return persist.Summary{}, err
	}

	genome, err := i.Runtime.AssemblyId()
	if err != nil {
		return persist.Summary{}, err
	}
	policy, err := i.Runtime.CallerPolicy()
	if err != nil {
		return persist.Summary{}, err
	}

	es := i.Config.Elasticsearch
	assembler, err := assemble.New(genome, sample, es.RunVariantsIndex, es.CanonicalVariantsIndex)
	if err != nil {
		return persist.Summary{}, errors.Wrapf(err, "sample %s", sampleKey)
	}
	assembler.GenomeVersion = i.Runtime.GenomeVersion
	if i.Now != nil {
		assembler.Now = i.Now
	}

	log.Printf("%s: parsing caller files", sampleKey)
	index, err := callers.BuildIndex(i.Config.Paths.WorkDir, sampleKey, policy)
	if err != nil {
		return persist.Summary{}, err
	}

	annotatedPath, found := utils.ResolveVcfPath(filepath.Join(i.Config.Paths.WorkDir, fmt.Sprintf("%s.%s", sampleKey, i.Runtime.AnnotatedSuffix)))
	if !found {
		return persist.Summary{}, errors.Errorf("%s: annotated variants not found at %s", sampleKey, annotatedPath)
	}
	log.Printf("%s: processing annotated variants from %s", sampleKey, annotatedPath)
	stream, err := annotation.Open(annotatedPath)
	if err != nil {
		return persist.Summary{}, err
	}
	defer stream.Close()

	report, err := persist.OpenReport(i.Config.Paths.LogDir, fmt.Sprintf("%s.%s", sample.LibraryName, VariantLogSuffix), sample, "variant")
	if err != nil {
		return persist.Summary{}, err
	}
	report.Track(es.RunVariantsIndex)
	report.Track(es.CanonicalVariantsIndex)
	persister := persist.New(i.Store, report)

	err = reconcile.New(index, sample).Run(stream, func(res reconcile.Result) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if res.Err != nil {
			log.Debug.Printf("%s: %v", sampleKey, res.Err)
			return report.RecordInconsistency(res.Source.Locus.String(), res.Err)
		}

		run, canonical := assembler.Assemble(res.Variant)
		return persister.PersistAll(ctx, run, canonical)
	})
	if err != nil {
		report.Abort()
		return report.Summary(), errors.Wrapf(err, "sample %s", sampleKey)
	}

	summary, err := report.Close(status)
	log.Printf("%s: %s", sampleKey, summary)
	return summary, err
}

// ProcessSampleCoverage is one sample's coverage unit of work.
func (i *IngestionService) ProcessSampleCoverage(ctx context.Context, sampleKey string, status persist.StatusReporter) (persist.Summary, error) {
	sample, err := i.sample(sampleKey)
	if err != nil {
		return persist.Summary{}, err
	}
	if err := sample.ValidateCoverage(); err != nil {
		return persist.Summary{}, err
	}
	layout, err := i.Runtime.Layout()
	if err != nil {
		return persist.Summary{}, err
	}

	path := filepath.Join(i.Config.Paths.WorkDir, fmt.Sprintf("%s.%s_coverage.bed", sample.LibraryName, i.Runtime.Program))
	f, err := utils.OpenInput(path)
	if err != nil {
		return persist.Summary{}, errors.Wrapf(err, "%s: opening coverage table", sampleKey)
	}
	defer f.Close()

	reader, err := coverage.NewReader(f, layout)
	if err != nil {
		return persist.Summary{}, errors.Wrapf(err, "%s: %s", sampleKey, path)
	}

	es := i.Config.Elasticsearch
	builder := &coverage.Builder{
		Sample:        sample,
		Program:       i.Runtime.Program,
		Thresholds:    reader.Thresholds,
		AmpliconIndex: es.AmpliconCoverageIndex,
		SampleIndex:   es.SampleCoverageIndex,
	}

	report, err := persist.OpenReport(i.Config.Paths.LogDir, fmt.Sprintf("%s.%s", sample.LibraryName, CoverageLogSuffix), sample, "coverage record")
	if err != nil {
		return persist.Summary{}, err
	}
	report.Track(es.AmpliconCoverageIndex)
	report.Track(es.SampleCoverageIndex)
	persister := persist.New(i.Store, report)

	abort := func(err error) (persist.Summary, error) {
		report.Abort()
		return report.Summary(), errors.Wrapf(err, "sample %s", sampleKey)
	}

	for {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}

		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		var rowErr *coverage.RowError
		if errors.As(err, &rowErr) {
			identity := builder.Identity(row)
			for _, index := range []string{es.AmpliconCoverageIndex, es.SampleCoverageIndex} {
				if err := report.Record(index, identity, outcome.MalformedRequest, rowErr); err != nil {
					return abort(err)
				}
			}
			continue
		}
		if err != nil {
			return abort(err)
		}

		amplicon, sampleRecord := builder.Records(row)
		if err := persister.PersistAll(ctx, amplicon, sampleRecord); err != nil {
			return abort(err)
		}
	}

	summary, err := report.Close(status)
	log.Printf("%s: %s", sampleKey, summary)
	return summary, err
}

// Process runs one unit of work of the given kind.
func (i *IngestionService) Process(ctx context.Context, kind constants.IngestionKind, sampleKey string, status persist.StatusReporter) (persist.Summary, error) {
	switch kind {
	case ingestionKind.Variants:
		return i.ProcessSample(ctx, sampleKey, status)
	case ingestionKind.Coverage:
		return i.ProcessSampleCoverage(ctx, sampleKey, status)
	default:
		return persist.Summary{}, errors.Errorf("unknown ingestion kind %q", kind)
	}
}

func (i *IngestionService) sample(key string) (*models.Sample, error) {
	sample, ok := i.Samples[key]
	if !ok {
		return nil, errors.Errorf("sample %s is not listed in the samples file", key)
	}
	return sample, nil
}
