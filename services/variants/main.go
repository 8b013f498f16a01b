package variantsService

import (
	"context"
	"sync"

	"github.com/grailbio/base/log"

	"variantstore/api/models"
)

// Counter counts a sample's documents in one collection.
type Counter interface {
	CountDocumentsBySample(ctx context.Context, index string, sample string) (int, error)
}

type (
	VariantService struct {
		Config *models.Config
		Store  Counter
	}
)

func NewVariantService(cfg *models.Config, store Counter) *VariantService {
	return &VariantService{
		Config: cfg,
		Store:  store,
	}
}

func (vs *VariantService) Collections() []string {
	es := vs.Config.Elasticsearch
	return []string{es.RunVariantsIndex, es.CanonicalVariantsIndex, es.AmpliconCoverageIndex, es.SampleCoverageIndex}
}

// GetSampleOverview counts a sample's documents in every collection concurrently.
// A collection that could not be counted maps to an error entry instead of a count.
func (vs *VariantService) GetSampleOverview(ctx context.Context, sample string) map[string]interface{} {
	resultsMap := map[string]interface{}{}
	resultsMux := sync.RWMutex{}

	var wg sync.WaitGroup
	count := func(index string, _wg *sync.WaitGroup) {
		defer _wg.Done()

		n, err := vs.Store.CountDocumentsBySample(ctx, index, sample)

		resultsMux.Lock()
		defer resultsMux.Unlock()
		if err != nil {
			log.Error.Printf("counting %s documents for %s: %v", index, sample, err)
			resultsMap[index] = map[string]interface{}{
				"error": "Something went wrong. Please contact the administrator!",
			}
			return
		}
		resultsMap[index] = n
	}

	for _, index := range vs.Collections() {
		wg.Add(1)
		go count(index, &wg)
	}
	wg.Wait()

	return resultsMap
}
