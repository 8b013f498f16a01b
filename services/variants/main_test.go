package variantsService

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"variantstore/api/models"
)

type fakeCounter struct {
	counts map[string]int
}

func (f *fakeCounter) CountDocumentsBySample(_ context.Context, index string, sample string) (int, error) {
	n, ok := f.counts[index+"/"+sample]
	if !ok {
		return 0, errors.New("index unavailable")
	}
	return n, nil
}

func TestGetSampleOverview(t *testing.T) {
	cfg := &models.Config{}
	cfg.Elasticsearch.RunVariantsIndex = "sample-variants"
	cfg.Elasticsearch.CanonicalVariantsIndex = "variants"
	cfg.Elasticsearch.AmpliconCoverageIndex = "amplicon-coverage"
	cfg.Elasticsearch.SampleCoverageIndex = "sample-coverage"

	vs := NewVariantService(cfg, &fakeCounter{counts: map[string]int{
		"sample-variants/S1":   12,
		"variants/S1":          12,
		"amplicon-coverage/S1": 96,
	}})

	overview := vs.GetSampleOverview(context.Background(), "S1")

	assert.Len(t, overview, 4)
	assert.Equal(t, 12, overview["sample-variants"])
	assert.Equal(t, 12, overview["variants"])
	assert.Equal(t, 96, overview["amplicon-coverage"])
	assert.IsType(t, map[string]interface{}{}, overview["sample-coverage"])
}
