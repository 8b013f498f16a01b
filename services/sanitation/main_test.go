package sanitation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"variantstore/api/models"
	"variantstore/api/models/ingest"
	"variantstore/api/services"
)

func TestSanitize(t *testing.T) {
	cfg := &models.Config{}
	cfg.Api.ConcurrencyLevel = 1
	cfg.Api.RequestRetentionHours = 24
	cfg.Api.SanitationIntervalHours = 24

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	iz := services.NewIngestionService(nil, cfg, &models.RuntimeConfig{}, map[string]*models.Sample{})
	iz.Now = func() time.Time { return now }

	iz.IngestRequestMap["a"] = &ingest.IngestRequest{State: ingest.Done, UpdatedAt: now.Add(-25 * time.Hour)}
	iz.IngestRequestMap["b"] = &ingest.IngestRequest{State: ingest.Error, UpdatedAt: now.Add(-48 * time.Hour)}
	iz.IngestRequestMap["c"] = &ingest.IngestRequest{State: ingest.Queued, UpdatedAt: now.Add(-48 * time.Hour)}
	iz.IngestRequestMap["d"] = &ingest.IngestRequest{State: ingest.Done, UpdatedAt: now.Add(-1 * time.Hour)}

	ss := NewSanitationService(cfg, iz)
	defer ss.Stop()
	assert.True(t, ss.Initialized)
	assert.NotNil(t, ss.Scheduler)

	assert.Equal(t, 2, ss.Sanitize())
	assert.Len(t, iz.GetIngestRequests(), 2)
	assert.Equal(t, 0, ss.Sanitize())
}
