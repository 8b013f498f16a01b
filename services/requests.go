package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"

	"variantstore/api/models/constants"
	"variantstore/api/models/ingest"
	"variantstore/api/models/ingest/structs"
	"variantstore/api/services/persist"
)

// ErrAlreadyRunning is returned when a sample already has a queued or running request of the same kind.
type ErrAlreadyRunning struct {
	Sample string
	Kind   constants.IngestionKind
}

func (e *ErrAlreadyRunning) Error() string {
	return fmt.Sprintf("%s ingestion for sample %s is already queued or running", e.Kind, e.Sample)
}

// QueueIngestion registers a request and hands it to the worker pool.
// The returned WaitGroup is released once the request has finished.
func (i *IngestionService) QueueIngestion(kind constants.IngestionKind, sampleKey string) (*ingest.IngestRequest, *sync.WaitGroup, error) {
	if _, err := i.sample(sampleKey); err != nil {
		return nil, nil, err
	}

	// hold the lock across check and insert so two callers cannot both queue
	i.IngestRequestMapMux.Lock()
	for _, r := range i.IngestRequestMap {
		if r.Sample == sampleKey && r.Kind == kind && !r.IsFinished() {
			i.IngestRequestMapMux.Unlock()
			return nil, nil, &ErrAlreadyRunning{Sample: sampleKey, Kind: kind}
		}
	}
	now := i.now()
	request := &ingest.IngestRequest{
		Id:        uuid.New(),
		Sample:    sampleKey,
		Kind:      kind,
		State:     ingest.Queued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	i.IngestRequestMap[request.Id.String()] = request
	i.IngestRequestMapMux.Unlock()

	log.Printf("queueing %s ingestion for sample %s", kind, sampleKey)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	queued := *request
	i.IngestionQueue <- &structs.IngestionQueueStructure{Request: &queued, WaitGroup: wg}

	return request, wg, nil
}

func (i *IngestionService) runQueued(job *structs.IngestionQueueStructure) {
	defer job.WaitGroup.Done()

	current := *job.Request
	publish := func(mutate func(r *ingest.IngestRequest)) {
		mutate(&current)
		current.UpdatedAt = i.now()
		snapshot := current
		i.IngestRequestChan <- &snapshot
	}

	publish(func(r *ingest.IngestRequest) { r.State = ingest.Running })

	status := persist.StatusFunc(func(message string) {
		publish(func(r *ingest.IngestRequest) { r.Message = message })
	})

	summary, err := i.Process(context.Background(), current.Kind, current.Sample, status)
	publish(func(r *ingest.IngestRequest) {
		r.Written = summary.Written()
		r.Failed = summary.Failed()
		if err != nil {
			log.Error.Printf("%s ingestion for sample %s failed: %v", r.Kind, r.Sample, err)
			r.State = ingest.Error
			r.Message = err.Error()
			return
		}
		r.State = ingest.Done
	})
}

// SampleAlreadyRunning reports whether the sample has an unfinished request of any kind.
func (i *IngestionService) SampleAlreadyRunning(sampleKey string) bool {
	i.IngestRequestMapMux.RLock()
	defer i.IngestRequestMapMux.RUnlock()

	for _, r := range i.IngestRequestMap {
		if r.Sample == sampleKey && !r.IsFinished() {
			return true
		}
	}
	return false
}

// GetIngestRequests returns a snapshot of every request, oldest first.
func (i *IngestionService) GetIngestRequests() []ingest.IngestRequest {
	i.IngestRequestMapMux.RLock()
	requests := make([]ingest.IngestRequest, 0, len(i.IngestRequestMap))
	for _, r := range i.IngestRequestMap {
		requests = append(requests, *r)
	}
	i.IngestRequestMapMux.RUnlock()

	sort.Slice(requests, func(a, b int) bool {
		if requests[a].CreatedAt.Equal(requests[b].CreatedAt) {
			return requests[a].Id.String() < requests[b].Id.String()
		}
		return requests[a].CreatedAt.Before(requests[b].CreatedAt)
	})
	return requests
}

func (i *IngestionService) GetIngestRequest(id string) (ingest.IngestRequest, bool) {
	i.IngestRequestMapMux.RLock()
	defer i.IngestRequestMapMux.RUnlock()

	r, ok := i.IngestRequestMap[id]
	if !ok {
		return ingest.IngestRequest{}, false
	}
	return *r, true
}

func (i *IngestionService) GetIngestStats() ingest.IngestStatsDTO {
	stats := ingest.IngestStatsDTO{}
	for _, r := range i.GetIngestRequests() {
		stats.Requests++
		switch r.State {
		case ingest.Queued:
			stats.Queued++
		case ingest.Running:
			stats.Running++
		case ingest.Done:
			stats.Done++
		case ingest.Error:
			stats.Errored++
		}
		stats.Written += r.Written
		stats.Failed += r.Failed
	}
	return stats
}

// PruneRequests drops finished requests last updated more than retention ago.
func (i *IngestionService) PruneRequests(retention time.Duration) int {
	cutoff := i.now().Add(-retention)

	i.IngestRequestMapMux.Lock()
	defer i.IngestRequestMapMux.Unlock()

	pruned := 0
	for id, r := range i.IngestRequestMap {
		if r.IsFinished() && r.UpdatedAt.Before(cutoff) {
			delete(i.IngestRequestMap, id)
			pruned++
		}
	}
	return pruned
}

func (i *IngestionService) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}
