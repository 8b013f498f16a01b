package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/grailbio/base/log"
	"golang.org/x/sync/errgroup"

	"variantstore/api/models/constants"
	"variantstore/api/services/persist"
)

// BatchError lists the samples whose unit of work failed.
type BatchError struct {
	Failures map[string]error
}

func (e *BatchError) Error() string {
	keys := make([]string, 0, len(e.Failures))
	for k := range e.Failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, e.Failures[k]))
	}
	return fmt.Sprintf("%d of the samples failed:\n%s", len(keys), strings.Join(lines, "\n"))
}

// RunBatch runs one independent unit of work per sample with at most
// limit running at once. A failing sample never stops the others.
func (i *IngestionService) RunBatch(ctx context.Context, kind constants.IngestionKind, sampleKeys []string, limit int, status persist.StatusReporter) (map[string]persist.Summary, error) {
	var (
		g         errgroup.Group
		mu        sync.Mutex
		summaries = map[string]persist.Summary{}
		failures  = map[string]error{}
	)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, key := range sampleKeys {
		key := key
		g.Go(func() error {
			summary, err := i.Process(ctx, kind, key, status)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error.Printf("%s: %v", key, err)
				failures[key] = err
				return nil
			}
			summaries[key] = summary
			return nil
		})
	}
	g.Wait()

	if len(failures) > 0 {
		return summaries, &BatchError{Failures: failures}
	}
	return summaries, nil
}
