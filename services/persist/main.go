package persist

import (
	"context"

	"github.com/grailbio/base/log"

	"variantstore/api/models/constants"
	"variantstore/api/models/constants/outcome"
	"variantstore/api/models/indexes"
)

// Store is the write contract of the backing collections.
type Store interface {
	IndexDocument(ctx context.Context, index string, id string, doc interface{}) error
}

// Persister writes records one at a time. A failed write is classified,
// logged and counted; it never stops the records that follow, and it is not retried.
type Persister struct {
	Store  Store
	Report *Report
}

func New(store Store, report *Report) *Persister {
	return &Persister{Store: store, Report: report}
}

// Persist makes one independent write attempt for rec. The returned error is
// only ever a failure to write the outcome log.
func (p *Persister) Persist(ctx context.Context, rec indexes.Record) (constants.Outcome, error) {
	err := p.Store.IndexDocument(ctx, rec.Index, rec.Id, rec.Body)
	o := Classify(err)
	if outcome.IsFailure(o) {
		log.Debug.Printf("%s write failed for %s: %v", rec.Index, rec.Identity, err)
	}
	return o, p.Report.Record(rec.Index, rec.Identity, o, err)
}

// PersistAll writes every record, in order, regardless of earlier failures.
func (p *Persister) PersistAll(ctx context.Context, recs ...indexes.Record) error {
	for _, rec := range recs {
		if _, err := p.Persist(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
