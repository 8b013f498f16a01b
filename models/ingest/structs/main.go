package structs

import (
	"sync"

	"variantstore/api/models/ingest"
)

// IngestionQueueStructure is one unit of work handed to the ingestion queue.
type IngestionQueueStructure struct {
	Request   *ingest.IngestRequest
	WaitGroup *sync.WaitGroup
}
