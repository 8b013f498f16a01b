package ingest

import (
	"time"

	"github.com/google/uuid"

	"variantstore/api/models/constants"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type IngestRequest struct {
	Id        uuid.UUID               `json:"id"`
	Sample    string                  `json:"sample"`
	Kind      constants.IngestionKind `json:"kind"`
	State     State                   `json:"state"`
	Message   string                  `json:"message"`
	Written   int                     `json:"written"`
	Failed    int                     `json:"failed"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func (r *IngestRequest) IsFinished() bool {
	return r.State == Done || r.State == Error
}

type IngestResponseDTO struct {
	Id      uuid.UUID               `json:"id"`
	Sample  string                  `json:"sample"`
	Kind    constants.IngestionKind `json:"kind"`
	State   State                   `json:"state"`
	Message string                  `json:"message"`
}

type IngestStatsDTO struct {
	Requests int `json:"requests"`
	Queued   int `json:"queued"`
	Running  int `json:"running"`
	Done     int `json:"done"`
	Errored  int `json:"errored"`
	Written  int `json:"written"`
	Failed   int `json:"failed"`
}
