package dtos

import (
	"time"

	"variantstore/api/models/ingest"
)

type GeneralError struct {
	Message string `json:"message"`
}

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}

type IngestRequestsResponseDTO struct {
	Status  int                        `json:"status"`
	Message string                     `json:"message"`
	Results []ingest.IngestResponseDTO `json:"results"`
}

// SampleCountsResponseDTO reports how many documents each collection holds for a sample.
type SampleCountsResponseDTO struct {
	Sample string         `json:"sample"`
	Counts map[string]interface{} `json:"counts"`
}

type SampleSummaryDTO struct {
	Key         string `json:"key"`
	SampleName  string `json:"sampleName"`
	LibraryName string `json:"libraryName"`
	RunId       string `json:"runId"`
}
