package ingestion

import (
	"fmt"
	"net/http"

	"variantstore/api/contexts"
	"variantstore/api/models/dtos"
	errorsUtils "variantstore/api/models/dtos/errors"
	"variantstore/api/models/ingest"
	"variantstore/api/services"

	"github.com/grailbio/base/log"
	"github.com/labstack/echo"
)

// SamplesIngest queues one unit of work for the sample and kind validated by middleware.
func SamplesIngest(c echo.Context) error {
	gc := c.(*contexts.IngestContext)
	log.Debug.Printf("SamplesIngest hit: sample %s, kind %s", gc.Sample.Key, gc.Kind)

	request, _, err := gc.IngestionService.QueueIngestion(gc.Kind, gc.Sample.Key)
	if err != nil {
		if _, running := err.(*services.ErrAlreadyRunning); running {
			return c.JSON(http.StatusConflict, errorsUtils.CreateSimpleConflict(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, errorsUtils.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusAccepted, dtos.IngestRequestsResponseDTO{
		Status:  http.StatusAccepted,
		Message: fmt.Sprintf("%s ingestion queued for sample %s", request.Kind, request.Sample),
		Results: []ingest.IngestResponseDTO{toResponse(*request)},
	})
}

func GetAllIngestionRequests(c echo.Context) error {
	log.Debug.Printf("GetAllIngestionRequests hit")
	requests := c.(*contexts.IngestContext).IngestionService.GetIngestRequests()

	m := make([]ingest.IngestResponseDTO, 0, len(requests))
	for _, r := range requests {
		m = append(m, toResponse(r))
	}
	return c.JSON(http.StatusOK, m)
}

func GetIngestionRequest(c echo.Context) error {
	id := c.Param("id")
	request, ok := c.(*contexts.IngestContext).IngestionService.GetIngestRequest(id)
	if !ok {
		return c.JSON(http.StatusNotFound, errorsUtils.CreateSimpleNotFound(fmt.Sprintf("No ingest request %s", id)))
	}
	return c.JSON(http.StatusOK, request)
}

func IngestionStats(c echo.Context) error {
	log.Debug.Printf("IngestionStats hit")
	return c.JSON(http.StatusOK, c.(*contexts.IngestContext).IngestionService.GetIngestStats())
}

func toResponse(r ingest.IngestRequest) ingest.IngestResponseDTO {
	return ingest.IngestResponseDTO{
		Id:      r.Id,
		Sample:  r.Sample,
		Kind:    r.Kind,
		State:   r.State,
		Message: r.Message,
	}
}
