package variants

import (
	"net/http"

	"variantstore/api/contexts"
	"variantstore/api/models"
	"variantstore/api/models/dtos"

	"github.com/grailbio/base/log"
	"github.com/labstack/echo"
)

// GetSampleCounts reports how many documents each collection holds for the sample.
func GetSampleCounts(c echo.Context) error {
	gc := c.(*contexts.IngestContext)
	log.Debug.Printf("GetSampleCounts hit: sample %s", gc.Sample.Key)

	counts := gc.VariantService.GetSampleOverview(c.Request().Context(), gc.Sample.SampleName)
	return c.JSON(http.StatusOK, dtos.SampleCountsResponseDTO{
		Sample: gc.Sample.SampleName,
		Counts: counts,
	})
}

// GetSamples lists the samples of the loaded samples file.
func GetSamples(c echo.Context) error {
	samples := c.(*contexts.IngestContext).Samples

	keys := models.SampleKeys(samples)
	m := make([]dtos.SampleSummaryDTO, 0, len(keys))
	for _, k := range keys {
		s := samples[k]
		m = append(m, dtos.SampleSummaryDTO{
			Key:         k,
			SampleName:  s.SampleName,
			LibraryName: s.LibraryName,
			RunId:       s.RunId,
		})
	}
	return c.JSON(http.StatusOK, m)
}
