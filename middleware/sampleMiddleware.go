package middleware

import (
	"fmt"
	"net/http"

	"variantstore/api/contexts"
	errorsUtils "variantstore/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure the `sample` (query parameter or path parameter)
names a sample listed in the samples file
*/
func MandateSampleAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.IngestContext)

		key := c.QueryParam("sample")
		if len(key) == 0 {
			key = c.Param("sample")
		}
		if len(key) == 0 {
			return c.JSON(http.StatusBadRequest, errorsUtils.CreateSimpleBadRequest("Missing 'sample' parameter!"))
		}

		sample, ok := gc.Samples[key]
		if !ok {
			return c.JSON(http.StatusNotFound, errorsUtils.CreateSimpleNotFound(fmt.Sprintf("Unknown sample %s", key)))
		}

		gc.Sample = sample
		return next(gc)
	}
}
