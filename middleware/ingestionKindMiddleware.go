package middleware

import (
	"net/http"

	"variantstore/api/contexts"
	ingestionKind "variantstore/api/models/constants/ingestion-kind"
	errorsUtils "variantstore/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a valid `kind` HTTP query parameter was provided
*/
func MandateIngestionKindAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.IngestContext)

		kind := c.QueryParam("kind")
		if len(kind) == 0 || !ingestionKind.IsKnownIngestionKind(kind) {
			// if no kind was provided, or it was invalid, return an error
			return c.JSON(http.StatusBadRequest, errorsUtils.CreateSimpleBadRequest("Missing or unknown kind! Expected 'variants' or 'coverage'"))
		}

		gc.Kind = ingestionKind.CastToIngestionKind(kind)
		return next(gc)
	}
}
