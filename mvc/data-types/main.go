package dataTypes

import (
	"net/http"

	"variantstore/api/models/indexes"

	"github.com/labstack/echo"
)

var variantDataTypeJson = map[string]interface{}{
	"id":     "variant",
	"label":  "Somatic Variants",
	"schema": indexes.VARIANT_INDEX_MAPPING,
}

var coverageDataTypeJson = map[string]interface{}{
	"id":     "coverage",
	"label":  "Amplicon Coverage",
	"schema": indexes.COVERAGE_INDEX_MAPPING,
}

func GetDataTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, []map[string]interface{}{
		variantDataTypeJson,
		coverageDataTypeJson,
	})
}

func GetVariantDataTypeSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, indexes.VARIANT_INDEX_MAPPING)
}

func GetCoverageDataTypeSchema(c echo.Context) error {
	return c.JSON(http.StatusOK, indexes.COVERAGE_INDEX_MAPPING)
}
