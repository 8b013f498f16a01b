package ingestionKind

import (
	"strings"

	"variantstore/api/models/constants"
)

const (
	Unknown  constants.IngestionKind = "unknown"
	Variants constants.IngestionKind = "variants"
	Coverage constants.IngestionKind = "coverage"
)

func CastToIngestionKind(text string) constants.IngestionKind {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "variants", "variant":
		return Variants
	case "coverage":
		return Coverage
	default:
		return Unknown
	}
}

func IsKnownIngestionKind(text string) bool {
	return CastToIngestionKind(text) != Unknown
}
