package requirement

import (
	"strings"

	"variantstore/api/models/constants"
)

const (
	Unknown  constants.Requirement = "unknown"
	Required constants.Requirement = "required"
	Optional constants.Requirement = "optional"
)

func CastToRequirement(text string) constants.Requirement {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "required", "":
		return Required
	case "optional":
		return Optional
	default:
		return Unknown
	}
}
