package caller

import (
	"strings"

	"variantstore/api/models/constants"
)

const (
	Mutect    constants.Caller = "mutect"
	Vardict   constants.Caller = "vardict"
	Freebayes constants.Caller = "freebayes"
	Scalpel   constants.Caller = "scalpel"
	Platypus  constants.Caller = "platypus"
	Pindel    constants.Caller = "pindel"
	Manta     constants.Caller = "manta"
)

// All lists every known caller in storage order.
var All = []constants.Caller{
	Mutect,
	Vardict,
	Freebayes,
	Scalpel,
	Platypus,
	Pindel,
	Manta,
}

// Default is the set of callers run by the somatic exome pipeline.
var Default = []constants.Caller{
	Mutect,
	Vardict,
	Freebayes,
	Scalpel,
	Platypus,
	Pindel,
}

func CastToCaller(text string) (constants.Caller, bool) {
	lowered := constants.Caller(strings.ToLower(strings.TrimSpace(text)))
	for _, c := range All {
		if c == lowered {
			return c, true
		}
	}
	return "", false
}

func IsKnownCaller(text string) bool {
	_, ok := CastToCaller(text)
	return ok
}
