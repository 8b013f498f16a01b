package models

import (
	"fmt"
	"strings"
)

// Locus identifies one candidate variant within a sample's call set.
// Start is zero-based and End exclusive, so a SNV at VCF POS 101 spans [100, 101).
// Two loci are the same variant only if all five fields match; representation is
// never normalized here.
type Locus struct {
	Chrom string `json:"chrom"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Ref   string `json:"ref"`
	Alt   string `json:"alt"`
}

// NewLocus builds a Locus from VCF columns (one-based POS).
func NewLocus(chrom string, pos int, ref string, alt string) Locus {
	start := pos - 1
	return Locus{
		Chrom: chrom,
		Start: start,
		End:   start + len(ref),
		Ref:   ref,
		Alt:   alt,
	}
}

func (l Locus) Validate() error {
	var empty []string
	if strings.TrimSpace(l.Chrom) == "" {
		empty = append(empty, "chrom")
	}
	if strings.TrimSpace(l.Ref) == "" {
		empty = append(empty, "ref")
	}
	if strings.TrimSpace(l.Alt) == "" {
		empty = append(empty, "alt")
	}
	if len(empty) > 0 {
		return fmt.Errorf("locus %s has empty fields: %s", l, strings.Join(empty, ", "))
	}
	if l.Start < 0 || l.End <= l.Start {
		return fmt.Errorf("locus %s has an invalid span", l)
	}
	return nil
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:%d-%d %s>%s", l.Chrom, l.Start, l.End, l.Ref, l.Alt)
}
