package annotation

import (
	"strings"

	"variantstore/api/models"
)

// snpEff ANN sub-field names
const (
	KeyAllele     = "Allele"
	KeyAnnotation = "Annotation"
	KeyImpact     = "Annotation_Impact"
	KeyGene       = "Gene_Name"
	KeyFeatureId  = "Feature_ID"
	KeyBiotype    = "Transcript_BioType"
	KeyRank       = "Rank"
	KeyHgvsC      = "HGVS.c"
	KeyHgvsP      = "HGVS.p"
)

var severityRank = map[string]int{
	"HIGH":     4,
	"MODERATE": 3,
	"LOW":      2,
	"MODIFIER": 1,
}

// ParseEffects splits an ANN value into one Effect per comma-separated entry.
func ParseEffects(ann string, keys []string) []models.Effect {
	if ann == "" || ann == "." {
		return nil
	}
	var effects []models.Effect
	for _, entry := range strings.Split(ann, ",") {
		values := strings.Split(entry, "|")
		effect := make(models.Effect, len(keys))
		for i, k := range keys {
			if i < len(values) {
				effect[k] = values[i]
			}
		}
		effects = append(effects, effect)
	}
	return effects
}

// EffectsForAllele keeps the effects annotated against alt, falling back to all
// of them when the annotation does not name alleles.
func EffectsForAllele(effects []models.Effect, alt string) []models.Effect {
	var matching []models.Effect
	for _, e := range effects {
		if e[KeyAllele] == alt {
			matching = append(matching, e)
		}
	}
	if len(matching) == 0 {
		return effects
	}
	return matching
}

// TopImpactOf selects the most severe effect using the annotator's own impact
// class. The first effect wins a tie.
func TopImpactOf(effects []models.Effect) models.TopImpact {
	var top models.Effect
	best := -1
	for _, e := range effects {
		rank := severityRank[strings.ToUpper(e[KeyImpact])]
		if rank > best {
			top, best = e, rank
		}
	}
	if top == nil {
		return models.TopImpact{}
	}

	return models.TopImpact{
		Gene:           top[KeyGene],
		Transcript:     top[KeyFeatureId],
		Exon:           top[KeyRank],
		CodonChange:    top[KeyHgvsC],
		Biotype:        top[KeyBiotype],
		AaChange:       top[KeyHgvsP],
		Severity:       top[KeyImpact],
		TopConsequence: strings.Split(top[KeyAnnotation], "&")[0],
		So:             top[KeyAnnotation],
	}
}

// TranscriptEffects summarizes each transcript's effect as "consequence|impact|HGVS.c|HGVS.p".
func TranscriptEffects(effects []models.Effect) map[string]string {
	out := map[string]string{}
	for _, e := range effects {
		transcript := e[KeyFeatureId]
		if transcript == "" {
			continue
		}
		if _, seen := out[transcript]; seen {
			continue
		}
		out[transcript] = strings.Join([]string{e[KeyAnnotation], e[KeyImpact], e[KeyHgvsC], e[KeyHgvsP]}, "|")
	}
	return out
}
