package annotation

import (
	"strconv"
	"strings"

	"variantstore/api/models"
	"variantstore/api/utils"
)

const (
	populationPrefix = "aaf_"
	clinvarPrefix    = "clinvar_"
	cosmicPrefix     = "cosmic_"
	ampliconPrefix   = "amplicon_"
)

var clinvarSignificanceKeys = []string{"clinvar_sig", "clinvar_significance", "CLNSIG"}

var lofConsequences = map[string]bool{
	"transcript_ablation":     true,
	"exon_loss_variant":       true,
	"frameshift_variant":      true,
	"stop_gained":             true,
	"start_lost":              true,
	"splice_acceptor_variant": true,
	"splice_donor_variant":    true,
}

var codingConsequences = map[string]bool{
	"frameshift_variant":             true,
	"stop_gained":                    true,
	"stop_lost":                      true,
	"start_lost":                     true,
	"missense_variant":               true,
	"synonymous_variant":             true,
	"stop_retained_variant":          true,
	"initiator_codon_variant":        true,
	"inframe_insertion":              true,
	"inframe_deletion":               true,
	"disruptive_inframe_insertion":   true,
	"disruptive_inframe_deletion":    true,
	"conservative_inframe_insertion": true,
	"conservative_inframe_deletion":  true,
	"coding_sequence_variant":        true,
	"protein_altering_variant":       true,
	"exon_loss_variant":              true,
	"rare_amino_acid_variant":        true,
}

// enrich fills the population, clinical and amplicon annotations from INFO and ID.
func enrich(v *models.AnnotatedVariant, info map[string]string, id string) {
	v.PopulationFreqs = map[string]float64{}
	v.ClinvarData = map[string]string{}
	v.CosmicData = map[string]string{}
	v.AmpliconData = map[string]string{}

	for key, value := range info {
		switch {
		case strings.HasPrefix(key, populationPrefix):
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.PopulationFreqs[key] = f
			}
		case strings.HasPrefix(key, clinvarPrefix):
			v.ClinvarData[key] = value
		case strings.HasPrefix(key, cosmicPrefix):
			v.CosmicData[key] = value
		case strings.HasPrefix(key, ampliconPrefix):
			v.AmpliconData[key] = value
		}
	}

	v.MaxMafAll = floatOr(info["max_aaf_all"], models.UnknownMaf)
	v.MaxMafNoFin = floatOr(info["max_aaf_no_fin"], models.UnknownMaf)

	v.RsIds, v.CosmicIds = splitIds(id, info["cosmic_ids"])

	v.InClinvar = len(v.ClinvarData) > 0
	v.InCosmic = len(v.CosmicIds) > 0 || len(v.CosmicData) > 0
	v.IsPathogenic = isPathogenic(info)
	_, lofTagged := info["LOF"]
	v.IsLof = lofTagged || anyConsequence(v.Effects, func(c string) bool { return lofConsequences[c] })
	v.IsCoding = anyConsequence(v.Effects, func(c string) bool { return codingConsequences[c] })
	v.IsSplicing = anyConsequence(v.Effects, func(c string) bool { return strings.Contains(c, "splice") })
}

func floatOr(raw string, fallback float64) float64 {
	if raw == "" || raw == "." {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

// splitIds separates dbSNP and COSMIC identifiers from the ID column and the cosmic_ids INFO field.
func splitIds(id string, cosmic string) ([]string, []string) {
	var rs, cos []string
	for _, field := range strings.FieldsFunc(id+";"+cosmic, func(r rune) bool { return r == ';' || r == ',' }) {
		switch {
		case strings.HasPrefix(field, "rs"):
			rs = append(rs, field)
		case strings.HasPrefix(field, "COS"):
			cos = append(cos, field)
		}
	}
	return utils.UniqueStrings(rs), utils.UniqueStrings(cos)
}

func isPathogenic(info map[string]string) bool {
	for _, key := range clinvarSignificanceKeys {
		sig := strings.ToLower(info[key])
		if strings.Contains(sig, "pathogenic") && !strings.Contains(sig, "conflicting") {
			return true
		}
	}
	return false
}

func anyConsequence(effects []models.Effect, match func(string) bool) bool {
	for _, e := range effects {
		for _, c := range strings.Split(e[KeyAnnotation], "&") {
			if match(c) {
				return true
			}
		}
	}
	return false
}
