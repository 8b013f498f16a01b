package callers

import (
	"fmt"
	"strconv"
	"strings"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
)

// Parser extracts one caller's metrics from its raw record.
// Every parser sets AAF and DP when the record carries enough to compute them.
type Parser func(rec *Record) models.CallerMetrics

var Parsers = map[constants.Caller]Parser{
	caller.Mutect:    parseMutect,
	caller.Vardict:   parseVardict,
	caller.Freebayes: parseFreebayes,
	caller.Scalpel:   parseScalpel,
	caller.Platypus:  parsePlatypus,
	caller.Pindel:    parsePindel,
	caller.Manta:     parseManta,
}

func Parse(c constants.Caller, rec *Record) (models.CallerMetrics, error) {
	parse, ok := Parsers[c]
	if !ok {
		return nil, fmt.Errorf("no metrics parser for caller %q", c)
	}
	return parse(rec), nil
}

func parseMutect(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyFormat(m, rec, "GT", "AD", "BQ", "SS")

	if fa, ok := rec.FormatValue("FA"); ok {
		setAAF(m, rec, fa)
	} else if af, ok := rec.FormatValue("AF"); ok {
		setAAF(m, rec, af)
	}

	if dp, ok := rec.FormatValue("DP"); ok {
		setDepth(m, dp)
	} else if ad, ok := rec.FormatValue("AD"); ok {
		if total, _, ok := alleleDepths(rec, ad); ok {
			m[models.MetricDepth] = strconv.Itoa(total)
		}
	}

	if _, ok := m[models.MetricAAF]; !ok {
		if ad, ok := rec.FormatValue("AD"); ok {
			if total, alt, ok := alleleDepths(rec, ad); ok && total > 0 {
				m[models.MetricAAF] = formatFloat(float64(alt) / float64(total))
			}
		}
	}
	return m
}

func parseVardict(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyInfo(m, rec, "VD", "SBF", "MQ", "NM", "MSI", "MSILEN", "SHIFT3")
	if af, ok := rec.InfoValue("AF"); ok {
		setAAF(m, rec, af)
	}
	if dp, ok := rec.InfoValue("DP"); ok {
		setDepth(m, dp)
	}
	return m
}

func parseFreebayes(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyFormat(m, rec, "GT", "RO", "AO", "QA")

	depth, hasDepth := 0, false
	if dp, ok := rec.FormatValue("DP"); ok {
		depth, hasDepth = atoi(dp)
	} else if dp, ok := rec.InfoValue("DP"); ok {
		depth, hasDepth = atoi(dp)
	}
	if hasDepth {
		m[models.MetricDepth] = strconv.Itoa(depth)
	}

	if ao, ok := rec.FormatValue("AO"); ok && hasDepth && depth > 0 {
		if alt, ok := atoi(altValue(rec, ao)); ok {
			m[models.MetricAAF] = formatFloat(float64(alt) / float64(depth))
		}
	}
	return m
}

func parseScalpel(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyInfo(m, rec, "ZYG", "COVRATIO", "CHI2", "FISHERPHREDSCORE", "INH")
	copyFormat(m, rec, "GT", "AD")
	if ad, ok := rec.FormatValue("AD"); ok {
		fractionFromDepths(m, rec, ad)
	}
	return m
}

func parsePlatypus(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyInfo(m, rec, "FR", "MMLQ", "HP", "QD")
	copyFormat(m, rec, "GT", "GQ")

	tr, trOk := rec.InfoValue("TR")
	tc, tcOk := rec.InfoValue("TC")
	if tcOk {
		setDepth(m, first(tc))
	}
	if trOk && tcOk {
		reads, rOk := atoi(altValue(rec, tr))
		coverage, cOk := atoi(first(tc))
		if rOk && cOk && coverage > 0 {
			m[models.MetricAAF] = formatFloat(float64(reads) / float64(coverage))
		}
	}
	return m
}

func parsePindel(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyInfo(m, rec, "SVTYPE", "SVLEN", "HOMLEN", "HOMSEQ")
	copyFormat(m, rec, "GT", "AD")
	if ad, ok := rec.FormatValue("AD"); ok {
		fractionFromDepths(m, rec, ad)
	}
	return m
}

func parseManta(rec *Record) models.CallerMetrics {
	m := models.CallerMetrics{}
	copyInfo(m, rec, "SVTYPE", "SVLEN", "SOMATICSCORE")
	copyFormat(m, rec, "PR", "SR")

	total, alt, seen := 0, 0, false
	for _, key := range []string{"PR", "SR"} {
		if v, ok := rec.FormatValue(key); ok {
			if t, a, ok := alleleDepths(rec, v); ok {
				total += t
				alt += a
				seen = true
			}
		}
	}
	if seen {
		m[models.MetricDepth] = strconv.Itoa(total)
		if total > 0 {
			m[models.MetricAAF] = formatFloat(float64(alt) / float64(total))
		}
	}
	return m
}

func copyInfo(m models.CallerMetrics, rec *Record, keys ...string) {
	for _, k := range keys {
		if v, ok := rec.InfoValue(k); ok {
			m[k] = v
		}
	}
}

func copyFormat(m models.CallerMetrics, rec *Record, keys ...string) {
	for _, k := range keys {
		if v, ok := rec.FormatValue(k); ok {
			m[k] = v
		}
	}
}

func setAAF(m models.CallerMetrics, rec *Record, raw string) {
	if f, err := strconv.ParseFloat(altValue(rec, raw), 64); err == nil {
		m[models.MetricAAF] = formatFloat(f)
	}
}

func setDepth(m models.CallerMetrics, raw string) {
	if d, ok := atoi(first(raw)); ok {
		m[models.MetricDepth] = strconv.Itoa(d)
	}
}

// fractionFromDepths derives AAF and DP from a "ref,alt[,alt...]" allele
// depth list. DP is the sum over every allele.
func fractionFromDepths(m models.CallerMetrics, rec *Record, ad string) {
	total, alt, ok := alleleDepths(rec, ad)
	if !ok {
		return
	}
	m[models.MetricDepth] = strconv.Itoa(total)
	if total > 0 {
		m[models.MetricAAF] = formatFloat(float64(alt) / float64(total))
	}
}

// alleleDepths reads a per-allele depth list (reference first) and returns
// the summed depth and the depth of the record's own ALT.
func alleleDepths(rec *Record, list string) (total int, alt int, ok bool) {
	parts := strings.Split(list, ",")
	if len(parts) < rec.AltIndex+2 {
		return 0, 0, false
	}
	for i, p := range parts {
		n, ok := atoi(p)
		if !ok {
			return 0, 0, false
		}
		total += n
		if i == rec.AltIndex+1 {
			alt = n
		}
	}
	return total, alt, true
}

// altValue picks the record's allele out of a per-ALT list. A single value
// applies to every allele; a list too short for the allele yields "".
func altValue(rec *Record, list string) string {
	parts := strings.Split(list, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	if rec.AltIndex < len(parts) {
		return parts[rec.AltIndex]
	}
	return ""
}

func first(list string) string {
	if comma := strings.IndexByte(list, ','); comma >= 0 {
		return list[:comma]
	}
	return list
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
