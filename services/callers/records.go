package callers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"variantstore/api/models"
)

// Record is one caller's raw call at one locus, not yet parsed into metrics.
type Record struct {
	Locus  models.Locus
	Id     string
	Qual   string
	Filter string
	// INFO flags are stored with an empty value
	Info map[string]string
	// FORMAT fields of the first sample column
	Format map[string]string
	// AltIndex is this record's position in the row's ALT list.
	// Per-allele INFO/FORMAT lists are read at this index.
	AltIndex int
	Line     int
}

func (r *Record) InfoValue(key string) (string, bool) {
	v, ok := r.Info[key]
	return v, ok && v != "" && v != "."
}

func (r *Record) FormatValue(key string) (string, bool) {
	v, ok := r.Format[key]
	return v, ok && v != "" && v != "."
}

// ReadRecords reads a normalized caller VCF. Multi-allelic rows yield one
// record per ALT; when a locus repeats the later row wins.
func ReadRecords(r io.Reader, name string) (map[models.Locus]*Record, error) {
	records := map[models.Locus]*Record{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	sawHeader := false
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "##") {
			continue
		}
		if strings.HasPrefix(text, "#CHROM") {
			sawHeader = true
			continue
		}
		if !sawHeader {
			return nil, fmt.Errorf("%s:%d: data line before #CHROM header", name, line)
		}

		parsed, err := parseRecordLine(text, line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", name, line, err)
		}
		for _, rec := range parsed {
			records[rec.Locus] = rec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("%s: missing #CHROM header", name)
	}
	return records, nil
}

func parseRecordLine(text string, line int) ([]*Record, error) {
	cols := strings.Split(text, "\t")
	if len(cols) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(cols))
	}

	pos, err := strconv.Atoi(cols[1])
	if err != nil || pos < 1 {
		return nil, fmt.Errorf("invalid POS %q", cols[1])
	}

	info := ParseInfo(cols[7])
	format := map[string]string{}
	if len(cols) >= 10 {
		keys := strings.Split(cols[8], ":")
		values := strings.Split(cols[9], ":")
		for i, k := range keys {
			if i < len(values) {
				format[k] = values[i]
			}
		}
	}

	var out []*Record
	for k, alt := range strings.Split(cols[4], ",") {
		locus := models.NewLocus(cols[0], pos, cols[3], alt)
		if err := locus.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &Record{
			Locus:    locus,
			Id:       cols[2],
			Qual:     cols[5],
			Filter:   cols[6],
			Info:     info,
			Format:   format,
			AltIndex: k,
			Line:     line,
		})
	}
	return out, nil
}

// ParseInfo splits a VCF INFO column into key/value pairs.
func ParseInfo(column string) map[string]string {
	info := map[string]string{}
	if column == "." || column == "" {
		return info
	}
	for _, field := range strings.Split(column, ";") {
		if field == "" {
			continue
		}
		if eq := strings.IndexByte(field, '='); eq >= 0 {
			info[field[:eq]] = field[eq+1:]
		} else {
			info[field] = ""
		}
	}
	return info
}
