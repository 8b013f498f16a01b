package annotation

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/services/callers"
	"variantstore/api/utils"
)

const (
	annHeaderPrefix = "##INFO=<ID=ANN,"
	callersKey      = "CALLERS"
)

var annKeySeparator = regexp.MustCompile(`\s*\|\s*`)

// Stream yields annotated variants in file order.
type Stream struct {
	AnnotationKeys []string
	Name           string

	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// Open opens an annotated VCF (plain or bgzf) and reads its header.
func Open(path string) (*Stream, error) {
	f, err := utils.OpenInput(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening annotated variants %s", path)
	}
	s, err := NewStream(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// NewStream reads the header from r. The header must declare the ANN field
// and end with the #CHROM line.
func NewStream(r io.Reader, name string) (*Stream, error) {
	s := &Stream{Name: name, scanner: bufio.NewScanner(r)}
	s.scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for s.scanner.Scan() {
		s.line++
		text := s.scanner.Text()

		if strings.HasPrefix(text, annHeaderPrefix) {
			keys, err := ParseAnnotationKeys(text)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d", name, s.line)
			}
			s.AnnotationKeys = keys
			continue
		}
		if strings.HasPrefix(text, "#CHROM") {
			if s.AnnotationKeys == nil {
				return nil, fmt.Errorf("%s: header does not declare the ANN annotation field", name)
			}
			return s, nil
		}
		if !strings.HasPrefix(text, "##") {
			return nil, fmt.Errorf("%s:%d: data line before #CHROM header", name, s.line)
		}
	}
	if err := s.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return nil, fmt.Errorf("%s: missing #CHROM header", name)
}

// ParseAnnotationKeys extracts the ANN sub-field names from its header line, i.e.
// Description="Functional annotations: 'Allele | Annotation | ...'".
func ParseAnnotationKeys(headerLine string) ([]string, error) {
	start := strings.Index(headerLine, "Description=")
	if start < 0 {
		return nil, fmt.Errorf("ANN header has no Description")
	}
	desc := headerLine[start+len("Description="):]
	desc = strings.TrimSuffix(desc, ">")

	colon := strings.Index(desc, ":")
	if colon < 0 {
		return nil, fmt.Errorf("ANN Description does not list its fields")
	}
	fields := strings.Trim(desc[colon+1:], "\" '")

	var keys []string
	for _, k := range annKeySeparator.Split(fields, -1) {
		keys = append(keys, strings.Trim(k, "\"'"))
	}
	if len(keys) < 2 {
		return nil, fmt.Errorf("ANN Description does not list its fields")
	}
	return keys, nil
}

// Next returns the next annotated variant, or io.EOF after the last one.
func (s *Stream) Next() (*models.AnnotatedVariant, error) {
	for s.scanner.Scan() {
		s.line++
		text := s.scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := s.parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", s.Name, s.line)
		}
		return v, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.Name)
	}
	return nil, io.EOF
}

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Stream) parse(text string) (*models.AnnotatedVariant, error) {
	cols := strings.Split(text, "\t")
	if len(cols) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(cols))
	}
	pos, err := strconv.Atoi(cols[1])
	if err != nil || pos < 1 {
		return nil, fmt.Errorf("invalid POS %q", cols[1])
	}

	// downstream tables only keep the first alternate allele
	alt := strings.Split(cols[4], ",")[0]
	info := callers.ParseInfo(cols[7])

	v := &models.AnnotatedVariant{
		Locus:   models.NewLocus(cols[0], pos, cols[3], alt),
		RsId:    cols[2],
		Type:    info["type"],
		SubType: info["sub_type"],
		Line:    s.line,
	}

	if raw, ok := info[callersKey]; ok && raw != "" {
		v.Callers = utils.UniqueStrings(strings.Split(raw, ","))
	}

	v.Effects = EffectsForAllele(ParseEffects(info["ANN"], s.AnnotationKeys), alt)
	v.TranscriptsData = TranscriptEffects(v.Effects)

	enrich(v, info, cols[2])
	return v, nil
}
