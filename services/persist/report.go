package persist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/outcome"
)

// StatusReporter is the job-progress channel of whoever runs the unit of work.
type StatusReporter interface {
	ReportStatus(message string)
}

type StatusFunc func(message string)

func (f StatusFunc) ReportStatus(message string) { f(message) }

// Tally counts write outcomes for one collection.
type Tally struct {
	Collection string
	Written    int
	Failed     int
	ByOutcome  map[constants.Outcome]int
}

// Summary is the final account of one sample's unit of work.
type Summary struct {
	Sample       string
	Library      string
	Noun         string
	Collections  []Tally
	Inconsistent int
}

func (s Summary) Written() int {
	n := 0
	for _, t := range s.Collections {
		n += t.Written
	}
	return n
}

func (s Summary) Failed() int {
	n := s.Inconsistent
	for _, t := range s.Collections {
		n += t.Failed
	}
	return n
}

// String is the status line sent to the job-progress channel.
func (s Summary) String() string {
	parts := make([]string, 0, len(s.Collections))
	for _, t := range s.Collections {
		parts = append(parts, fmt.Sprintf("%s: %d written, %d failed", t.Collection, t.Written, t.Failed))
	}
	noun := s.Noun
	if noun == "" {
		noun = "record"
	}
	msg := fmt.Sprintf("%s data saved for sample %s (library %s): %s.",
		strings.ToUpper(noun[:1]) + noun[1:], s.Sample, s.Library, strings.Join(parts, "; "))
	if s.Inconsistent > 0 {
		msg += fmt.Sprintf(" %d %ss failed reconciliation.", s.Inconsistent, noun)
	}
	return msg
}

// Report is the append-only per-sample outcome log. Failures are written as
// they happen; counts are written once when the report is closed.
type Report struct {
	Sample *models.Sample
	Noun   string

	w       io.Writer
	closer  io.Closer
	order   []string
	tallies map[string]*Tally
	bad     int
}

func NewReport(w io.Writer, sample *models.Sample, noun string) *Report {
	return &Report{
		Sample:  sample,
		Noun:    noun,
		w:       w,
		tallies: map[string]*Tally{},
	}
}

// OpenReport appends to dir/fileName, creating it if needed.
func OpenReport(dir string, fileName string, sample *models.Sample, noun string) (*Report, error) {
	path := filepath.Join(dir, fileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening outcome log %s", path)
	}
	r := NewReport(f, sample, noun)
	r.closer = f
	return r, nil
}

// Track registers a collection so it appears in the summary even with no writes.
func (r *Report) Track(collection string) *Tally {
	t, ok := r.tallies[collection]
	if !ok {
		t = &Tally{Collection: collection, ByOutcome: map[constants.Outcome]int{}}
		r.tallies[collection] = t
		r.order = append(r.order, collection)
	}
	return t
}

// Record counts one write attempt and logs it when it failed.
func (r *Report) Record(collection string, identity string, o constants.Outcome, cause error) error {
	t := r.Track(collection)
	t.ByOutcome[o]++
	if !outcome.IsFailure(o) {
		t.Written++
		return nil
	}
	t.Failed++

	header := fmt.Sprintf("Failed to write %s to %s (%s):", r.Noun, collection, outcome.OutcomeToString(o))
	return r.writeFailure(header, identity, cause)
}

// RecordInconsistency logs a record that never reached the store.
func (r *Report) RecordInconsistency(identity string, cause error) error {
	r.bad++
	header := fmt.Sprintf("Failed to reconcile %s (%s):", r.Noun, outcome.OutcomeToString(outcome.ReconciliationFailure))
	return r.writeFailure(header, identity, cause)
}

func (r *Report) writeFailure(header string, identity string, cause error) error {
	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(r.sampleLine())
	if cause != nil {
		fmt.Fprintf(&b, "%s: %v\n", identity, cause)
	} else {
		b.WriteString(identity + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return errors.Wrap(err, "writing outcome log")
}

func (r *Report) sampleLine() string {
	return fmt.Sprintf("Sample: %s\t Library: %s\n", r.Sample.SampleName, r.Sample.LibraryName)
}

func (r *Report) Summary() Summary {
	s := Summary{
		Sample:       r.Sample.SampleName,
		Library:      r.Sample.LibraryName,
		Noun:         r.Noun,
		Inconsistent: r.bad,
	}
	for _, c := range r.order {
		s.Collections = append(s.Collections, *r.tallies[c])
	}
	return s
}

// Abort closes the log without a summary, after a fatal error.
func (r *Report) Abort() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Close writes the summary to the log, sends it to status and closes the log.
func (r *Report) Close(status StatusReporter) (Summary, error) {
	s := r.Summary()

	var b strings.Builder
	b.WriteString(r.sampleLine())
	for _, t := range s.Collections {
		fmt.Fprintf(&b, "Wrote %d %ss to %s\n", t.Written, r.Noun, t.Collection)
		fmt.Fprintf(&b, "Failed to add %d %ss to %s\n", t.Failed, r.Noun, t.Collection)
	}
	if s.Inconsistent > 0 {
		fmt.Fprintf(&b, "Failed to reconcile %d %ss with their caller records\n", s.Inconsistent, r.Noun)
	}
	_, err := io.WriteString(r.w, b.String())

	if status != nil {
		status.ReportStatus(s.String())
	}

	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return s, errors.Wrap(err, "writing outcome log summary")
}
