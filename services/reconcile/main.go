package reconcile

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
	"variantstore/api/services/annotation"
	"variantstore/api/services/callers"
)

// ConsistencyError reports an annotated variant that cannot be matched against
// the per-caller records it claims to come from. It fails that variant only.
type ConsistencyError struct {
	Locus   models.Locus
	Line    int
	Reasons []string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("variant %s (line %d) is inconsistent with caller records: %s",
		e.Locus, e.Line, strings.Join(e.Reasons, "; "))
}

func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

// Source yields annotated variants in order and returns io.EOF when exhausted.
type Source interface {
	Next() (*models.AnnotatedVariant, error)
}

type Reconciler struct {
	Index  *callers.Index
	Sample *models.Sample
}

func New(index *callers.Index, sample *models.Sample) *Reconciler {
	return &Reconciler{Index: index, Sample: sample}
}

// Reconcile joins one annotated variant with every caller record its caller
// list references and folds their metrics into consensus statistics.
func (r *Reconciler) Reconcile(av *models.AnnotatedVariant) (*models.ReconciledVariant, error) {
	if err := av.Locus.Validate(); err != nil {
		return nil, &ConsistencyError{Locus: av.Locus, Line: av.Line, Reasons: []string{err.Error()}}
	}

	acc := newAccumulator()
	var contributing []constants.Caller
	var reasons []string

	for _, name := range av.Callers {
		c, known := caller.CastToCaller(name)
		if !known {
			reasons = append(reasons, fmt.Sprintf("unknown caller %q", name))
			continue
		}
		if !r.Index.Has(c) {
			reasons = append(reasons, fmt.Sprintf("caller %s is not active for this sample", c))
			continue
		}
		rec, found := r.Index.Lookup(c, av.Locus)
		if !found {
			reasons = append(reasons, fmt.Sprintf("no %s record at this locus", c))
			continue
		}

		metrics, err := callers.Parse(c, rec)
		if err != nil {
			reasons = append(reasons, err.Error())
			continue
		}
		acc.fold(c, metrics)
		contributing = append(contributing, c)
	}

	if len(reasons) > 0 {
		return nil, &ConsistencyError{Locus: av.Locus, Line: av.Line, Reasons: reasons}
	}

	return &models.ReconciledVariant{
		Locus:      av.Locus,
		Sample:     r.Sample,
		Annotation: av,
		TopImpact:  annotation.TopImpactOf(av.Effects),
		Stats:      acc.stats,
		Callers:    contributing,
	}, nil
}

// Result is the outcome of reconciling one annotated variant.
// Exactly one of Variant and Err is set.
type Result struct {
	Source  *models.AnnotatedVariant
	Variant *models.ReconciledVariant
	Err     error
}

// Run reconciles the whole source in order, handing each result to visit.
// Consistency failures are delivered to visit, not returned; a read error from
// the source or an error from visit stops the run.
func (r *Reconciler) Run(src Source, visit func(Result) error) error {
	for {
		av, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rv, err := r.Reconcile(av)
		if err := visit(Result{Source: av, Variant: rv, Err: err}); err != nil {
			return err
		}
	}
}
