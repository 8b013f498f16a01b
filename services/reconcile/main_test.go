package reconcile

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
	"variantstore/api/services/callers"
)

type sliceSource struct {
	variants []*models.AnnotatedVariant
	next     int
}

func (s *sliceSource) Next() (*models.AnnotatedVariant, error) {
	if s.next >= len(s.variants) {
		return nil, io.EOF
	}
	v := s.variants[s.next]
	s.next++
	return v, nil
}

var (
	chr7   = models.Locus{Chrom: "chr7", Start: 100, End: 101, Ref: "A", Alt: "G"}
	chr12  = models.Locus{Chrom: "chr12", Start: 25398283, End: 25398284, Ref: "C", Alt: "T"}
	sample = &models.Sample{Key: "S1", SampleName: "S1", LibraryName: "LIB1", RunId: "RUN1"}
)

func mutectRecord(l models.Locus, fa string, dp string) *callers.Record {
	return &callers.Record{Locus: l, Info: map[string]string{}, Format: map[string]string{"FA": fa, "DP": dp}}
}

func vardictRecord(l models.Locus, af string, dp string) *callers.Record {
	return &callers.Record{Locus: l, Info: map[string]string{"AF": af, "DP": dp}, Format: map[string]string{}}
}

func annotated(l models.Locus, line int, names ...string) *models.AnnotatedVariant {
	return &models.AnnotatedVariant{Locus: l, Callers: names, Line: line}
}

func collect(t *testing.T, r *Reconciler, variants ...*models.AnnotatedVariant) []Result {
	var results []Result
	err := r.Run(&sliceSource{variants: variants}, func(res Result) error {
		results = append(results, res)
		return nil
	})
	require.Nil(t, err)
	return results
}

func TestSingleCaller(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Mutect, map[models.Locus]*callers.Record{chr7: mutectRecord(chr7, "0.35", "120")})

	results := collect(t, New(ix, sample), annotated(chr7, 1, "mutect"))
	require.Len(t, results, 1)
	require.Nil(t, results[0].Err)

	rv := results[0].Variant
	assert.Equal(t, 0.35, rv.Stats.MaxSomAAF.Or(models.UnknownAAF))
	assert.Equal(t, 120, rv.Stats.MinDepth.Or(models.UnknownDepth))
	assert.Equal(t, 120, rv.Stats.MaxDepth.Or(models.UnknownDepth))
	assert.Equal(t, []constants.Caller{caller.Mutect}, rv.Callers)
	assert.Equal(t, sample, rv.Sample)

	// every known caller has a slot, empty unless it called the locus
	assert.Len(t, rv.Stats.CallerData, len(caller.All))
	assert.Equal(t, "0.35", rv.Stats.CallerData[caller.Mutect][models.MetricAAF])
	assert.Empty(t, rv.Stats.CallerData[caller.Vardict])
}

func TestTwoCallers(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Mutect, map[models.Locus]*callers.Record{chr7: mutectRecord(chr7, "0.10", "50")})
	ix.Add(caller.Vardict, map[models.Locus]*callers.Record{chr7: vardictRecord(chr7, "0.40", "200")})

	rv, err := New(ix, sample).Reconcile(annotated(chr7, 1, "mutect", "vardict"))
	require.Nil(t, err)

	assert.Equal(t, 0.40, rv.Stats.MaxSomAAF.Value)
	assert.Equal(t, 50, rv.Stats.MinDepth.Value)
	assert.Equal(t, 200, rv.Stats.MaxDepth.Value)
	assert.Equal(t, []constants.Caller{caller.Mutect, caller.Vardict}, rv.Callers)
}

func TestMissingCallerRecordFailsOnlyThatVariant(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Mutect, map[models.Locus]*callers.Record{
		chr7:  mutectRecord(chr7, "0.35", "120"),
		chr12: mutectRecord(chr12, "0.20", "80"),
	})
	ix.Add(caller.Scalpel, nil)

	results := collect(t, New(ix, sample),
		annotated(chr7, 10, "mutect"),
		annotated(chr12, 11, "mutect", "scalpel"),
		annotated(chr7, 12, "mutect"),
	)
	require.Len(t, results, 3)

	assert.Nil(t, results[0].Err)
	assert.NotNil(t, results[0].Variant)

	require.NotNil(t, results[1].Err)
	assert.Nil(t, results[1].Variant)
	assert.True(t, IsConsistencyError(results[1].Err))
	assert.Contains(t, results[1].Err.Error(), "scalpel")
	assert.Contains(t, results[1].Err.Error(), "line 11")
	assert.Equal(t, chr12, results[1].Source.Locus)

	assert.Nil(t, results[2].Err)
}

func TestUnknownOrInactiveCallerIsInconsistent(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Mutect, map[models.Locus]*callers.Record{chr7: mutectRecord(chr7, "0.35", "120")})
	r := New(ix, sample)

	_, err := r.Reconcile(annotated(chr7, 1, "mutect", "gatk"))
	assert.True(t, IsConsistencyError(err))

	_, err = r.Reconcile(annotated(chr7, 1, "mutect", "pindel"))
	assert.True(t, IsConsistencyError(err))

	_, err = r.Reconcile(annotated(models.Locus{Chrom: "", Start: 1, End: 2, Ref: "A", Alt: "T"}, 1, "mutect"))
	assert.True(t, IsConsistencyError(err))
}

func TestNoCallersYieldsUnknownSentinels(t *testing.T) {
	rv, err := New(callers.NewIndex(), sample).Reconcile(annotated(chr7, 1))
	require.Nil(t, err)

	assert.False(t, rv.Stats.MaxSomAAF.Set)
	assert.False(t, rv.Stats.MinDepth.Set)
	assert.False(t, rv.Stats.MaxDepth.Set)
	assert.Equal(t, models.UnknownAAF, rv.Stats.MaxSomAAF.Or(models.UnknownAAF))
	assert.Equal(t, models.UnknownDepth, rv.Stats.MinDepth.Or(models.UnknownDepth))
	assert.Empty(t, rv.Callers)
}

func TestCallerWithoutDepthLeavesExtremesUntouched(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Vardict, map[models.Locus]*callers.Record{
		chr7: {Locus: chr7, Info: map[string]string{"AF": "0.2"}, Format: map[string]string{}},
	})

	rv, err := New(ix, sample).Reconcile(annotated(chr7, 1, "vardict"))
	require.Nil(t, err)
	assert.True(t, rv.Stats.MaxSomAAF.Set)
	assert.False(t, rv.Stats.MinDepth.Set)
	assert.False(t, rv.Stats.MaxDepth.Set)
}

func TestReconciliationIsDeterministic(t *testing.T) {
	ix := callers.NewIndex()
	ix.Add(caller.Mutect, map[models.Locus]*callers.Record{
		chr7:  mutectRecord(chr7, "0.10", "50"),
		chr12: mutectRecord(chr12, "0.20", "80"),
	})
	ix.Add(caller.Vardict, map[models.Locus]*callers.Record{chr7: vardictRecord(chr7, "0.40", "200")})
	variants := func() []*models.AnnotatedVariant {
		return []*models.AnnotatedVariant{
			annotated(chr7, 1, "mutect", "vardict"),
			annotated(chr12, 2, "mutect", "vardict"),
			annotated(chr12, 3, "mutect"),
		}
	}

	r := New(ix, sample)
	first := collect(t, r, variants()...)
	second := collect(t, r, variants()...)

	errText := func(res Result) string {
		if res.Err == nil {
			return ""
		}
		return res.Err.Error()
	}
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, errText(first[i]), errText(second[i]))
		if diff := cmp.Diff(first[i].Variant, second[i].Variant); diff != "" {
			t.Errorf("result %d differs between runs (-first +second):\n%s", i, diff)
		}
	}
}
