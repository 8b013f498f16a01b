package callers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
)

func record(info string, format string, sample string) *Record {
	rec := &Record{
		Locus:  models.NewLocus("chr1", 10, "A", "G"),
		Info:   ParseInfo(info),
		Format: map[string]string{},
	}
	if format != "" {
		keys, values := splitColon(format), splitColon(sample)
		for i, k := range keys {
			rec.Format[k] = values[i]
		}
	}
	return rec
}

func splitColon(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func TestEveryCallerHasAParser(t *testing.T) {
	for _, c := range caller.All {
		_, ok := Parsers[c]
		assert.True(t, ok, "missing parser for %s", c)
	}
	_, err := Parse(constants.Caller("gatk"), &Record{})
	assert.NotNil(t, err)
}

func TestParsers(t *testing.T) {
	cases := []struct {
		name   string
		caller constants.Caller
		rec    *Record
		aaf    float64
		depth  int
		extra  map[string]string
	}{
		{"mutect FA and DP", caller.Mutect, record(".", "GT:AD:FA:DP", "0/1:78,42:0.35:120"), 0.35, 120, map[string]string{"AD": "78,42"}},
		{"mutect AD fallback", caller.Mutect, record(".", "GT:AD", "0/1:75,25"), 0.25, 100, nil},
		{"vardict info", caller.Vardict, record("AF=0.4;DP=200;VD=80;MSI=2", "", ""), 0.4, 200, map[string]string{"VD": "80", "MSI": "2"}},
		{"freebayes AO over DP", caller.Freebayes, record("DP=99", "GT:DP:RO:AO", "0/1:50:40:10"), 0.2, 50, map[string]string{"RO": "40", "AO": "10"}},
		{"scalpel AD", caller.Scalpel, record("ZYG=het;CHI2=3.1", "GT:AD", "0/1:30,10"), 0.25, 40, map[string]string{"ZYG": "het"}},
		{"platypus TR over TC", caller.Platypus, record("TC=80;TR=20,5;FR=0.25", "GT:GQ", "0/1:99"), 0.25, 80, map[string]string{"FR": "0.25"}},
		{"pindel AD", caller.Pindel, record("SVTYPE=DEL;SVLEN=-3", "GT:AD", "0/1:90,10"), 0.1, 100, map[string]string{"SVTYPE": "DEL"}},
		{"manta PR and SR", caller.Manta, record("SVTYPE=DEL", "PR:SR", "20,5:10,5"), 0.25, 40, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(tc.caller, tc.rec)
			require.Nil(t, err)

			aaf, ok := m.AAF()
			require.True(t, ok)
			assert.InDelta(t, tc.aaf, aaf, 1e-9)

			depth, ok := m.Depth()
			require.True(t, ok)
			assert.Equal(t, tc.depth, depth)

			for k, v := range tc.extra {
				assert.Equal(t, v, m[k])
			}
		})
	}
}

func TestParsersLeaveUncomputableMetricsUnset(t *testing.T) {
	m, err := Parse(caller.Vardict, record("VD=3", "", ""))
	require.Nil(t, err)
	_, ok := m.AAF()
	assert.False(t, ok)
	_, ok = m.Depth()
	assert.False(t, ok)

	m, err = Parse(caller.Freebayes, record(".", "GT:DP:AO", "0/1:0:0"))
	require.Nil(t, err)
	_, ok = m.AAF()
	assert.False(t, ok)
	depth, ok := m.Depth()
	assert.True(t, ok)
	assert.Equal(t, 0, depth)
}

func TestMultiAllelicRowsParsePerAllele(t *testing.T) {
	content := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR\n" +
		"chr2\t500\t.\tA\tG,T\t.\tPASS\tAF=0.1,0.6;DP=100;TC=100;TR=10,60\tGT:AD:DP:AO\t0/1/2:40,10,50:100:10,60\n"

	records, err := ReadRecords(strings.NewReader(content), "multi.vcf")
	require.Nil(t, err)
	require.Len(t, records, 2)

	g := records[models.NewLocus("chr2", 500, "A", "G")]
	tt := records[models.NewLocus("chr2", 500, "A", "T")]
	require.NotNil(t, g)
	require.NotNil(t, tt)

	cases := []struct {
		caller constants.Caller
		rec    *Record
		aaf    float64
		depth  int
	}{
		{caller.Vardict, g, 0.1, 100},
		{caller.Vardict, tt, 0.6, 100},
		{caller.Mutect, g, 0.1, 100},
		{caller.Mutect, tt, 0.5, 100},
		{caller.Scalpel, tt, 0.5, 100},
		{caller.Freebayes, tt, 0.6, 100},
		{caller.Platypus, tt, 0.6, 100},
	}
	for _, tc := range cases {
		m, err := Parse(tc.caller, tc.rec)
		require.Nil(t, err)

		aaf, ok := m.AAF()
		require.True(t, ok, "%s %s", tc.caller, tc.rec.Locus.Alt)
		assert.InDelta(t, tc.aaf, aaf, 1e-9, "%s %s", tc.caller, tc.rec.Locus.Alt)

		depth, ok := m.Depth()
		require.True(t, ok)
		assert.Equal(t, tc.depth, depth)
	}

	// a per-allele list too short for the record's allele leaves AAF unset
	short := &Record{Info: ParseInfo("AF=0.1,0.6"), Format: map[string]string{}, AltIndex: 2}
	m, err := Parse(caller.Vardict, short)
	require.Nil(t, err)
	_, ok := m.AAF()
	assert.False(t, ok)
}
