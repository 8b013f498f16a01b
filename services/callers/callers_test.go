package callers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bgzf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"variantstore/api/models"
	"variantstore/api/models/constants"
	"variantstore/api/models/constants/caller"
	"variantstore/api/models/constants/requirement"
)

const header = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tTUMOR\n"

func writeCallerVcf(t *testing.T, dir string, sample string, c constants.Caller, rows ...string) string {
	path := NormalizedVcfPath(dir, sample, c)
	content := header + strings.Join(rows, "\n") + "\n"
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadRecords(t *testing.T) {
	content := header +
		"chr7\t101\trs1\tA\tG,T\t50\tPASS\tDP=120;SOMATIC\tGT:FA:DP\t0/1:0.35:120\n" +
		"chr7\t101\t.\tA\tG\t60\tPASS\tDP=130\tGT:FA:DP\t0/1:0.40:130\n"

	records, err := ReadRecords(strings.NewReader(content), "test.vcf")
	require.Nil(t, err)
	require.Len(t, records, 2)

	g := records[models.Locus{Chrom: "chr7", Start: 100, End: 101, Ref: "A", Alt: "G"}]
	require.NotNil(t, g)
	// the later row for a repeated locus wins
	assert.Equal(t, 4, g.Line)
	assert.Equal(t, 0, g.AltIndex)
	assert.Equal(t, "0.40", g.Format["FA"])

	tt := records[models.Locus{Chrom: "chr7", Start: 100, End: 101, Ref: "A", Alt: "T"}]
	require.NotNil(t, tt)
	assert.Equal(t, 3, tt.Line)
	assert.Equal(t, 1, tt.AltIndex)
	_, flagged := tt.Info["SOMATIC"]
	assert.True(t, flagged)
	_, hasValue := tt.InfoValue("SOMATIC")
	assert.False(t, hasValue)
}

func TestReadRecordsRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"no header":     "chr1\t10\t.\tA\tG\t.\tPASS\t.\n",
		"short row":     header + "chr1\t10\t.\tA\n",
		"bad position":  header + "chr1\tten\t.\tA\tG\t.\tPASS\t.\n",
		"empty alt":     header + "chr1\t10\t.\tA\t\t.\tPASS\t.\n",
		"header absent": "##fileformat=VCFv4.2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(content), "bad.vcf")
			assert.NotNil(t, err)
		})
	}
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	writeCallerVcf(t, dir, "S1", caller.Mutect, "chr7\t101\t.\tA\tG\t.\tPASS\t.\tFA:DP\t0.35:120")

	t.Run("required caller present, optional caller missing", func(t *testing.T) {
		ix, err := BuildIndex(dir, "S1", map[constants.Caller]constants.Requirement{
			caller.Mutect: requirement.Required,
			caller.Manta:  requirement.Optional,
		})
		require.Nil(t, err)

		assert.True(t, ix.Has(caller.Mutect))
		assert.True(t, ix.Has(caller.Manta))
		assert.False(t, ix.Has(caller.Vardict))
		assert.Equal(t, 1, ix.Size(caller.Mutect))
		assert.Equal(t, 0, ix.Size(caller.Manta))

		rec, ok := ix.Lookup(caller.Mutect, models.NewLocus("chr7", 101, "A", "G"))
		require.True(t, ok)
		assert.Equal(t, "0.35", rec.Format["FA"])

		_, ok = ix.Lookup(caller.Manta, models.NewLocus("chr7", 101, "A", "G"))
		assert.False(t, ok)
	})

	t.Run("required caller missing is fatal", func(t *testing.T) {
		_, err := BuildIndex(dir, "S1", map[constants.Caller]constants.Requirement{
			caller.Mutect:  requirement.Required,
			caller.Vardict: requirement.Required,
		})
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "vardict")
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		writeCallerVcf(t, dir, "S1", caller.Scalpel, "chr7\tnope\t.\tA\tG\t.\tPASS\t.")
		_, err := BuildIndex(dir, "S1", map[constants.Caller]constants.Requirement{
			caller.Scalpel: requirement.Optional,
		})
		assert.NotNil(t, err)
	})
}

func TestBuildIndexReadsCompressedFiles(t *testing.T) {
	dir := t.TempDir()
	path := NormalizedVcfPath(dir, "S2", caller.Vardict) + ".gz"

	f, err := os.Create(path)
	require.Nil(t, err)
	w := bgzf.NewWriter(f, 1)
	_, err = w.Write([]byte(header + "chr1\t500\t.\tC\tT\t.\tPASS\tAF=0.4;DP=200\n"))
	require.Nil(t, err)
	require.Nil(t, w.Close())
	require.Nil(t, f.Close())

	ix, err := BuildIndex(dir, "S2", map[constants.Caller]constants.Requirement{
		caller.Vardict: requirement.Required,
	})
	require.Nil(t, err)
	assert.Equal(t, 1, ix.Size(caller.Vardict))
	assert.Equal(t, filepath.Join(dir, "S2.vardict.normalized.vcf"), NormalizedVcfPath(dir, "S2", caller.Vardict))
}
