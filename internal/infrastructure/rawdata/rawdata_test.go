package rawdata

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SDF
// ─────────────────────────────────────────────────────────────────────────────

func TestSDFReader_ReadsRecordsInOrder(t *testing.T) {
	in := testutil.SDF(testutil.Acetaldehyde("gdb_1"), testutil.HydrogenCyanide("gdb_2"))
	r := NewSDFReader(strings.NewReader(in))
	defer r.Close()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "gdb_1", rec.Name)
	require.Len(t, rec.Atoms, 3)
	assert.Equal(t, "O", rec.Atoms[2].Symbol)
	assert.Equal(t, 8, rec.Atoms[2].AtomicNumber)
	assert.InDelta(t, 2.2, rec.Atoms[2].Position[0], 1e-4)
	assert.InDelta(t, -1.0, rec.Atoms[2].Position[2], 1e-4)
	assert.Equal(t, []molecule.RawBond{{Begin: 0, End: 1, Order: 1}, {Begin: 1, End: 2, Order: 2}}, rec.Bonds)

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "gdb_2", rec.Name)
	assert.Equal(t, 3, rec.Bonds[1].Order)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSDFReader_MalformedRecordIsSkippable(t *testing.T) {
	in := testutil.SDF(testutil.Methane("gdb_1"), nil, testutil.HydrogenCyanide("gdb_3"))
	r := NewSDFReader(strings.NewReader(in))

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRecordUnparsable))
	assert.Contains(t, err.Error(), "block=1")

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "gdb_3", rec.Name)
}

func TestSDFReader_AnyElementResolves(t *testing.T) {
	withTin := testutil.Record("gdb_1", []int{6, 50}, testutil.Bond(0, 1, 1))
	r := NewSDFReader(strings.NewReader(testutil.SDF(withTin)))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "Sn", rec.Atoms[1].Symbol)
	assert.Equal(t, 50, rec.Atoms[1].AtomicNumber)

	in := strings.Replace(testutil.SDF(withTin), " Sn ", " Zz ", 1)
	_, err = NewSDFReader(strings.NewReader(in)).Next()
	assert.True(t, errors.IsCode(err, errors.ErrCodeRecordUnparsable))
	assert.Contains(t, err.Error(), `unknown element symbol "Zz"`)
}

func TestSDFReader_Variants(t *testing.T) {
	cases := map[string]struct {
		in      string
		atoms   int
		wantErr bool
	}{
		"free-form columns": {
			in:    "m\n\n\n  2  1  0  0  0  0  0  0  0  0999 V2000\n0.0 0.0 0.0 C\n1.0 0.0 0.0 O\n1 2 2\nM  END\n$$$$\n",
			atoms: 2,
		},
		"missing terminator": {
			in:    "m\n\n\n  1  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 N   0  0\nM  END\n",
			atoms: 1,
		},
		"crlf": {
			in:    "m\r\n\r\n\r\n  1  0  0  0  0  0  0  0  0  0999 V2000\r\n    0.0000    0.0000    0.0000 F   0  0\r\nM  END\r\n$$$$\r\n",
			atoms: 1,
		},
		"unknown element": {
			in:      "m\n\n\n  1  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 Qq  0  0\nM  END\n$$$$\n",
			wantErr: true,
		},
		"too few atom lines": {
			in:      "m\n\n\n  3  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 C   0  0\n$$$$\n",
			wantErr: true,
		},
		"not V2000": {
			in:      "m\n\n\n  1  0  0  0  0  0  0  0  0  0999 V3000\nM  END\n$$$$\n",
			wantErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, err := NewSDFReader(strings.NewReader(tc.in)).Next()
			if tc.wantErr {
				assert.True(t, errors.IsSkip(err), "err=%v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rec.Atoms, tc.atoms)
		})
	}
}

func TestSDFReader_EmptyAndTrailingBlank(t *testing.T) {
	_, err := NewSDFReader(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)

	r := NewSDFReader(strings.NewReader(testutil.SDF(testutil.Methane("gdb_1")) + "\n\n"))
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Labels and exclusions
// ─────────────────────────────────────────────────────────────────────────────

func TestReadLabels(t *testing.T) {
	rows, err := ReadLabels(strings.NewReader(testutil.LabelCSV(testutil.RawLabels(3))))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], molecule.NumTargets)
	assert.InDelta(t, 2.18, rows[2][18], 1e-5)

	_, err = ReadLabels(strings.NewReader(""))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid))

	_, err = ReadLabels(strings.NewReader(testutil.LabelHeader + "\ngdb_1,1,2\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid))

	bad := strings.Replace(testutil.LabelCSV(testutil.RawLabels(1)), ",0.05,", ",abc,", 1)
	_, err = ReadLabels(strings.NewReader(bad))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid))
	assert.Contains(t, err.Error(), `value="abc"`)

	for _, cell := range []string{"nan", "NaN", "inf", "-Inf", "+infinity"} {
		bad := strings.Replace(testutil.LabelCSV(testutil.RawLabels(1)), ",0.05,", ","+cell+",", 1)
		_, err = ReadLabels(strings.NewReader(bad))
		require.Error(t, err, cell)
		assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid), cell)
		assert.Contains(t, err.Error(), "non-finite label", cell)
	}
}

func TestReadExclusions(t *testing.T) {
	got, err := ReadExclusions(strings.NewReader(testutil.Uncharacterized([]int{0, 57, 130830})))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 57, 130830}, got)

	got, err = ReadExclusions(strings.NewReader(testutil.Uncharacterized(nil)))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadExclusions(strings.NewReader("short\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeExclusionListInvalid))

	bad := strings.Replace(testutil.Uncharacterized([]int{4}), "     5", "  five", 1)
	_, err = ReadExclusions(strings.NewReader(bad))
	assert.True(t, errors.IsCode(err, errors.ErrCodeExclusionListInvalid))
}

// ─────────────────────────────────────────────────────────────────────────────
// Files
// ─────────────────────────────────────────────────────────────────────────────

func TestOpenInputs_Missing(t *testing.T) {
	_, err := OpenInputs(t.TempDir(), FileNames{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestFiles_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteInputs(t, dir, testutil.Records(4), []int{1})
	f, err := OpenInputs(dir, FileNames{})
	require.NoError(t, err)

	a, err := f.Fingerprint()
	require.NoError(t, err)
	b, err := f.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.NoError(t, os.WriteFile(filepath.Join(dir, testutil.UncharacterizedFile),
		[]byte(testutil.Uncharacterized([]int{2})), 0o644))
	c, err := f.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestFiles_BuildCorpus(t *testing.T) {
	dir := t.TempDir()
	records := testutil.Records(6)
	records[3] = nil
	testutil.WriteInputs(t, dir, records, []int{1})

	f, err := OpenInputs(dir, DefaultFileNames())
	require.NoError(t, err)

	builder := qm9.NewBuilder(qm9.NewAssembler(qm9.WithWorkers(3)), nil, testutil.NewMockLogger())
	corpus, report, err := builder.Build(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 4, report.Accepted)
	assert.Equal(t, 1, report.Excluded)
	assert.Equal(t, 1, report.Unparsable)

	var names []string
	for _, g := range corpus {
		names = append(names, g.Identity.Name)
		require.NoError(t, g.Validate())
	}
	assert.Equal(t, []string{"gdb_1", "gdb_3", "gdb_5", "gdb_6"}, names)
	assert.Equal(t, 2, corpus[1].Identity.Index)
}

func TestFiles_BuildCorpus_UnsupportedElementAborts(t *testing.T) {
	dir := t.TempDir()
	records := testutil.Records(6)
	records[4] = testutil.Record("gdb_5", []int{6, 50}, testutil.Bond(0, 1, 1))
	testutil.WriteInputs(t, dir, records, nil)

	f, err := OpenInputs(dir, DefaultFileNames())
	require.NoError(t, err)

	builder := qm9.NewBuilder(qm9.NewAssembler(qm9.WithWorkers(3)), nil, testutil.NewMockLogger())
	corpus, _, err := builder.Build(context.Background(), f)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedAtom))
	assert.False(t, errors.IsSkip(err))
	assert.Nil(t, corpus)
}

//Personal.AI order the ending
