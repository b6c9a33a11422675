package rawdata

import (
	"io"
	"os"
	"path/filepath"

	"github.com/turtacn/molgraph/internal/dataset/qm9"
	"github.com/turtacn/molgraph/internal/dataset/snapshot"
	"github.com/turtacn/molgraph/pkg/errors"
)

// FileNames names the three raw inputs inside the dataset root.
type FileNames struct {
	Structures      string `mapstructure:"sdf_file" yaml:"sdf_file" json:"sdf_file"`
	Labels          string `mapstructure:"csv_file" yaml:"csv_file" json:"csv_file"`
	Uncharacterized string `mapstructure:"uncharacterized_file" yaml:"uncharacterized_file" json:"uncharacterized_file"`
}

// DefaultFileNames matches the published archive layout.
func DefaultFileNames() FileNames {
	return FileNames{
		Structures:      "gdb9.sdf",
		Labels:          "gdb9.sdf.csv",
		Uncharacterized: "uncharacterized.txt",
	}
}

// Files is a qm9.RawInputs over a directory.
type Files struct {
	root  string
	names FileNames
}

var _ qm9.RawInputs = (*Files)(nil)

// OpenInputs checks that the three inputs exist under root.  Empty names
// fall back to DefaultFileNames.
func OpenInputs(root string, names FileNames) (*Files, error) {
	def := DefaultFileNames()
	if names.Structures == "" {
		names.Structures = def.Structures
	}
	if names.Labels == "" {
		names.Labels = def.Labels
	}
	if names.Uncharacterized == "" {
		names.Uncharacterized = def.Uncharacterized
	}
	f := &Files{root: root, names: names}
	for _, p := range f.Paths() {
		st, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeNotFound, "raw input missing").WithDetail(p)
		}
		if st.IsDir() {
			return nil, errors.New(errors.ErrCodeBadRequest, "raw input is a directory").WithDetail(p)
		}
	}
	return f, nil
}

// Paths returns the structure, label and exclusion paths in that order.
func (f *Files) Paths() []string {
	return []string{
		filepath.Join(f.root, f.names.Structures),
		filepath.Join(f.root, f.names.Labels),
		filepath.Join(f.root, f.names.Uncharacterized),
	}
}

// Fingerprint hashes the three files in Paths order.
func (f *Files) Fingerprint() (string, error) {
	var readers []io.Reader
	for _, p := range f.Paths() {
		fh, err := os.Open(p)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeNotFound, "open raw input").WithDetail(p)
		}
		defer fh.Close()
		readers = append(readers, fh)
	}
	return snapshot.Fingerprint(readers...)
}

// OpenRecords opens the structure file.  The caller closes the stream.
func (f *Files) OpenRecords() (qm9.RecordStream, error) {
	p := f.Paths()[0]
	fh, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "open structure file").WithDetail(p)
	}
	return NewSDFReader(fh), nil
}

// Labels reads the label table.
func (f *Files) Labels() ([][]float32, error) {
	p := f.Paths()[1]
	fh, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "open label table").WithDetail(p)
	}
	defer fh.Close()
	return ReadLabels(fh)
}

// Exclusions reads the uncharacterised list.
func (f *Files) Exclusions() ([]int, error) {
	p := f.Paths()[2]
	fh, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "open exclusion list").WithDetail(p)
	}
	defer fh.Close()
	return ReadExclusions(fh)
}

//Personal.AI order the ending
