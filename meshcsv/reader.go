// Package meshcsv reads e-Stat mesh statistics files.
//
// The files are Shift_JIS encoded CSV with two header rows: the first holds
// column codes (KEY_CODE, HTKSYORI, ..., T001140001) and the second holds
// Japanese labels, blank for the key columns.
package meshcsv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// Reader streams the records of one mesh statistics file.
type Reader struct {
	name   string
	closer io.Closer
	csv    *csv.Reader
}

// Open opens a Shift_JIS mesh statistics file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := NewReader(f, path)
	r.closer = f

	return r, nil
}

// NewReader decodes Shift_JIS CSV from src. name is used in error messages.
func NewReader(src io.Reader, name string) *Reader {
	decoded := transform.NewReader(bufio.NewReader(src), japanese.ShiftJIS.NewDecoder())

	c := csv.NewReader(decoded)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true

	return &Reader{name: name, csv: c}
}

// Name returns the file name given to Open or NewReader.
func (r *Reader) Name() string {
	return r.name
}

// Headers reads the code row and the label row.
//
// It must be called once, before Next.
func (r *Reader) Headers() (codes, labels []string, err error) {
	codes, err = r.csv.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%s: %w: code row", r.name, errs.ErrMissingHeader)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.name, err)
	}

	labels, err = r.csv.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%s: %w: label row", r.name, errs.ErrMissingHeader)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.name, err)
	}

	return codes, labels, nil
}

// Next returns the next data record, or io.EOF after the last one.
func (r *Reader) Next() ([]string, error) {
	rec, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}

	return rec, nil
}

// Line returns the 1-based line of the record last returned by Next.
func (r *Reader) Line() int {
	line, _ := r.csv.FieldPos(0)
	return line
}

// Close closes the underlying file, if Open created it.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
