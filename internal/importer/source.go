package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// RowSource is a RowReader over an open file.
type RowSource interface {
	RowReader
	Close() error
}

// NewCSVReader reads comma-separated rows with optional quoting. Rows may
// differ in length and a leading UTF-8 byte order mark is dropped.
func NewCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	cr.FieldsPerRecord = -1
	return cr
}

// XLSXReader yields the rows of the first worksheet of a workbook.
type XLSXReader struct {
	file *excelize.File
	rows *excelize.Rows
}

// NewXLSXReader opens a workbook and positions it on the first sheet.
func NewXLSXReader(r io.Reader) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		f.Close()
		return nil, errors.New("opening workbook: no sheets found")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return &XLSXReader{file: f, rows: rows}, nil
}

// Read returns the next non-blank row, or io.EOF.
func (x *XLSXReader) Read() ([]string, error) {
	for x.rows.Next() {
		cols, err := x.rows.Columns()
		if err != nil {
			return nil, err
		}
		if !blank(cols) {
			return cols, nil
		}
	}
	if err := x.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases the workbook.
func (x *XLSXReader) Close() error {
	if err := x.rows.Close(); err != nil {
		x.file.Close()
		return err
	}
	return x.file.Close()
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type csvSource struct {
	*csv.Reader
	f *os.File
}

func (s csvSource) Close() error { return s.f.Close() }

// OpenRows opens path as a .csv or .xlsx row source.
func OpenRows(path string) (RowSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExt(ext) {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}

	if ext == ".csv" {
		return csvSource{Reader: NewCSVReader(f), f: f}, nil
	}

	defer f.Close()
	x, err := NewXLSXReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return x, nil
}
