/*
Package tabular turns raw report exports into an in-memory table of strings.

PURPOSE:
  The point-of-sale platform exports its reports as semicolon-delimited text
  in a legacy 8-bit encoding (ISO-8859-1). This package owns the mechanics of
  turning those bytes into header + rows, binding headers to canonical field
  names and coercing numeric cells. It has NO knowledge of sales or costs.

KEY CONCEPTS IN THIS FILE (table.go):
  - Table:       Header row plus data rows, every cell a string
  - ReadOptions: Delimiter and text encoding of a delimited export
  - Read:        Bytes -> Table (delimited text or XLSX workbook)

SOURCE FORMATS:
  1. Delimited text (default): ';' separated, decoded from Latin-1
  2. XLSX workbook: detected by the zip signature, first sheet only

  Callers never choose the format. A byte stream is a byte stream, whether
  it came from disk or from an upload.

HEADER CLEANUP:
  Stray '"' characters and surrounding whitespace are removed from every
  header cell. Case is left alone here; schema binding compares headers
  case-insensitively (see schema.go).

SEE ALSO:
  - schema.go:  Declarative header binding
  - numeric.go: Cell -> decimal coercion
  - errors.go:  Structural errors
*/
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// =============================================================================
// TABLE
// =============================================================================

// Source is the container an export was read from.
type Source string

const (
	SourceDelimited Source = "delimited"
	SourceWorkbook  Source = "workbook"
)

// Table is a parsed export. Rows may be shorter than Headers; missing
// trailing cells read as empty strings.
type Table struct {
	Headers []string
	Rows    [][]string
	Source  Source
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Cell returns the cell at column idx of row, or "" when the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// =============================================================================
// READ OPTIONS
// =============================================================================

// ReadOptions controls how delimited text is parsed.
type ReadOptions struct {
	Delimiter rune
	Encoding  encoding.Encoding
}

// DefaultReadOptions matches the upstream export: ';' and Latin-1.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Delimiter: ';',
		Encoding:  charmap.ISO8859_1,
	}
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ';'
	}
	if o.Encoding == nil {
		o.Encoding = charmap.ISO8859_1
	}
	return o
}

// =============================================================================
// READ
// =============================================================================

var zipSignature = []byte("PK\x03\x04")

// Read parses data into a Table. Workbooks are recognised by their zip
// signature; anything else is treated as delimited text.
func Read(data []byte, opts ReadOptions) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &StructuralError{Op: "read", Err: ErrEmptySource}
	}
	if bytes.HasPrefix(data, zipSignature) {
		return readWorkbook(data)
	}
	return readDelimited(data, opts.withDefaults())
}

// ReadFrom drains r and parses it with Read.
func ReadFrom(r io.Reader, opts ReadOptions) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &StructuralError{Op: "read", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	return Read(data, opts)
}

func readDelimited(data []byte, opts ReadOptions) (*Table, error) {
	decoded := transform.NewReader(bytes.NewReader(data), opts.Encoding.NewDecoder())

	reader := csv.NewReader(decoded)
	reader.Comma = opts.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &StructuralError{Op: "read header", Err: ErrEmptySource}
		}
		return nil, &StructuralError{Op: "read header", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}

	t := &Table{Headers: cleanHeaders(header), Source: SourceDelimited}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &StructuralError{Op: "read rows", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

func readWorkbook(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &StructuralError{Op: "open workbook", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &StructuralError{Op: "open workbook", Err: ErrEmptySource}
	}

	// Raw values keep numeric cells as stored ("150.5"), not as displayed
	// through the workbook's number format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &StructuralError{Op: "read sheet", Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	if len(rows) == 0 {
		return nil, &StructuralError{Op: "read sheet", Err: ErrEmptySource}
	}

	return &Table{Headers: cleanHeaders(rows[0]), Rows: rows[1:], Source: SourceWorkbook}, nil
}

func cleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = CleanHeader(h)
	}
	return out
}

// CleanHeader strips quote characters and surrounding whitespace.
func CleanHeader(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
}

// EncodeLatin1 encodes UTF-8 text the way the upstream export stores it.
// Runes outside Latin-1 are an error.
func EncodeLatin1(s string) ([]byte, error) {
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("encode latin-1: %w", err)
	}
	return []byte(out), nil
}
