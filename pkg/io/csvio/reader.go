package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wdm0006/csvscrub/pkg/frame"
	iox "github.com/wdm0006/csvscrub/pkg/io/ioutils"
)

// DefaultNullValues are the cell texts read as missing.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ErrNoHeader is returned when the input holds no header record.
var ErrNoHeader = errors.New("csvio: no columns to parse from input")

// RecordError reports a data record wider (or, in strict mode, narrower)
// than the header.
type RecordError struct {
	Line int
	Want int
	Got  int
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("csvio: line %d: expected %d fields, saw %d", e.Line, e.Want, e.Got)
}

type ReaderOptions struct {
	Delimiter  rune // default ','
	Sniff      bool // guess the delimiter from the first bytes
	LazyQuotes bool
	Encoding   string   // WHATWG label; empty = UTF-8
	NullValues []string // nil = DefaultNullValues
	InferTypes bool     // type columns as int/float when every value parses
	Strict     bool     // if true, error on short records
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	nulls map[string]struct{}
	// repair counters
	shortRecords int
}

// Open opens a CSV file (or stdin for "-") and returns a Reader and the
// closer for the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := newReader(rc, opt)
	if err != nil {
		_ = rc.Close()
		return nil, nil, err
	}
	return r, rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) (*Reader, error) {
	return newReader(r, opt)
}

func newReader(r io.Reader, opt ReaderOptions) (*Reader, error) {
	dr, err := iox.Decode(r, opt.Encoding)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(dr)
	if b, err := br.Peek(3); err == nil && string(b) == "\ufeff" {
		_, _ = br.Discard(3)
	}
	comma := opt.Delimiter
	if opt.Sniff {
		comma = sniffDelimiter(br)
	}
	if comma == 0 {
		comma = ','
	}
	rr := csv.NewReader(br)
	rr.Comma = comma
	rr.LazyQuotes = opt.LazyQuotes
	rr.FieldsPerRecord = -1
	nv := opt.NullValues
	if nv == nil {
		nv = DefaultNullValues
	}
	nulls := make(map[string]struct{}, len(nv))
	for _, v := range nv {
		nulls[v] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, nulls: nulls}, nil
}

// ReadFrame reads the header and every data record into a Frame.
func (r *Reader) ReadFrame() (*frame.Frame, error) {
	header, err := r.r.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	names, err := headerNames(header)
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.r.FieldPos(0)
		if len(rec) > len(names) {
			return nil, &RecordError{Line: line, Want: len(names), Got: len(rec)}
		}
		if len(rec) < len(names) {
			r.shortRecords++
			if r.opt.Strict {
				return nil, &RecordError{Line: line, Want: len(names), Got: len(rec)}
			}
		}
		for _, v := range rec {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("csvio: line %d: invalid UTF-8, set the input encoding", line)
			}
		}
		records = append(records, rec)
	}

	kinds := make([]frame.Kind, len(names))
	for i := range kinds {
		kinds[i] = frame.KindString
	}
	if r.opt.InferTypes {
		kinds = r.inferKinds(records, len(names))
	}
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = frame.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}

	f := frame.NewFrame(schema)
	for _, rec := range records {
		// append a null row then set non-missing values
		f.AppendNullRow()
		row := f.Rows() - 1
		for i, cs := range schema.Columns {
			if i >= len(rec) {
				break
			}
			val := rec[i]
			if r.isNull(val) {
				continue
			}
			var v any = val
			switch cs.Type {
			case frame.KindInt:
				v, _ = strconv.ParseInt(strings.TrimSpace(val), 10, 64)
			case frame.KindFloat:
				v, _ = strconv.ParseFloat(strings.TrimSpace(val), 64)
			}
			if err := f.SetCellAt(row, i, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func (r *Reader) isNull(v string) bool {
	_, ok := r.nulls[v]
	return ok
}

// headerNames validates the header record, strips a leading BOM, names
// empty headers and de-duplicates repeats as name.1, name.2, ...
func headerNames(rec []string) ([]string, error) {
	names := make([]string, len(rec))
	copy(names, rec)
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}
	for i, n := range names {
		if !utf8.ValidString(n) {
			return nil, errors.New("csvio: header: invalid UTF-8, set the input encoding")
		}
		if n == "" {
			names[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}
	counts := make(map[string]int, len(names))
	for i, col := range names {
		cur := counts[col]
		for cur > 0 {
			counts[col] = cur + 1
			col = col + "." + strconv.Itoa(cur)
			cur = counts[col]
		}
		names[i] = col
		counts[col] = cur + 1
	}
	return names, nil
}

func (r *Reader) inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		seen, integer, num := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) || r.isNull(row[c]) {
				continue
			}
			seen++
			v := strings.TrimSpace(row[c])
			if _, err := strconv.ParseInt(v, 10, 64); err == nil {
				integer++
				num++
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				num++
				continue
			}
			break
		}
		switch {
		case seen == 0:
			// all missing reads as float, like an all-NaN column
			kinds[c] = frame.KindFloat
		case integer == seen:
			kinds[c] = frame.KindInt
		case num == seen:
			kinds[c] = frame.KindFloat
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds
}

func sniffDelimiter(br *bufio.Reader) rune {
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ','
	}
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	return rune(best)
}

// Warnings returns a summary string of any repairs encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 {
		return ""
	}
	return fmt.Sprintf("short_records=%d", r.shortRecords)
}
