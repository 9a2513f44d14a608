package csvio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wdm0006/csvscrub/pkg/frame"
)

func readString(t *testing.T, in string, opt ReaderOptions) *frame.Frame {
	t.Helper()
	r, err := NewReaderFrom(strings.NewReader(in), opt)
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func cell(t *testing.T, f *frame.Frame, row, col int) (string, bool) {
	t.Helper()
	c, ok := f.Column(col).(*frame.StringColumn)
	if !ok {
		t.Fatalf("column %d is %v, not string", col, f.Column(col).Kind())
	}
	return c.Get(row)
}

func TestReadFrameQuotedHeaders(t *testing.T) {
	f := readString(t, "\"Name\",\"Amount\"\n\"A\",\n\"B\",5\n", ReaderOptions{LazyQuotes: true})
	if got := strings.Join(f.Schema().Names(), ","); got != "Name,Amount" {
		t.Fatalf("unexpected header %q", got)
	}
	if f.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", f.Rows())
	}
	if _, ok := cell(t, f, 0, 1); ok {
		t.Fatal("blank cell should be null")
	}
	if v, ok := cell(t, f, 1, 1); !ok || v != "5" {
		t.Fatalf("expected 5, got %q %v", v, ok)
	}
}

func TestReadFrameLiteralQuotesInHeader(t *testing.T) {
	// doubled quotes and lazy bare quotes both survive parsing
	f := readString(t, "\"\"\"Name\"\"\",Am\"ount\nx,1\n", ReaderOptions{LazyQuotes: true})
	names := f.Schema().Names()
	if names[0] != `"Name"` || names[1] != `Am"ount` {
		t.Fatalf("unexpected names %q", names)
	}
}

func TestReadFrameBareQuoteStrict(t *testing.T) {
	r, _ := NewReaderFrom(strings.NewReader("Am\"ount\n1\n"), ReaderOptions{})
	if _, err := r.ReadFrame(); err == nil {
		t.Fatal("expected parse error without lazy quotes")
	}
}

func TestReadFrameNullTokens(t *testing.T) {
	in := "a\nNA\nnull\n#N/A\nNaN\n NA \nNone\nvalue\n"
	f := readString(t, in, ReaderOptions{})
	want := []bool{false, false, false, false, true, false, true}
	for i, w := range want {
		if _, ok := cell(t, f, i, 0); ok != w {
			t.Fatalf("row %d: present=%v, want %v", i, ok, w)
		}
	}
	f = readString(t, in, ReaderOptions{NullValues: []string{"", "None"}})
	if _, ok := cell(t, f, 0, 0); !ok {
		t.Fatal("custom null list should keep NA")
	}
	if _, ok := cell(t, f, 5, 0); ok {
		t.Fatal("custom null list should drop None")
	}
}

func TestHeaderNames(t *testing.T) {
	cases := []struct {
		in, want []string
	}{
		{[]string{"A", "A", "A.1"}, []string{"A", "A.1", "A.1.1"}},
		{[]string{"A", "B", "A", "A"}, []string{"A", "B", "A.1", "A.2"}},
		{[]string{"", "x", ""}, []string{"Unnamed: 0", "x", "Unnamed: 2"}},
		{[]string{"\ufeffid", "v"}, []string{"id", "v"}},
	}
	for _, tc := range cases {
		got, err := headerNames(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Fatalf("headerNames(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReadFrameBOMBeforeQuotedHeader(t *testing.T) {
	f := readString(t, "\ufeff\"Name\",\"Amount\"\nA,1\n", ReaderOptions{})
	if got := f.Schema().Names()[0]; got != "Name" {
		t.Fatalf("BOM not stripped, got %q", got)
	}
}

func TestReadFrameRecordWidth(t *testing.T) {
	r, _ := NewReaderFrom(strings.NewReader("a,b\n1,2,3\n"), ReaderOptions{})
	_, err := r.ReadFrame()
	var re *RecordError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecordError, got %v", err)
	}
	if re.Line != 2 || re.Want != 2 || re.Got != 3 {
		t.Fatalf("unexpected record error %+v", re)
	}

	r, _ = NewReaderFrom(strings.NewReader("a,b,c\n1\n4,5,6\n"), ReaderOptions{})
	f, err := r.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cell(t, f, 0, 2); ok {
		t.Fatal("short record should pad with nulls")
	}
	if v, _ := cell(t, f, 1, 2); v != "6" {
		t.Fatalf("expected 6, got %q", v)
	}
	if w := r.Warnings(); w != "short_records=1" {
		t.Fatalf("unexpected warnings %q", w)
	}

	r, _ = NewReaderFrom(strings.NewReader("a,b,c\n1\n"), ReaderOptions{Strict: true})
	if _, err := r.ReadFrame(); !errors.As(err, &re) {
		t.Fatalf("strict mode should reject short record, got %v", err)
	}
}

func TestReadFrameEmpty(t *testing.T) {
	r, _ := NewReaderFrom(strings.NewReader(""), ReaderOptions{})
	if _, err := r.ReadFrame(); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
	f := readString(t, "a,b\n", ReaderOptions{})
	if f.Rows() != 0 || f.Cols() != 2 {
		t.Fatalf("header-only input: got %d rows %d cols", f.Rows(), f.Cols())
	}
}

func TestReadFrameInferTypes(t *testing.T) {
	in := "i,f,s,e\n1,1.5,x,\n,2,3,\n-4,,y,\n"
	f := readString(t, in, ReaderOptions{InferTypes: true})
	want := []frame.Kind{frame.KindInt, frame.KindFloat, frame.KindString, frame.KindFloat}
	for i, k := range want {
		if got := f.Schema().Columns[i].Type; got != k {
			t.Fatalf("column %d: kind %v, want %v", i, got, k)
		}
	}
	i := f.Column(0).(*frame.IntColumn)
	if v, _ := i.Get(2); v != -4 {
		t.Fatalf("expected -4, got %d", v)
	}
	if !i.IsNull(1) {
		t.Fatal("blank int should be null")
	}
	s := f.Column(2).(*frame.StringColumn)
	if v, _ := s.Get(1); v != "3" {
		t.Fatalf("mixed column should keep text, got %q", v)
	}
}

func TestReadFrameSniffAndEncoding(t *testing.T) {
	f := readString(t, "a;b\n1;2\n", ReaderOptions{Sniff: true})
	if f.Cols() != 2 {
		t.Fatalf("expected sniffed ';' delimiter, got %d cols", f.Cols())
	}
	f = readString(t, "caf\xe9\nna\xefve\n", ReaderOptions{Encoding: "latin1"})
	if f.Schema().Names()[0] != "café" {
		t.Fatalf("unexpected header %q", f.Schema().Names()[0])
	}
	if v, _ := cell(t, f, 0, 0); v != "naïve" {
		t.Fatalf("unexpected cell %q", v)
	}
	r, _ := NewReaderFrom(strings.NewReader("caf\xe9\n"), ReaderOptions{})
	if _, err := r.ReadFrame(); err == nil {
		t.Fatal("expected invalid UTF-8 error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "absent.csv"), ReaderOptions{})
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
