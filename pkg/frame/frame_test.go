package frame

import (
	"context"
	"testing"
)

func makeFrame(rows int) *Frame {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindFloat, Nullable: true}, {Name: "b", Type: KindInt, Nullable: true}, {Name: "s", Type: KindString, Nullable: true}}}
	f := NewFrame(s)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", float64(i%100))
		_ = f.SetCell(i, "b", int64(i))
		_ = f.SetCell(i, "s", "x")
	}
	return f
}

func TestSliceKeepsPrefixInOrder(t *testing.T) {
	f := makeFrame(25)
	cases := []struct {
		start, end, want int
	}{
		{0, 10, 10},
		{0, 100, 25},
		{-3, 2, 2},
		{30, 40, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		out := f.Slice(tc.start, tc.end)
		if out.Rows() != tc.want {
			t.Fatalf("Slice(%d,%d): expected %d rows, got %d", tc.start, tc.end, tc.want, out.Rows())
		}
		b, _ := out.ColumnByName("b")
		if b.Len() != tc.want {
			t.Fatalf("Slice(%d,%d): column len %d", tc.start, tc.end, b.Len())
		}
		for i := 0; i < out.Rows(); i++ {
			v, _ := b.(*IntColumn).Get(i)
			if v != int64(i) {
				t.Fatalf("row %d out of order, got b=%d", i, v)
			}
		}
	}
}

func TestSliceIsIndependent(t *testing.T) {
	f := makeFrame(3)
	out := f.Slice(0, 2)
	_ = out.SetCell(0, "s", "changed")
	col, _ := f.ColumnByName("s")
	if v, _ := col.(*StringColumn).Get(0); v != "x" {
		t.Fatalf("slice aliased source, got %q", v)
	}
}

func TestRenameColumnWithDuplicates(t *testing.T) {
	s := Schema{Columns: []ColumnSchema{{Name: "a", Type: KindString}, {Name: "b", Type: KindString}}}
	f := NewFrame(s)
	f.AppendNullRow()
	_ = f.SetCellAt(0, 1, "second")
	if err := f.RenameColumn(1, "a"); err != nil {
		t.Fatal(err)
	}
	if got := f.Schema().Names(); got[0] != "a" || got[1] != "a" {
		t.Fatalf("unexpected names %v", got)
	}
	if _, ok := f.ColumnByName("b"); ok {
		t.Fatal("old name still resolves")
	}
	if c, _ := f.ColumnByName("a"); c != f.Column(0) {
		t.Fatal("duplicate name should resolve to first column")
	}
	if f.Column(1).Name() != "a" {
		t.Fatalf("column not renamed, got %q", f.Column(1).Name())
	}
	if err := f.RenameColumn(2, "c"); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestSetCellTypeMismatch(t *testing.T) {
	f := makeFrame(1)
	if err := f.SetCell(0, "s", 3); err == nil {
		t.Fatal("expected type error for string column")
	}
	if err := f.SetCell(0, "missing", "v"); err == nil {
		t.Fatal("expected unknown column error")
	}
	if err := f.SetCell(0, "a", nil); err != nil {
		t.Fatal(err)
	}
	a, _ := f.ColumnByName("a")
	if !a.IsNull(0) {
		t.Fatal("nil should mark cell null")
	}
}

type noopTransform struct{}

func (n *noopTransform) Name() string                                        { return "noop" }
func (n *noopTransform) Apply(ctx context.Context, f *Frame) (*Frame, error) { return f, nil }

func BenchmarkPipeline(b *testing.B) {
	f := makeFrame(100000)
	p := NewPipeline().Add(&noopTransform{}).Add(&noopTransform{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.Run(context.Background(), f)
	}
}

func BenchmarkSliceHead(b *testing.B) {
	f := makeFrame(100000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Slice(0, 10)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{2.5, "2.5"},
		{1500000.5, "1500000.5"},
		{123456789.25, "123456789.25"},
		{-1e6, "-1000000"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
	}
	for _, tc := range cases {
		if got := FormatFloat(tc.in); got != tc.want {
			t.Fatalf("FormatFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
