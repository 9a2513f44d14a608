// Package profile summarises the columns of a frame.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wdm0006/csvscrub/pkg/frame"
)

type NumStats struct {
	Min float64
	Max float64
	Sum float64
}

type StringStats struct {
	TopK  int
	Freqs map[string]int
}

type ColumnProfile struct {
	Name  string
	Kind  frame.Kind
	Count int
	Nulls int
	Num   *NumStats
	Str   *StringStats
}

type Collector struct {
	cols []ColumnProfile
	topK int
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{topK: topK, cols: make([]ColumnProfile, len(schema.Columns))}
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case frame.KindString:
			cp.Str = &StringStats{TopK: topK, Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
	}
	return c
}

// ConsumeFrame accumulates statistics column by column. The frame must
// share the collector's schema.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	for idx := 0; idx < f.Cols() && idx < len(c.cols); idx++ {
		cp := &c.cols[idx]
		switch col := f.Column(idx).(type) {
		case *frame.FloatColumn:
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					cp.Nulls++
					continue
				}
				v, _ := col.Get(i)
				cp.Count++
				cp.Num.add(v)
			}
		case *frame.IntColumn:
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					cp.Nulls++
					continue
				}
				v, _ := col.Get(i)
				cp.Count++
				cp.Num.add(float64(v))
			}
		case *frame.StringColumn:
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					cp.Nulls++
					continue
				}
				v, _ := col.Get(i)
				cp.Count++
				if c.topK > 0 {
					cp.Str.Freqs[v]++
				}
			}
		}
	}
}

func (n *NumStats) add(v float64) {
	if v < n.Min {
		n.Min = v
	}
	if v > n.Max {
		n.Max = v
	}
	n.Sum += v
}

func (c *Collector) Columns() []ColumnProfile { return c.cols }

// TotalNulls is the number of null cells seen across all columns.
func (c *Collector) TotalNulls() int {
	n := 0
	for _, cp := range c.cols {
		n += cp.Nulls
	}
	return n
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s (%v): count=%d nulls=%d", cp.Name, cp.Kind, cp.Count, cp.Nulls)
		switch {
		case cp.Num != nil:
			if cp.Count == 0 {
				b.WriteString("\n")
				continue
			}
			mean := cp.Num.Sum / float64(cp.Count)
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g\n", cp.Num.Min, cp.Num.Max, mean)
		case cp.Str != nil:
			b.WriteString("\n")
			type kv struct {
				k string
				v int
			}
			arr := make([]kv, 0, len(cp.Str.Freqs))
			for k, v := range cp.Str.Freqs {
				arr = append(arr, kv{k, v})
			}
			sort.Slice(arr, func(i, j int) bool {
				if arr[i].v != arr[j].v {
					return arr[i].v > arr[j].v
				}
				return arr[i].k < arr[j].k
			})
			n := c.topK
			if n > len(arr) {
				n = len(arr)
			}
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "  • %q: %d\n", arr[i].k, arr[i].v)
			}
		default:
			b.WriteString("\n")
		}
	}
	return b.String()
}
