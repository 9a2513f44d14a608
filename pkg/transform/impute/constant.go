package impute

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wdm0006/csvscrub/pkg/frame"
)

// Constant fills null cells with Value. An empty Columns list targets every
// column. Value is coerced per column kind: numeric columns need a numeric
// value, string columns receive its text form.
type Constant struct {
	Columns []string
	Value   any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if len(t.Columns) == 0 {
		for i := 0; i < f.Cols(); i++ {
			if err := t.fill(f.Column(i)); err != nil {
				return f, err
			}
		}
		return f, nil
	}
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			continue
		}
		if err := t.fill(col); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (t *Constant) fill(col frame.Column) error {
	switch c := col.(type) {
	case *frame.FloatColumn:
		var vv float64
		switch v := t.Value.(type) {
		case int:
			vv = float64(v)
		case int64:
			vv = float64(v)
		case float64:
			vv = v
		default:
			return fmt.Errorf("column %s: cannot fill float column with %v (%T)", c.Name(), t.Value, t.Value)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	case *frame.IntColumn:
		var vv int64
		switch v := t.Value.(type) {
		case int:
			vv = int64(v)
		case int64:
			vv = v
		case float64:
			vv = int64(v)
		default:
			return fmt.Errorf("column %s: cannot fill int column with %v (%T)", c.Name(), t.Value, t.Value)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	case *frame.StringColumn:
		vv := FormatValue(t.Value)
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	}
	return nil
}

// ParseValue reads a configured fill value: integers first, then floats,
// falling back to the raw text.
func ParseValue(s string) any {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

// FormatValue renders a fill value as cell text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return frame.FormatFloat(t)
	default:
		return fmt.Sprint(t)
	}
}
