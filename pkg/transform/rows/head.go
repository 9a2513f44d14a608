// Package rows selects subsets of rows.
package rows

import (
	"context"
	"fmt"

	"github.com/wdm0006/csvscrub/pkg/frame"
)

// Head keeps the first N rows in their original order.
type Head struct{ N int }

func (t *Head) Name() string { return "head" }

func (t *Head) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.N < 0 {
		return f, fmt.Errorf("negative row count %d", t.N)
	}
	return f.Slice(0, t.N), nil
}
