// Package headers rewrites column names.
package headers

import (
	"context"
	"strings"

	"github.com/wdm0006/csvscrub/pkg/frame"
)

// Strip removes every occurrence of each rune in Chars from all column names.
type Strip struct {
	Chars string
}

func (t *Strip) Name() string { return "strip_headers" }

func (t *Strip) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.Chars == "" {
		return f, nil
	}
	for i, cs := range f.Schema().Columns {
		name := strings.Map(func(r rune) rune {
			if strings.ContainsRune(t.Chars, r) {
				return -1
			}
			return r
		}, cs.Name)
		if name == cs.Name {
			continue
		}
		if err := f.RenameColumn(i, name); err != nil {
			return f, err
		}
	}
	return f, nil
}
