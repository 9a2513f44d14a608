package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/wdm0006/csvscrub/pkg/frame"
	iox "github.com/wdm0006/csvscrub/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to a CSV file with headers. The file is created or
// truncated; a .gz path is compressed and "-" writes to stdout.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write encodes the header and every row of f to out. No index column is
// written.
func Write(out io.Writer, f *frame.Frame, opt WriterOptions) error {
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	if err := writeRecord(w, out, f.Schema().Names()); err != nil {
		return err
	}
	row := make([]string, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c := range row {
			row[c] = formatCell(f.Column(c), r)
		}
		if err := writeRecord(w, out, row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeRecord writes rec, quoting a lone empty field so the line is not
// read back as blank.
func writeRecord(w *csv.Writer, out io.Writer, rec []string) error {
	if len(rec) == 1 && rec[0] == "" {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\"\"\n")
		return err
	}
	return w.Write(rec)
}

func formatCell(col frame.Column, r int) string {
	switch c := col.(type) {
	case *frame.FloatColumn:
		if v, ok := c.Get(r); ok {
			return frame.FormatFloat(v)
		}
	case *frame.IntColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatInt(v, 10)
		}
	case *frame.StringColumn:
		if v, ok := c.Get(r); ok {
			return v
		}
	}
	return ""
}
