package dictionary

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes one line per entry to w, in Range order, as the key
// right-aligned in 20 columns, a tab, and the value in brackets:
//
//	               alpha	[one]
//	                beta	[UNDEF]
//
// Undefined values are written as UNDEF. The format is meant for debugging
// but is stable.
//
// An empty table is reported and nothing is written. A nil or destroyed table
// or a nil writer is reported and returns an error wrapping ErrInvalidInput.
func (t *Table) Dump(w io.Writer) error {
	if err := t.valid("dump"); err != nil {
		return err
	}
	if w == nil {
		t.reportf("dictionary: dump: nil writer")
		return fmt.Errorf("dump: %w", ErrInvalidInput)
	}
	if t.count == 0 {
		t.reportf("dictionary: dump: empty dictionary")
		return nil
	}

	bw := bufio.NewWriter(w)
	var err error
	t.Range(func(key string, v Value) bool {
		_, err = fmt.Fprintf(bw, "%20s\t[%s]\n", key, v.dumpText())
		return err == nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
