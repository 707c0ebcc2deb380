package xlsx

import (
	"errors"
	"fmt"
)

// ErrMismatch is returned by Verify when a workbook read back from disk does
// not match the model it was written from.
var ErrMismatch = errors.New("xlsx: workbook does not match model")

// Verify compares a model read back with ParseWorkbookModel against the
// model that was written: sheet names and order, every non-blank cell value,
// every merged region and the style of every cell present in both. Font
// weight and slant are left out of the style comparison because
// ParseWorkbookModel does not read them.
func Verify(want, got WorkbookModel) error {
	if len(want.Sheets) != len(got.Sheets) {
		return fmt.Errorf("%w: %d sheets, want %d", ErrMismatch, len(got.Sheets), len(want.Sheets))
	}
	var errs []error
	for i, ws := range want.Sheets {
		gs := got.Sheets[i]
		if ws.Name != gs.Name {
			errs = append(errs, fmt.Errorf("sheet %d named %q, want %q", i, gs.Name, ws.Name))
			continue
		}
		for r, row := range ws.Rows {
			for c, wc := range row.Cells {
				if wc == nil {
					continue
				}
				gc := gs.Cell(r, c)
				if wc.Value != "" && (gc == nil || gc.Value != wc.Value) {
					errs = append(errs, fmt.Errorf("%s!%s = %q, want %q", ws.Name, wc.Ref, gs.Value(r, c), wc.Value))
					continue
				}
				if gc == nil {
					continue
				}
				if gc.ColSpan != max(1, wc.ColSpan) || gc.RowSpan != max(1, wc.RowSpan) {
					errs = append(errs, fmt.Errorf("%s!%s spans %dx%d, want %dx%d", ws.Name, wc.Ref, gc.RowSpan, gc.ColSpan, wc.RowSpan, wc.ColSpan))
				}
				if w, g := readableStyle(wc.Style), readableStyle(gc.Style); w != g {
					errs = append(errs, fmt.Errorf("%s!%s style {%s}, want {%s}", ws.Name, wc.Ref, g, w))
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMismatch, errors.Join(errs...))
	}
	return nil
}

// readableStyle drops the parts of s that do not survive a read back.
func readableStyle(s CellStyle) CellStyle {
	s.Bold, s.Italic = false, false
	return s
}
