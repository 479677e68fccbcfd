package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors raised while loading and transforming a study workbook.
// Callers match them with errors.Is; the wrapping error carries the detail.
var (
	ErrMissingColumn  = errors.New("missing column")
	ErrParse          = errors.New("parse error")
	ErrDuplicateDate  = errors.New("duplicate date")
	ErrNoData         = errors.New("no data rows")
	ErrEmptySeries    = errors.New("series has no plottable values")
	ErrInvalidWindow  = errors.New("invalid window")
	ErrLengthMismatch = errors.New("score series length does not match table")
	ErrUnsorted       = errors.New("dates not in ascending order")
)

// MissingColumnError creates a lookup error for a header that is not present
func MissingColumnError(column, sheet string) error {
	return fmt.Errorf("%w: %q not found in sheet %q", ErrMissingColumn, column, sheet)
}

// ParseCellError creates a parse error for a single cell.
// row is the 1-based worksheet row number.
func ParseCellError(column string, row int, value string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: column %q row %d value %q: %v", ErrParse, column, row, value, cause)
	}
	return fmt.Errorf("%w: column %q row %d value %q", ErrParse, column, row, value)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
