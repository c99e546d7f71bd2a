// Package importer turns raw CSV text into validated domain rows. It is
// pure: tokenizing, header mapping and row conversion never touch storage.
package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile aborts an import before any row is processed.
	ErrEmptyFile = errors.New("file is empty")
	// ErrRowTooShort marks a data row shorter than the highest required
	// column index.
	ErrRowTooShort = errors.New("row has fewer columns than the header requires")
)

// FileAccessError wraps an I/O failure opening or reading the import file.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %q: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// FormatError is a structural problem with the file as a whole, such as a
// header missing required columns. It aborts the import.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format: %s", e.Reason)
}

// MissingFieldError reports a required semantic column absent from the
// header row.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required column %q", string(e.Field))
}

// EmptyFieldError reports a required field present in the header but empty
// in a data row.
type EmptyFieldError struct {
	Field Field
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("required field %q is empty", string(e.Field))
}

// DateFormatError reports an unparsable date value.
type DateFormatError struct {
	Raw string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date format: %q", e.Raw)
}

// AmountFormatError reports an unparsable amount value.
type AmountFormatError struct {
	Raw string
}

func (e *AmountFormatError) Error() string {
	return fmt.Sprintf("invalid amount format: %q", e.Raw)
}

// RowError ties a per-row failure to its 1-based line number in the file
// (data rows start at line 2, after the header).
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Warning is a recoverable oddity worth surfacing without failing the row.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s", w.Line, w.Message)
}
