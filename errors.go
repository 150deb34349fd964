package sheetmem

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sheetmem/internal/resource"
)

var (
	// ErrOutOfRange is returned for rows or columns outside the sheet limits.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidArgument is returned for negative counts and non-positive steps.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfig is returned by NewSheet for unusable limits.
	ErrInvalidConfig = errors.New("invalid sheet config")

	// ErrMemoryLimitExceeded is returned when the memory budget cannot cover
	// a column allocation.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrClosed is returned by operations on a closed Sheet.
	ErrClosed = errors.New("sheet closed")
)

// ErrCellOutOfRange indicates a cell coordinate outside the sheet.
//
// It matches ErrOutOfRange with errors.Is.
type ErrCellOutOfRange struct {
	Row    int
	Col    int
	MaxRow int
	MaxCol int
}

func (e *ErrCellOutOfRange) Error() string {
	return fmt.Sprintf("cell (%d, %d) out of range [0, %d]x[0, %d]", e.Row, e.Col, e.MaxRow, e.MaxCol)
}

func (e *ErrCellOutOfRange) Unwrap() error { return ErrOutOfRange }

// ErrInvalidLimit indicates an invalid SheetConfig field.
//
// It matches ErrInvalidConfig with errors.Is.
type ErrInvalidLimit struct {
	Field string
	Value int
}

func (e *ErrInvalidLimit) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.Value)
}

func (e *ErrInvalidLimit) Unwrap() error { return ErrInvalidConfig }
