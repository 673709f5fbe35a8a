package sidecode

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedSymbol = errors.New("unsupported sidecode symbol")

	ErrCountryNotFound  = fmt.Errorf("unsupported country: %w", ErrNotFound)
	ErrSideCodeNotFound = fmt.Errorf("no supported sidecode found for given plate and country: %w", ErrNotFound)
)

// UnsupportedSymbolError is returned when a registered sidecode contains a
// rune outside of X, 9, ? and -.
type UnsupportedSymbolError struct {
	Symbol   rune
	SideCode string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("invalid sidecode definition %q; cannot contain %q", e.SideCode, e.Symbol)
}

func (e *UnsupportedSymbolError) Is(target error) bool {
	return target == ErrUnsupportedSymbol
}
