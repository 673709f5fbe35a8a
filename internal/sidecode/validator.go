// Package sidecode validates and formats license plates against per-country
// sidecode templates.
//
// A sidecode is a positional pattern built from four symbols: X (letter),
// 9 (digit), ? (letter or digit) and - (a literal dash). Templates of a
// country are tried in registration order and the first match wins.
// Template symbols are validated lazily, only when a template is compared
// against a plate of the same length.
package sidecode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultCountry is the only country known to a Validator built with New.
const DefaultCountry = "NL"

var dutchSideCodes = []string{
	"XX-99-99",
	"99-99-XX",
	"99-XX-99",
	"XX-99-XX",
	"XX-XX-99",
	"99-XX-XX",
	"99-XXX-9",
	"9-XXX-99",
	"XX-999-X",
	"X-999-XX",
	"XXX-99-X",
	"X-99-XXX",
	"9-XX-999",
	"999-XX-9",
}

// DefaultRegistry returns a copy of the built-in Dutch registry.
func DefaultRegistry() map[string][]string {
	return map[string][]string{
		DefaultCountry: append([]string(nil), dutchSideCodes...),
	}
}

// Validator holds an immutable country registry and is safe for concurrent use.
type Validator struct {
	sideCodes map[string][]string
}

// New returns a Validator that only supports Dutch sidecodes.
func New() *Validator {
	v, _ := NewWithRegistry(DefaultRegistry())
	return v
}

// NewWithRegistry returns a Validator for the given countries. The registry
// replaces the built-in default entirely and is copied, so later changes to
// the map do not affect the Validator.
func NewWithRegistry(registry map[string][]string) (*Validator, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is nil: %w", ErrInvalidArgument)
	}

	sideCodes := make(map[string][]string, len(registry))
	for country, codes := range registry {
		key := countryKey(country)
		if _, exists := sideCodes[key]; exists {
			return nil, fmt.Errorf("duplicate country %q: %w", country, ErrInvalidArgument)
		}
		sideCodes[key] = append([]string(nil), codes...)
	}

	return &Validator{sideCodes: sideCodes}, nil
}

// Countries returns the registered country codes in sorted order.
func (v *Validator) Countries() []string {
	countries := make([]string, 0, len(v.sideCodes))
	for country := range v.sideCodes {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	return countries
}

// SideCodes returns a copy of the ordered sidecodes registered for country.
func (v *Validator) SideCodes(country string) ([]string, error) {
	codes, err := v.countrySideCodes(country)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), codes...), nil
}

// FindSideCode returns the first sidecode matching plate. Callers usually pass
// ignoreDashes=false so that dash placement is part of the match.
func (v *Validator) FindSideCode(plate, country string, ignoreDashes bool) (string, error) {
	sideCode, ok, err := v.TryFindSideCode(plate, country, ignoreDashes)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSideCodeNotFound
	}
	return sideCode, nil
}

// TryFindSideCode behaves like FindSideCode but reports a missing match with
// ok=false instead of an error.
func (v *Validator) TryFindSideCode(plate, country string, ignoreDashes bool) (sideCode string, ok bool, err error) {
	normalized, present := Normalize(plate, ignoreDashes)
	if !present {
		return "", false, fmt.Errorf("plate is empty: %w", ErrInvalidArgument)
	}

	codes, err := v.countrySideCodes(country)
	if err != nil {
		return "", false, err
	}

	for _, code := range codes {
		candidate := code
		if ignoreDashes {
			candidate = removeDashes(code)
		}
		matched, err := match(normalized, candidate)
		if err != nil {
			var symbolErr *UnsupportedSymbolError
			if errors.As(err, &symbolErr) {
				symbolErr.SideCode = code
			}
			return "", false, err
		}
		if matched {
			return code, true, nil
		}
	}
	return "", false, nil
}

// FormatPlate returns plate laid out in the dash positions of its sidecode.
// Callers usually pass ignoreDashes=true so that any dash placement in the
// input is accepted.
func (v *Validator) FormatPlate(plate, country string, ignoreDashes bool) (string, error) {
	formatted, ok, err := v.TryFormatPlate(plate, country, ignoreDashes)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrSideCodeNotFound
	}
	return formatted, nil
}

// TryFormatPlate behaves like FormatPlate but reports a missing match with
// ok=false instead of an error.
func (v *Validator) TryFormatPlate(plate, country string, ignoreDashes bool) (formatted string, ok bool, err error) {
	sideCode, ok, err := v.TryFindSideCode(plate, country, ignoreDashes)
	if err != nil || !ok {
		return "", false, err
	}

	stripped, _ := Normalize(plate, true)
	return format(stripped, sideCode), true, nil
}

// IsValidPlate reports whether plate matches one of the country's sidecodes.
// With ignoreDashes the plate only has to be formattable; without it the dash
// placement has to match exactly.
func (v *Validator) IsValidPlate(plate, country string, ignoreDashes bool) (bool, error) {
	if ignoreDashes {
		_, ok, err := v.TryFormatPlate(plate, country, true)
		return ok, err
	}
	_, ok, err := v.TryFindSideCode(plate, country, false)
	return ok, err
}

func (v *Validator) countrySideCodes(country string) ([]string, error) {
	codes, ok := v.sideCodes[countryKey(country)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", country, ErrCountryNotFound)
	}
	return codes, nil
}

func countryKey(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}
