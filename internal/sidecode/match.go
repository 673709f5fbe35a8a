package sidecode

import "unicode"

const (
	symbolLetter = 'X'
	symbolDigit  = '9'
	symbolAlnum  = '?'
)

// match reports whether every rune of plate satisfies the symbol at the same
// position of sideCode. The whole template is scanned so that an unsupported
// symbol is reported even after an earlier position mismatched.
func match(plate, sideCode string) (bool, error) {
	p := []rune(plate)
	s := []rune(sideCode)
	if len(p) != len(s) {
		return false, nil
	}

	matched := true
	for i, symbol := range s {
		ok, err := matchSymbol(symbol, p[i])
		if err != nil {
			return false, &UnsupportedSymbolError{Symbol: symbol, SideCode: sideCode}
		}
		matched = matched && ok
	}
	return matched, nil
}

func matchSymbol(symbol, r rune) (bool, error) {
	switch symbol {
	case symbolLetter:
		return unicode.IsLetter(r), nil
	case symbolDigit:
		return unicode.IsDigit(r), nil
	case symbolAlnum:
		return unicode.IsLetter(r) || unicode.IsDigit(r), nil
	case dash:
		return r == dash, nil
	default:
		return false, ErrUnsupportedSymbol
	}
}
