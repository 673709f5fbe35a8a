package sidecode

import "strings"

// format lays the dash-free plate out over sideCode. The caller guarantees
// that the plate matched the dash-free form of sideCode.
func format(plate, sideCode string) string {
	p := []rune(plate)

	var b strings.Builder
	b.Grow(len(sideCode) + len(plate))

	i := 0
	for _, symbol := range sideCode {
		if symbol == dash {
			b.WriteRune(dash)
			continue
		}
		b.WriteRune(p[i])
		i++
	}
	return b.String()
}
