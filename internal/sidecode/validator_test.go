package sidecode_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"plate-service/internal/sidecode"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewWithRegistry(t *testing.T) {
	t.Run("nil registry", func(t *testing.T) {
		v, err := sidecode.NewWithRegistry(nil)
		require.ErrorIs(t, err, sidecode.ErrInvalidArgument)
		assert.Nil(t, v)
	})

	t.Run("duplicate country under case folding", func(t *testing.T) {
		_, err := sidecode.NewWithRegistry(map[string][]string{
			"xx": {"XX-99"},
			"XX": {"99-XX"},
		})
		require.ErrorIs(t, err, sidecode.ErrInvalidArgument)
	})

	t.Run("replaces the default", func(t *testing.T) {
		v, err := sidecode.NewWithRegistry(map[string][]string{"XX": {"XX-99-XX"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"XX"}, v.Countries())

		_, err = v.IsValidPlate("AB-12-34", "NL", false)
		assert.ErrorIs(t, err, sidecode.ErrCountryNotFound)
	})

	t.Run("copies the registry", func(t *testing.T) {
		codes := []string{"XX-99-XX"}
		registry := map[string][]string{"XX": codes}
		v, err := sidecode.NewWithRegistry(registry)
		require.NoError(t, err)

		codes[0] = "99-99-99"
		registry["YY"] = []string{"X"}

		got, err := v.SideCodes("xx")
		require.NoError(t, err)
		assert.Equal(t, []string{"XX-99-XX"}, got)
		assert.Equal(t, []string{"XX"}, v.Countries())
	})

	t.Run("empty registry", func(t *testing.T) {
		v, err := sidecode.NewWithRegistry(map[string][]string{})
		require.NoError(t, err)
		assert.Empty(t, v.Countries())
	})
}

func TestNew_DefaultRegistry(t *testing.T) {
	v := sidecode.New()
	assert.Equal(t, []string{"NL"}, v.Countries())

	codes, err := v.SideCodes("nl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"XX-99-99", "99-99-XX", "99-XX-99", "XX-99-XX", "XX-XX-99", "99-XX-XX", "99-XXX-9",
		"9-XXX-99", "XX-999-X", "X-999-XX", "XXX-99-X", "X-99-XXX", "9-XX-999", "999-XX-9",
	}, codes)

	codes[0] = "changed"
	again, err := v.SideCodes("NL")
	require.NoError(t, err)
	assert.Equal(t, "XX-99-99", again[0])
}

func TestFormatPlate(t *testing.T) {
	v := sidecode.New()

	tests := []struct {
		plate        string
		ignoreDashes bool
		expected     string
	}{
		{"AB1234", true, "AB-12-34"},
		{"1234AB", true, "12-34-AB"},
		{"12AB34", true, "12-AB-34"},
		{"AB12CD", true, "AB-12-CD"},
		{"ABCD12", true, "AB-CD-12"},
		{"12ABCD", true, "12-AB-CD"},
		{"12ABC3", true, "12-ABC-3"},
		{"1ABC23", true, "1-ABC-23"},
		{"AB123C", true, "AB-123-C"},
		{"A123BC", true, "A-123-BC"},
		{"ABC12D", true, "ABC-12-D"},
		{"A12BCD", true, "A-12-BCD"},
		{"1AB234", true, "1-AB-234"},
		{"123AB4", true, "123-AB-4"},
		{"AB 12 34", true, "AB-12-34"},
		{"1-2-3-4 AB", true, "12-34-AB"},
		{"ab1234", true, "AB-12-34"},
		{"AB-12-34", false, "AB-12-34"},
		{"12-34-AB", false, "12-34-AB"},
		{" ab - 12 - 34 ", false, "AB-12-34"},
	}

	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			got, err := v.FormatPlate(tt.plate, "NL", tt.ignoreDashes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatPlate_Errors(t *testing.T) {
	v := sidecode.New()

	tests := []struct {
		name         string
		plate        string
		country      string
		ignoreDashes bool
		want         error
	}{
		{"unsupported country", "1234AB", "XX", true, sidecode.ErrCountryNotFound},
		{"incorrect dashes", "1234AB", "NL", false, sidecode.ErrSideCodeNotFound},
		{"empty plate", "", "NL", true, sidecode.ErrInvalidArgument},
		{"whitespace plate", "   ", "NL", true, sidecode.ErrInvalidArgument},
		{"dashes only", "- -", "NL", true, sidecode.ErrInvalidArgument},
		{"unknown sidecode", "1A2B3C", "NL", true, sidecode.ErrSideCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.FormatPlate(tt.plate, tt.country, tt.ignoreDashes)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, got)
		})
	}
}

func TestFormatPlate_IgnoresIncorrectDashes(t *testing.T) {
	v := sidecode.New()

	for _, plate := range []string{"1234AB", "1-23-4AB", "12-34-AB-"} {
		got, err := v.FormatPlate(plate, "NL", true)
		require.NoError(t, err)
		assert.Equal(t, "12-34-AB", got)
	}
}

func TestTryFormatPlate(t *testing.T) {
	v := sidecode.New()

	t.Run("unknown format", func(t *testing.T) {
		got, ok, err := v.TryFormatPlate("A1B2C3", "NL", true)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("empty plate", func(t *testing.T) {
		_, _, err := v.TryFormatPlate("   ", "NL", true)
		assert.ErrorIs(t, err, sidecode.ErrInvalidArgument)
	})

	t.Run("unsupported country", func(t *testing.T) {
		_, _, err := v.TryFormatPlate("AB-12-CD", "XX", true)
		assert.ErrorIs(t, err, sidecode.ErrCountryNotFound)
		assert.ErrorIs(t, err, sidecode.ErrNotFound)
	})

	t.Run("match", func(t *testing.T) {
		got, ok, err := v.TryFormatPlate("xx12ab", "nl", true)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "XX-12-AB", got)
	})
}

func TestFindSideCode(t *testing.T) {
	v := sidecode.New()

	got, err := v.FindSideCode("AB-12-CD", "NL", false)
	require.NoError(t, err)
	assert.Equal(t, "XX-99-XX", got)

	got, err = v.FindSideCode("1234AB", "NL", true)
	require.NoError(t, err)
	assert.Equal(t, "99-99-XX", got)

	got, err = v.FindSideCode("1-23-4AB", "NL", true)
	require.NoError(t, err)
	assert.Equal(t, "99-99-XX", got)
}

func TestFindSideCode_Errors(t *testing.T) {
	v := sidecode.New()

	tests := []struct {
		name         string
		plate        string
		country      string
		ignoreDashes bool
		want         error
	}{
		{"unknown sidecode", "A1-B2-C3", "NL", false, sidecode.ErrSideCodeNotFound},
		{"unsupported country", "AB-12-CD", "XX", false, sidecode.ErrCountryNotFound},
		{"empty plate", "", "NL", false, sidecode.ErrInvalidArgument},
		{"whitespace plate", "   ", "NL", false, sidecode.ErrInvalidArgument},
		{"incorrect dashes", "1234AB", "NL", false, sidecode.ErrSideCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.FindSideCode(tt.plate, tt.country, tt.ignoreDashes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTryFindSideCode_NoMatchIsNotAnError(t *testing.T) {
	v := sidecode.New()

	got, ok, err := v.TryFindSideCode("1A-2B-3C", "NL", false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestIsValidPlate(t *testing.T) {
	v := sidecode.New()

	tests := []struct {
		plate        string
		ignoreDashes bool
		expected     bool
	}{
		{"AB-12-34", false, true},
		{"12-34-AB", false, true},
		{"12-AB-34", false, true},
		{"AB-12-CD", false, true},
		{"AB-CD-12", false, true},
		{"12-AB-CD", false, true},
		{"12-ABC-3", false, true},
		{"1-ABC-23", false, true},
		{"AB-123-C", false, true},
		{"A-123-BC", false, true},
		{"ABC-12-D", false, true},
		{"AB - 12 - 34", false, true},
		{" AB - 12 - 34 ", false, true},
		{"ab - 12 - 34", false, true},
		{"A1-B2-C3", false, false},
		{"1A-2B-3C", false, false},
		{"AB1234", false, false},
		{"ab1234", false, false},
		{"AB-12- -34", false, false},
		{"AB1234", true, true},
		{"A-B1-234", true, true},
		{"A1B2C3", true, false},
		{"AB123", true, false},
		{"ÉB-12-34", false, true},
		{"\u0131\u0300B-12-34", false, true},
		{"i\u0307B-12-34", false, true},
		{"\u00ccB-12-34", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			got, err := v.IsValidPlate(tt.plate, "NL", tt.ignoreDashes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsValidPlate_Errors(t *testing.T) {
	v := sidecode.New()

	_, err := v.IsValidPlate("", "NL", false)
	assert.ErrorIs(t, err, sidecode.ErrInvalidArgument)

	_, err = v.IsValidPlate("   ", "NL", true)
	assert.ErrorIs(t, err, sidecode.ErrInvalidArgument)

	for _, ignoreDashes := range []bool{false, true} {
		_, err = v.IsValidPlate("AB-12-CD", "ZZ", ignoreDashes)
		assert.ErrorIs(t, err, sidecode.ErrNotFound)
	}
}

func TestIsValidPlate_CustomCountry(t *testing.T) {
	v, err := sidecode.NewWithRegistry(map[string][]string{
		"XX": {"XX-99-XX", "X9-9X-X9"},
	})
	require.NoError(t, err)

	tests := []struct {
		plate        string
		ignoreDashes bool
		expected     bool
	}{
		{"A1-2B-C3", false, true},
		{"A12BC3", true, true},
		{"A1 - 2B - C3", false, true},
		{"A1 2B C3", true, true},
		{"12-AB-34", false, false},
		{"12AB34", true, false},
		{"12 - AB - 34", false, false},
		{"12 AB 34", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			got, err := v.IsValidPlate(tt.plate, "xx", tt.ignoreDashes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsValidPlate_MultipleCountries(t *testing.T) {
	v, err := sidecode.NewWithRegistry(map[string][]string{
		"XX": {"XX-99-XX", "X9-9X-X9"},
		"YY": {"99-XX-99", "XXX-999"},
		"ZZ": {"X?-X?-X?"},
	})
	require.NoError(t, err)

	tests := []struct {
		plate    string
		country  string
		expected bool
	}{
		{"AB-12-CD", "XX", true},
		{"A1-2B-C3", "XX", true},
		{"12-AB-34", "YY", true},
		{"ABC-123", "YY", true},
		{"A1-B2-C3", "ZZ", true},
		{"AB-CD-E1", "ZZ", true},
		{"AB-12-CD", "YY", false},
		{"A1-2B-C3", "YY", false},
		{"12-AB-34", "XX", false},
		{"ABC-123", "XX", false},
		{"A1B-2C3", "ZZ", false},
		{"12-BC-D3", "ZZ", false},
	}

	for _, tt := range tests {
		t.Run(tt.country+"/"+tt.plate, func(t *testing.T) {
			got, err := v.IsValidPlate(tt.plate, tt.country, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUnsupportedSymbol(t *testing.T) {
	v, err := sidecode.NewWithRegistry(map[string][]string{
		"XX": {"XX-99-X*"},
	})
	require.NoError(t, err)

	t.Run("matching length", func(t *testing.T) {
		_, err := v.IsValidPlate("AB-12-CD", "XX", false)
		require.ErrorIs(t, err, sidecode.ErrUnsupportedSymbol)

		var symbolErr *sidecode.UnsupportedSymbolError
		require.True(t, errors.As(err, &symbolErr))
		assert.Equal(t, '*', symbolErr.Symbol)
		assert.Equal(t, "XX-99-X*", symbolErr.SideCode)
	})

	t.Run("earlier mismatch does not hide it", func(t *testing.T) {
		_, err := v.IsValidPlate("12-34-56", "XX", false)
		assert.ErrorIs(t, err, sidecode.ErrUnsupportedSymbol)
	})

	t.Run("ignoring dashes", func(t *testing.T) {
		_, err := v.FormatPlate("AB12CD", "XX", true)
		assert.ErrorIs(t, err, sidecode.ErrUnsupportedSymbol)
	})

	t.Run("other lengths never reach the template", func(t *testing.T) {
		ok, err := v.IsValidPlate("AB-12", "XX", false)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUnsupportedSymbol_AfterEarlierMatch(t *testing.T) {
	v, err := sidecode.NewWithRegistry(map[string][]string{
		"XX": {"XX-99-XX", "XX-99-X*"},
	})
	require.NoError(t, err)

	got, err := v.FindSideCode("AB-12-CD", "XX", false)
	require.NoError(t, err)
	assert.Equal(t, "XX-99-XX", got)

	_, err = v.FindSideCode("AB-12-C3", "XX", false)
	assert.ErrorIs(t, err, sidecode.ErrUnsupportedSymbol)
}

func TestFormatPlate_RoundTrip(t *testing.T) {
	v := sidecode.New()

	codes, err := v.SideCodes("NL")
	require.NoError(t, err)

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			raw := strings.NewReplacer("X", "K", "9", "7", "-", "").Replace(code)

			formatted, err := v.FormatPlate(raw, "NL", true)
			require.NoError(t, err)
			assert.Len(t, formatted, len(code))

			found, err := v.FindSideCode(formatted, "NL", false)
			require.NoError(t, err)
			assert.Equal(t, code, found)
		})
	}
}

func TestLengthMismatchNeverMatches(t *testing.T) {
	v, err := sidecode.NewWithRegistry(map[string][]string{
		"XX": {"??-??-??", "??????"},
	})
	require.NoError(t, err)

	for _, plate := range []string{"AB123", "AB-12-3", "AB12345"} {
		ok, err := v.IsValidPlate(plate, "XX", false)
		require.NoError(t, err)
		assert.False(t, ok, plate)
	}
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v := sidecode.New()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			got, err := v.FormatPlate("AB1234", "nl", true)
			if err != nil {
				return err
			}
			if got != "AB-12-34" {
				return errors.New("unexpected format " + got)
			}
			_, err = v.IsValidPlate("A1-B2-C3", "NL", false)
			return err
		})
	}
	require.NoError(t, g.Wait())
}
