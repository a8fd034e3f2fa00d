package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only spaces", " \t\n  ", ""},
		{"collapse and trim", "  Fix   the\turgent\n\nBUG  ", "fix the urgent bug"},
		{"unicode spaces", "a\u00a0\u2003b", "a b"},
		{"bom", "\ufeffHello", "hello"},
		{"nel is not a space", "a\u0085b", "a\u0085b"},
		{"non-ascii lower", "ÉCOLE Straße", "école straße"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", "  A  b ", "Mixed\tCASE\nlines", "ΣΑΣ  test", "x"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestHash_KnownValues(t *testing.T) {
	assert.Equal(t, "0", Hash(""))
	assert.Equal(t, "97", Hash("a"))
	assert.Equal(t, "99162322", Hash("hello"))
	assert.Equal(t, "1794106052", Hash("hello world"))
	// отрицательный int32 печатается как беззнаковый
	assert.Equal(t, "2147483648", Hash("polygenelubricants"))
	// суррогатная пара считается по двум code units
	assert.Equal(t, "1772899", Hash("😀"))
	// NEL остаётся в тексте и входит в хеш
	assert.Equal(t, "97438", Hash(Normalize("a\u0085b")))
}

func TestHash_EqualForEqualNormalized(t *testing.T) {
	a := Normalize("Fix the urgent BUG")
	b := Normalize("  fix   the urgent bug ")
	assert.Equal(t, Hash(a), Hash(b))
	assert.Equal(t, "1537235855", Hash(a))
}
