package sanitize

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestStringStripsDangerousCharacters(t *testing.T) {
	require.Equal(t, "scriptalert(1)/script", String(`<script>alert(1)</script>`, 0))
	require.Equal(t, "OReilly", String(`O'Reilly;`, 0))
	require.Equal(t, "trimmed", String("  trimmed  ", 0))
}

func TestStringTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	require.Len(t, String(long, MaxTitleLen), MaxTitleLen)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	// 3-byte runes straddling the byte cap: the cut must land on a rune
	// boundary, never mid-rune.
	long := strings.Repeat("€", 100)

	out := String(long, MaxTitleLen)
	require.True(t, utf8.ValidString(out))
	require.LessOrEqual(t, len(out), MaxTitleLen)
	require.Equal(t, strings.Repeat("€", MaxTitleLen/3), out)

	out = HTML(strings.Repeat("я", 3000), MaxDescriptionLen)
	require.True(t, utf8.ValidString(out))
	require.LessOrEqual(t, len(out), MaxDescriptionLen)

	clean, ok := SearchTerm(strings.Repeat("書", 40))
	require.True(t, ok)
	require.True(t, utf8.ValidString(clean))
	require.LessOrEqual(t, len(clean), MaxSearchLen)
}

func TestHTMLStripsActiveContent(t *testing.T) {
	require.NotContains(t, HTML(`<a href="javascript:alert(1)">a link</a>`, 0), "javascript:")
	require.NotContains(t, HTML(`<b>bold</b>`, 0), "<")
	require.NotContains(t, HTML(`<img src=x onerror=alert(1)>`, 0), "onerror=")
	require.NotContains(t, strings.ToLower(HTML("JAVASCRIPT:void(0)", 0)), "javascript:")
}

func TestNumberRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, ok := Number(v)
		require.False(t, ok)
	}
}

func TestNumberRejectsOutOfRange(t *testing.T) {
	_, ok := Number(1_000_000_000)
	require.False(t, ok)
	_, ok = Number(-1_000_000_000)
	require.False(t, ok)

	v, ok := Number(999_999_999)
	require.True(t, ok)
	require.Equal(t, float64(999_999_999), v)
}

func TestNumberRoundsToTwoDecimals(t *testing.T) {
	cases := map[float64]float64{
		10.004:  10.00,
		10.006:  10.01,
		3.14159: 3.14,
		-2.576:  -2.58,
		7:       7,
	}
	for in, want := range cases {
		got, ok := Number(in)
		require.True(t, ok)
		require.InDelta(t, want, got, 1e-9, "input %v", in)
	}
}

func TestIntegerRejectsNegative(t *testing.T) {
	_, ok := Integer(-1)
	require.False(t, ok)

	v, ok := Integer(0)
	require.True(t, ok)
	require.Equal(t, 0, v)
}

func TestSearchTermRejectsSQLKeywords(t *testing.T) {
	for _, term := range []string{
		"DROP TABLE products",
		"select title",
		"1 UNION ALL",
		"delete me",
		"robert from accounting",
	} {
		_, ok := SearchTerm(term)
		require.False(t, ok, "term %q must be rejected", term)
	}
}

func TestSearchTermKeepsKeywordSubstrings(t *testing.T) {
	// Keyword matching is whole-word only: titles like "Selected Poems"
	// or authors like "Updike" must still be searchable.
	clean, ok := SearchTerm("Selected Poems")
	require.True(t, ok)
	require.Equal(t, "Selected Poems", clean)

	clean, ok = SearchTerm("Updike")
	require.True(t, ok)
	require.Equal(t, "Updike", clean)
}

func TestSearchTermStripsCommentMarkers(t *testing.T) {
	clean, ok := SearchTerm("tolkien--")
	require.True(t, ok)
	require.Equal(t, "tolkien", clean)

	clean, ok = SearchTerm(`"golang"; /* x */`)
	require.True(t, ok)
	require.Equal(t, "golang  x", clean)
}

func TestSearchTermEmptyAfterCleaning(t *testing.T) {
	_, ok := SearchTerm(`'";--`)
	require.False(t, ok)
}
