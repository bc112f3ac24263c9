package ranking

import (
	"strings"
	"testing"

	"github.com/kljensen/snowball/english"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

func TestValidate_RejectsShortQueries(t *testing.T) {
	tok := NewTokenizer()

	for _, q := range []string{"", "  ", "ab", "  ab  ", "\tx\n"} {
		err := tok.Validate(q)
		require.Error(t, err, "query %q", q)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	}

	assert.NoError(t, tok.Validate("abc"))
	assert.NoError(t, tok.Validate("  the  "))
}

func TestValidate_CustomMinimum(t *testing.T) {
	tok := NewTokenizer(WithMinQueryLength(5))

	assert.Error(t, tok.Validate("pads"))
	assert.NoError(t, tok.Validate("pads2"))
	assert.Equal(t, 5, tok.MinQueryLength())
}

func TestTokenize_LowercasesAndStems(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"oil", "filter"}, tok.Tokenize("Oil FILTERS"))
}

func TestTokenize_QuotedPhraseIsOneKeyword(t *testing.T) {
	tok := NewTokenizer()

	keywords := tok.Tokenize(`"brake pad"`)

	require.Len(t, keywords, 1)
	assert.Equal(t, english.Stem("brake pad", false), keywords[0])
	assert.Contains(t, keywords[0], " ")
}

func TestTokenize_PhraseAndWordsTogether(t *testing.T) {
	tok := NewTokenizer()

	keywords := tok.Tokenize(`front "brake pad" kit`)

	require.Len(t, keywords, 3)
	assert.Equal(t, "front", keywords[0])
	assert.Equal(t, english.Stem("brake pad", false), keywords[1])
	assert.Equal(t, "kit", keywords[2])
}

func TestTokenize_RemovesStopwords(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"filter", "car"}, tok.Tokenize("the filter for a car"))
}

func TestTokenize_OnlyStopwordsYieldsEmpty(t *testing.T) {
	tok := NewTokenizer()

	keywords := tok.Tokenize("the and a")

	assert.NotNil(t, keywords)
	assert.Empty(t, keywords)
}

func TestTokenize_PreservesDuplicates(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"pad", "pad"}, tok.Tokenize("pads pad"))
}

func TestTokenize_StripsPunctuation(t *testing.T) {
	tok := NewTokenizer()

	keywords := tok.Tokenize(`oil.* (bosch)! $where`)

	for _, kw := range keywords {
		assert.Regexp(t, `^[a-z0-9_ ]+$`, kw)
	}
	assert.Contains(t, keywords, "bosch")
	assert.NotContains(t, keywords, "where")
}

func TestTokenize_UnbalancedQuote(t *testing.T) {
	tok := NewTokenizer()

	assert.Equal(t, []string{"brake", "pad"}, tok.Tokenize(`"brake pads`))
}

func TestTokenize_IdempotentOnNormalizedInput(t *testing.T) {
	tok := NewTokenizer()

	for _, q := range []string{"oil filters", "Brake Pads and rotors", "spark plug wires"} {
		first := tok.Tokenize(q)
		second := tok.Tokenize(strings.Join(first, " "))
		assert.ElementsMatch(t, first, second, "query %q", q)
	}
}

func TestTokenize_CustomStopwordsAndStemmer(t *testing.T) {
	tok := NewTokenizer(
		WithStemmer(func(s string) string { return s }),
		WithStopwords([]string{"kit"}),
	)

	assert.Equal(t, []string{"filters", "the"}, tok.Tokenize("filters kit the"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "brake pad", Sanitize(`  "brake   pad" `))
	assert.Equal(t, "Oil Filter", Sanitize("Oil\tFilter!"))
	assert.Equal(t, "a b", Sanitize(`a " b`))
}
