package ranking

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	apperrors "github.com/zatekoja/catalogsearch/pkg/errors"
)

// DefaultMinQueryLength is the shortest trimmed query accepted
const DefaultMinQueryLength = 3

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Double quotes survive so phrases can still be recognised.
	disallowedChars = regexp.MustCompile(`[^A-Za-z0-9_ "]`)
	queryToken      = regexp.MustCompile(`"([^"]+)"|\S+`)
)

// DefaultStopwords is the fixed English stopword list removed from keywords
var DefaultStopwords = []string{
	"a", "about", "all", "am", "an", "and", "any", "are", "as", "at",
	"be", "been", "but", "by", "can", "did", "do", "does", "for", "from",
	"had", "has", "have", "he", "her", "his", "how", "i", "if", "in",
	"into", "is", "it", "its", "me", "my", "no", "not", "of", "on",
	"or", "our", "she", "so", "some", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "those", "to", "too", "up", "us", "was",
	"we", "were", "what", "when", "where", "which", "who", "why", "will", "with",
	"you", "your",
}

// Tokenizer turns raw query text into stemmed, stopword-free keywords
type Tokenizer struct {
	minLength int
	stopwords map[string]struct{}
	stem      func(string) string
}

// TokenizerOption configures a Tokenizer
type TokenizerOption func(*Tokenizer)

// WithMinQueryLength overrides DefaultMinQueryLength
func WithMinQueryLength(n int) TokenizerOption {
	return func(t *Tokenizer) {
		if n > 0 {
			t.minLength = n
		}
	}
}

// WithStopwords replaces the stopword list
func WithStopwords(words []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.stopwords = buildStopwordSet(words, t.stem)
	}
}

// WithStemmer replaces the Snowball English stemmer
func WithStemmer(stem func(string) string) TokenizerOption {
	return func(t *Tokenizer) {
		if stem != nil {
			t.stem = stem
		}
	}
}

// NewTokenizer creates a tokenizer with the English Snowball stemmer and DefaultStopwords
func NewTokenizer(opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{
		minLength: DefaultMinQueryLength,
		stem:      snowballStem,
	}
	t.stopwords = buildStopwordSet(DefaultStopwords, t.stem)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func snowballStem(token string) string {
	return english.Stem(token, false)
}

// Stopwords are compared after stemming, so the stemmed form of every entry is kept too.
func buildStopwordSet(words []string, stem func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(words)*2)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
		set[stem(w)] = struct{}{}
	}
	return set
}

// MinQueryLength returns the configured minimum
func (t *Tokenizer) MinQueryLength() int {
	return t.minLength
}

// Validate rejects queries whose trimmed length is below the minimum.
// It looks at raw length, not at how many keywords survive tokenization.
func (t *Tokenizer) Validate(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return apperrors.NewValidationError("search query is required")
	}
	if utf8.RuneCountInString(trimmed) < t.minLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("search query must be at least %d characters", t.minLength))
	}
	return nil
}

// Tokenize splits query into keywords. Quoted phrases stay one token.
// Duplicates are preserved in query order. A query made only of stopwords
// yields an empty, non-nil slice.
func (t *Tokenizer) Tokenize(query string) []string {
	cleaned := clean(query)

	keywords := make([]string, 0, 4)
	for _, m := range queryToken.FindAllStringSubmatch(cleaned, -1) {
		token := m[1]
		if token == "" {
			token = m[0]
		}
		// unbalanced quotes fall through to \S+ and keep their quote marks
		token = strings.TrimSpace(strings.ReplaceAll(token, `"`, ""))
		if token == "" {
			continue
		}

		stemmed := t.stem(strings.ToLower(token))
		if stemmed == "" {
			continue
		}
		if _, stop := t.stopwords[stemmed]; stop {
			continue
		}
		keywords = append(keywords, stemmed)
	}
	return keywords
}

// Sanitize returns the search term that is persisted and used for click
// history lookups: disallowed characters and quotes removed, whitespace
// collapsed. Case is preserved.
func Sanitize(query string) string {
	s := strings.ReplaceAll(clean(query), `"`, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func clean(query string) string {
	s := whitespaceRun.ReplaceAllString(query, " ")
	s = disallowedChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
