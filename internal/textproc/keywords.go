package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	// DefaultTopKeywords is the keyword list length used when the caller does not set one.
	DefaultTopKeywords = 50
	// DefaultTopBigrams is the bigram list length used when the caller does not set one.
	DefaultTopBigrams = 20

	minKeywordLength = 3
)

// tokenPattern keeps dotted, hyphenated and apostrophe compounds ("node.js",
// "don't") as one token, so they are later rejected as non-alphabetic instead of
// leaking their fragments into the keyword list.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+(?:['.\-][\p{L}\p{N}_]+)*`)

// Tokenize splits lowercased text into word tokens in order of appearance.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// ExtractKeywords returns the topN most frequent content words of text. Ties are
// broken by the position of the first occurrence. A topN <= 0 selects
// DefaultTopKeywords.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}

	tokens := Tokenize(text)
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopWord(token) || len([]rune(token)) < minKeywordLength || !isAlpha(token) {
			continue
		}
		keywords = append(keywords, token)
	}

	return mostCommon(keywords, topN)
}

// ExtractBigrams returns the topN most frequent pairs of adjacent content words.
// A topN <= 0 selects DefaultTopBigrams.
func ExtractBigrams(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopBigrams
	}

	tokens := Tokenize(text)
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopWord(token) || !isAlpha(token) {
			continue
		}
		words = append(words, token)
	}

	if len(words) < 2 {
		return []string{}
	}

	bigrams := make([]string, 0, len(words)-1)
	for i := 0; i < len(words)-1; i++ {
		bigrams = append(bigrams, words[i]+" "+words[i+1])
	}

	return mostCommon(bigrams, topN)
}

// KeywordDensity returns how often keyword occurs in text as a percentage of the
// whitespace-separated word count, rounded to two decimals.
func KeywordDensity(text, keyword string) float64 {
	words := len(strings.Fields(text))
	if words == 0 || keyword == "" {
		return 0
	}

	count := strings.Count(strings.ToLower(text), strings.ToLower(keyword))
	density := float64(count) / float64(words) * 100

	return math.Round(density*100) / 100
}

// mostCommon counts items and returns up to n distinct values by descending
// count, keeping first-seen order among equal counts.
func mostCommon(items []string, n int) []string {
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := counts[item]; !seen {
			order = append(order, item)
		}
		counts[item]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}

	return order
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
