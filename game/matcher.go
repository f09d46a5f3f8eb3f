package game

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Config tunes the matcher per deployment. Threshold is a normalized edit distance
// in [0,1]: 0 accepts only exact matches, 1 accepts anything. Guesses with fewer
// than MinMatchChars meaningful characters never match.
type Config struct {
	Threshold     float64
	MinMatchChars int
}

func DefaultConfig() Config {
	return Config{
		Threshold:     0.35,
		MinMatchChars: 2,
	}
}

// Result of evaluating one guess against a candidate pool.
type Result struct {
	Matched  bool
	Category Category
	Value    string
	Score    float64 // normalized distance of the winning candidate, 1 when unmatched
}

var noMatch = Result{Matched: false, Score: 1}

// Match evaluates free text against the candidate pool and returns the best
// candidate at or below the threshold, or a no-match result. Comparison is
// case-insensitive on trimmed input. Ties at the same minimal distance resolve to
// the first candidate in pool order, so results are reproducible for a given pool.
// Pure function; safe on empty pools and whitespace-only input.
func Match(guessText string, candidates []Candidate, cfg Config) Result {
	guess := strings.TrimSpace(guessText)
	if meaningfulChars(guess) < cfg.MinMatchChars {
		return noMatch
	}

	guess = strings.ToLower(guess)

	best := noMatch
	for _, candidate := range candidates {
		score := distance(guess, strings.ToLower(candidate.Value))
		if score < best.Score {
			best = Result{
				Matched:  true,
				Category: candidate.Category,
				Value:    candidate.Value,
				Score:    score,
			}
		}
	}

	if !best.Matched || best.Score > cfg.Threshold {
		return noMatch
	}
	return best
}

// distance is the normalized Levenshtein distance between guess and value. A
// single-word guess is additionally compared against each word of a multi-word
// value, so a bare surname can land on a full credited name.
func distance(guess, value string) float64 {
	score := normalizedLevenshtein(guess, value)

	if !strings.ContainsRune(guess, ' ') {
		for _, word := range strings.Fields(value) {
			if s := normalizedLevenshtein(guess, word); s < score {
				score = s
			}
		}
	}

	return score
}

func normalizedLevenshtein(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func meaningfulChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
