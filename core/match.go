package core

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// PopularDownloadThreshold separates well-known projects from obscure ones
// when scoring substring matches. The boundary is tunable; 1000 downloads is
// a conservative cut between hobby uploads and established projects.
const PopularDownloadThreshold = 1000

// ExtraWordAllowance is how many tokens a candidate name may add over the
// query before HasExtraWords flags it.
const ExtraWordAllowance = 2

// Substring matches earn more slack than token matches since the query
// appears verbatim inside the candidate name.
const containsExtraTokenLimit = 4

// MatchConfidence scores how likely the candidate name is the project the
// query asked for, 0-100. Case-insensitive exact matches score 100. Names
// containing the query verbatim score 90 when the project is popular and 85
// otherwise, unless the name buries the query under too many unrelated words.
// Anything else scores 0.
func MatchConfidence(query, candidate string, downloads uint64) int {
	q := normalizeName(query)
	c := normalizeName(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 100
	}
	if strings.Contains(c, q) {
		if extraTokenCount(q, c) > containsExtraTokenLimit {
			return 0
		}
		if downloads >= PopularDownloadThreshold {
			return 90
		}
		return 85
	}
	return 0
}

// HasExtraWords reports whether the candidate name carries more than
// ExtraWordAllowance tokens that do not appear in the query. An empty query
// never flags.
func HasExtraWords(query, candidate string) bool {
	if normalizeName(query) == "" {
		return false
	}
	return extraTokenCount(normalizeName(query), normalizeName(candidate)) > ExtraWordAllowance
}

// PopularityConfidence buckets a download count into a 0-100 score used to
// break ties across platforms.
func PopularityConfidence(downloads uint64) int {
	switch {
	case downloads <= 100:
		return 10
	case downloads <= 1_000:
		return 20
	case downloads <= 10_000:
		return 40
	case downloads <= 100_000:
		return 60
	case downloads <= 1_000_000:
		return 80
	default:
		return 95
	}
}

// NameDistance is the Levenshtein edit distance between the normalized query
// and candidate names. Lower is a closer match.
func NameDistance(query, candidate string) int {
	return levenshtein.ComputeDistance(normalizeName(query), normalizeName(candidate))
}

func normalizeName(s string) string {
	return strings.Join(tokenize(s), " ")
}

func extraTokenCount(normalizedQuery, normalizedCandidate string) int {
	queryTokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalizedQuery) {
		queryTokens[tok] = true
	}
	extra := 0
	for _, tok := range strings.Fields(normalizedCandidate) {
		if !queryTokens[tok] {
			extra++
		}
	}
	return extra
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
