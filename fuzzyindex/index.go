// Package fuzzyindex provides exact and fuzzy lookup from free-text
// queries to stop ids, scored with a token-sort similarity so word
// order never matters.
package fuzzyindex

import (
	"sort"
	"strings"
)

// DefaultMinScore is the min_score floor.
const DefaultMinScore = 60

// Candidate is one indexed stop name.
type Candidate struct {
	StopID string
	Name   string
}

// Match is one fuzzy lookup result.
type Match struct {
	StopID string
	Name   string
	Score  int
}

// Index is a read-mostly mapping from stop name to stop ids, built
// once at load time and reused for every query.
type Index struct {
	byName     map[string][]string // exact name -> stop ids
	candidates []Candidate
}

// Build constructs an Index over the given candidates. Duplicate names
// are kept as a set, not deduplicated away.
func Build(candidates []Candidate) *Index {
	idx := &Index{
		byName:     map[string][]string{},
		candidates: candidates,
	}
	for _, c := range candidates {
		idx.byName[c.Name] = append(idx.byName[c.Name], c.StopID)
	}
	return idx
}

// LookupExact returns every stop id indexed under exactly this name.
func (idx *Index) LookupExact(name string) []string {
	return idx.byName[name]
}

// LookupFuzzy ranks every candidate name against query using a
// token-sort similarity score: tokens in both strings are
// lowercased, sorted, rejoined, and compared with a normalised edit
// distance. Results are sorted descending by score, ties broken by
// name ascending. minScore <= 0 uses DefaultMinScore.
func (idx *Index) LookupFuzzy(query string, limit int, minScore int) []Match {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if strings.TrimSpace(query) == "" {
		return []Match{}
	}

	normalizedQuery := tokenSort(query)

	matches := make([]Match, 0, len(idx.candidates))
	for _, c := range idx.candidates {
		score := tokenSortRatio(normalizedQuery, tokenSort(c.Name))
		if score < minScore {
			continue
		}
		matches = append(matches, Match{StopID: c.StopID, Name: c.Name, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches
}

// tokenSort lowercases, splits on whitespace, sorts the tokens and
// rejoins them -- this is what makes matching independent of word
// order ("Station Geelong" ~ "Geelong Station").
func tokenSort(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// tokenSortRatio scores two already token-sorted strings on [0,100]
// as 1 - levenshtein(a, b) / max(len(a), len(b)), rounded to the
// nearest integer.
func tokenSortRatio(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshtein(a, b)
	ratio := 1.0 - float64(dist)/float64(maxLen)
	if ratio < 0 {
		ratio = 0
	}
	return int(ratio*100 + 0.5)
}

// levenshtein computes edit distance with a two-row rolling matrix.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
