// Package search implements the ranked catalog search shared by the
// inventory table, the kit browser and the list-builder picker.
package search

import (
	"sort"
	"strings"
)

// Fields is the searchable projection of a catalog record.
type Fields struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Weights are the non-name scoring constants. Name scoring is fixed; only
// the category/description contributions differ between call sites.
type Weights struct {
	Category    int
	Description int
}

var (
	// CatalogWeights is used by the inventory table and kit browser.
	CatalogWeights = Weights{Category: 10, Description: 1}
	// PickerWeights is used by the list-builder picker, which favors
	// category and description hits more strongly.
	PickerWeights = Weights{Category: 20, Description: 5}
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

const (
	scoreNameExact    = 1000
	scoreNamePrefix   = 500
	scoreNameWordHit  = 200
	scoreNameContains = 100
)

type ranked[T any] struct {
	record      T
	nameMatches int
	score       int
	nameLower   string
}

// Rank filters and orders records against a whitespace-tokenized query.
//
// A record matches only when every token occurs somewhere in its
// name/category/description, and when it passes the category filter. Matches
// are ordered by distinct name-token hits, then score, then name. An empty
// query matches everything with a flat score. Duplicate ids are dropped.
func Rank[T any](records []T, fields func(T) Fields, query, category string, w Weights) []T {
	tokens := Tokenize(query)

	scored := make([]ranked[T], 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		f := fields(rec)
		if seen[f.ID] {
			continue
		}
		if category != "" && category != CategoryAll && f.Category != category {
			continue
		}

		name := strings.ToLower(f.Name)
		cat := strings.ToLower(f.Category)
		desc := strings.ToLower(f.Description)

		if len(tokens) == 0 {
			seen[f.ID] = true
			scored = append(scored, ranked[T]{record: rec, score: 1, nameLower: name})
			continue
		}

		haystack := name + " " + cat + " " + desc
		entry := ranked[T]{record: rec, nameLower: name}
		match := true
		for _, tok := range tokens {
			if !strings.Contains(haystack, tok) {
				match = false
				break
			}
			switch {
			case name == tok:
				entry.score += scoreNameExact
			case strings.HasPrefix(name, tok):
				entry.score += scoreNamePrefix
			case strings.Contains(name, " "+tok):
				entry.score += scoreNameWordHit
			case strings.Contains(name, tok):
				entry.score += scoreNameContains
			}
			if strings.Contains(name, tok) {
				entry.nameMatches++
			}
			if strings.Contains(cat, tok) {
				entry.score += w.Category
			}
			if strings.Contains(desc, tok) {
				entry.score += w.Description
			}
		}
		if !match {
			continue
		}
		seen[f.ID] = true
		scored = append(scored, entry)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.nameMatches != b.nameMatches {
			return a.nameMatches > b.nameMatches
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.nameLower < b.nameLower
	})

	out := make([]T, len(scored))
	for i, s := range scored {
		out[i] = s.record
	}
	return out
}

// Tokenize splits a query on whitespace, dropping empty tokens and
// lower-casing the rest.
func Tokenize(query string) []string {
	raw := strings.Fields(query)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tokens = append(tokens, strings.ToLower(tok))
	}
	return tokens
}
