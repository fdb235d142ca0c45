package domain

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NormalizeName trims a name and collapses inner whitespace runs to one space.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClosestNames returns up to limit candidates that look like name, closest first.
// A candidate qualifies when its case-insensitive edit distance is at most
// max(2, len(name)/3). Exact (case-insensitive) matches are included.
func ClosestNames(name string, candidates []string, limit int) []string {
	needle := strings.ToLower(NormalizeName(name))
	if needle == "" || limit <= 0 {
		return nil
	}
	threshold := utf8.RuneCountInString(needle) / 3
	if threshold < 2 {
		threshold = 2
	}

	type scored struct {
		name string
		dist int
	}
	var hits []scored
	seen := map[string]struct{}{}
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d <= threshold {
			hits = append(hits, scored{name: c, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

// FriendNames extracts the names of friends in order.
func FriendNames(friends []Friend) []string {
	out := make([]string, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.Name)
	}
	return out
}

// ItemNames extracts the names of items in order.
func ItemNames(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
