package survey

import "strings"

// suggestionThreshold is the minimum name similarity for a missing column to
// be matched with an unrecognised header.
const suggestionThreshold = 0.7

// NameSimilarity returns 1 minus the case-insensitive edit distance over the
// length of the longer name, in [0,1].
func NameSimilarity(a, b string) float64 {
	r1 := []rune(strings.ToLower(a))
	r2 := []rune(strings.ToLower(b))
	maxLen := len(r1)
	if len(r2) > maxLen {
		maxLen = len(r2)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(r1, r2))/float64(maxLen)
}

func levenshtein(r1, r2 []rune) int {
	row := make([]int, len(r2)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(r2); j++ {
			above := row[j]
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(r2)]
}

// suggestColumns pairs each missing column with the most similar header that
// the schema did not recognise (and would otherwise be read as a theme).
// A header is offered for at most one missing column.
func suggestColumns(missing, unrecognised []string, s Schema) map[string]string {
	raw := make(map[string]string, len(s.Dimensions))
	for _, d := range s.Dimensions {
		raw[d.Display] = d.Raw
	}

	used := make(map[string]bool)
	var out map[string]string
	for _, m := range missing {
		best, bestScore := "", suggestionThreshold
		for _, h := range unrecognised {
			if used[h] {
				continue
			}
			score := NameSimilarity(m, h)
			if r, ok := raw[m]; ok {
				score = max(score, NameSimilarity(r, h))
			}
			if score >= bestScore && (best == "" || score > bestScore) {
				best, bestScore = h, score
			}
		}
		if best == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[m] = best
		used[best] = true
	}
	return out
}
