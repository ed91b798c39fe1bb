package kupon

import (
	"strings"

	"github.com/argunvaran/wizard-scrap/internal/logger"
)

// Resolution is the outcome of matching a raw bulletin team name against the
// canonical standings for the same country. Standing is nil when no canonical
// record exists; downstream numeric steps must treat that as insufficient
// data. CleanName is the canonical name when a match was found, otherwise the
// raw name, and is what fixture and player lookups should use.
type Resolution struct {
	Standing  *Standing
	CleanName string
}

// ResolveTeam matches a raw team-name string (as it appears on the bulletin,
// possibly carrying league prefixes such as "İtalya Serie A Paz 1 Bologna")
// against the canonical standings of one country.
//
// Matching strategies, in priority order:
//  1. Containment: a canonical name inside the raw name or vice versa,
//     longest canonical name wins
//  2. Fuzzy: best similarity ratio, accepted only above the configured cutoff
//  3. Last resort: the uncleaned raw name as a substring of a canonical name
func ResolveTeam(rawName string, standings []*Standing) Resolution {
	searchName := strings.ToLower(strings.TrimSpace(rawName))

	// 1. Containment match, longest canonical name wins so that a decorated
	// bulletin string resolves to the most specific team
	var best *Standing
	maxLen := 0
	for _, standing := range standings {
		cleanDb := strings.ToLower(strings.TrimSpace(standing.Team))
		if cleanDb == "" {
			continue
		}
		if strings.Contains(searchName, cleanDb) || strings.Contains(cleanDb, searchName) {
			if len(cleanDb) > maxLen {
				maxLen = len(cleanDb)
				best = standing
			}
		}
	}

	// 2. Fuzzy match if strict containment failed
	if best == nil && len(standings) > 0 {
		bestRatio := 0.0
		for _, standing := range standings {
			ratio := SimilarityRatio(rawName, standing.Team)
			if ratio > bestRatio {
				bestRatio = ratio
				best = standing
			}
		}
		if bestRatio < GetFuzzyMatchCutoff() {
			best = nil
		} else {
			logger.Debug("Fuzzy resolved team", rawName, best.Team, bestRatio)
		}
	}

	// 3. Last resort: raw name as a substring of a canonical name, no cleaning
	if best == nil {
		for _, standing := range standings {
			if strings.Contains(strings.ToLower(standing.Team), searchName) {
				best = standing
				break
			}
		}
	}

	if best == nil {
		return Resolution{Standing: nil, CleanName: rawName}
	}
	return Resolution{Standing: best, CleanName: best.Team}
}

/////////////////////////////////////////////////////////////////////////
////// String Similarity
/////////////////////////////////////////////////////////////////////////

// SimilarityRatio returns a similarity measure in [0,1] between two strings,
// derived from the Levenshtein edit distance over the longer length.
// Both inputs are lowercased and trimmed before comparison.
func SimilarityRatio(str1, str2 string) float64 {
	str1 = strings.ToLower(strings.TrimSpace(str1))
	str2 = strings.ToLower(strings.TrimSpace(str2))

	if str1 == str2 {
		return 1.0
	}
	longest := len([]rune(str1))
	if l2 := len([]rune(str2)); l2 > longest {
		longest = l2
	}
	if longest == 0 {
		return 1.0
	}

	distance := LevenshteinDistance(str1, str2)
	return 1.0 - float64(distance)/float64(longest)
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two-row rolling distance matrix
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
