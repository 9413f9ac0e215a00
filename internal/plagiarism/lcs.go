package plagiarism

import "github.com/argus-grade/argus/internal/models"

// LCSRatio is the longest-common-subsequence length over two canonical
// token streams, normalized by the longer stream. It penalizes large
// insertions and deletions that set-based fingerprint overlap under-weights.
func LCSRatio(a, b []models.CanonicalToken) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return float64(lcsLength(a, b)) / float64(longer)
}

// lcsLength runs the classic DP with two rows; tokens match on kind and
// canonical text.
func lcsLength(a, b []models.CanonicalToken) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1].Kind == b[j-1].Kind && a[i-1].Text == b[j-1].Text {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
