package plagiarism

import (
	"fmt"
	"sort"

	"github.com/argus-grade/argus/internal/models"
)

// Comparator computes pairwise submission similarity. It is pure and
// carries no mutable state, so one instance is safe to share across
// workers.
type Comparator struct {
	// JaccardWeight and LCSWeight blend the fingerprint-overlap and
	// token-subsequence signals into the overall score.
	JaccardWeight float64
	LCSWeight     float64
	// PartialThreshold is the structural similarity below which emitted
	// matches are downgraded to PARTIAL.
	PartialThreshold float64
}

// NewComparator returns a comparator with the default 0.6/0.4 blend.
func NewComparator() *Comparator {
	return &Comparator{
		JaccardWeight:    0.6,
		LCSWeight:        0.4,
		PartialThreshold: 0.3,
	}
}

const degradedNote = " [lexical-only analysis, reduced confidence]"

// Compare produces the full comparison between two submissions. Byte
// identity short-circuits everything; all other signals are always computed
// and blended.
func (c *Comparator) Compare(a, b *models.SubmissionRecord) models.SubmissionComparison {
	cmp := models.SubmissionComparison{
		SubmissionA: a.SubmissionID,
		SubmissionB: b.SubmissionID,
		Degraded:    a.Degraded || b.Degraded,
	}

	note := ""
	if cmp.Degraded {
		note = degradedNote
	}

	// A submission that normalized to nothing cannot be meaningfully
	// compared; report zero rather than dividing by it.
	if a.Fingerprint.TokenCount == 0 || b.Fingerprint.TokenCount == 0 {
		cmp.Matches = append(cmp.Matches, models.CodeMatch{
			Type:        models.MatchPartial,
			Similarity:  0,
			Explanation: "insufficient content: a submission produced no tokens after normalization" + note,
		})
		return cmp
	}

	if a.Fingerprint.ContentHash == b.Fingerprint.ContentHash {
		span := fullSpan(a.Tokens)
		cmp.OverallSimilarity = 1.0
		cmp.StructuralSimilarity = 1.0
		cmp.LCSRatio = 1.0
		cmp.Matches = append(cmp.Matches, models.CodeMatch{
			Type:       models.MatchExact,
			Similarity: 1.0,
			LinesA:     span,
			LinesB:     span,
			Explanation: fmt.Sprintf("byte-identical submissions, lines %d-%d%s",
				span.Start, span.End, note),
		})
		return cmp
	}

	renamed := a.Fingerprint.ASTShapeHash != "" &&
		a.Fingerprint.ASTShapeHash == b.Fingerprint.ASTShapeHash

	var structural float64
	if renamed {
		structural = 1.0
		spanA, spanB := fullSpan(a.Tokens), fullSpan(b.Tokens)
		cmp.Matches = append(cmp.Matches, models.CodeMatch{
			Type:       models.MatchRenamed,
			Similarity: 1.0,
			LinesA:     spanA,
			LinesB:     spanB,
			Explanation: fmt.Sprintf(
				"identical control-flow shape with renamed identifiers, lines %d-%d vs %d-%d%s",
				spanA.Start, spanA.End, spanB.Start, spanB.End, note),
		})
	} else {
		var segments []matchSegment
		structural, segments = fingerprintOverlap(a, b)
		cmp.Matches = append(cmp.Matches, c.segmentMatches(segments, a, b, structural, note)...)
	}

	cmp.StructuralSimilarity = structural
	cmp.LCSRatio = LCSRatio(a.Tokens, b.Tokens)
	cmp.OverallSimilarity = clamp01(c.JaccardWeight*structural + c.LCSWeight*cmp.LCSRatio)

	// With no shared fingerprint windows the whole score rides on the
	// subsequence signal; a nonzero result still needs an explanation.
	if len(cmp.Matches) == 0 && cmp.OverallSimilarity > 0 {
		matchType := models.MatchPartial
		if cmp.Degraded {
			matchType = models.MatchTokenSequence
		}
		spanA, spanB := fullSpan(a.Tokens), fullSpan(b.Tokens)
		cmp.Matches = append(cmp.Matches, models.CodeMatch{
			Type:       matchType,
			Similarity: clamp01(cmp.LCSRatio),
			LinesA:     spanA,
			LinesB:     spanB,
			Explanation: fmt.Sprintf(
				"no shared fingerprints; score carried by common token subsequences (%.1f%%)%s",
				cmp.LCSRatio*100, note),
		})
	}
	return cmp
}

// matchSegment is one run of shared fingerprint windows, in token indices.
type matchSegment struct {
	startA, endA int
	startB, endB int
	count        int
}

// fingerprintOverlap computes the Jaccard index over the two winnowed
// fingerprint sets and resolves every shared hash back to token-window
// positions, merging adjacent and overlapping windows into segments.
func fingerprintOverlap(a, b *models.SubmissionRecord) (float64, []matchSegment) {
	posA := hashPositions(a.Fingerprint.KGrams)
	posB := hashPositions(b.Fingerprint.KGrams)

	shared := 0
	var segments []matchSegment
	k := a.Fingerprint.KGramSize

	for hash, pa := range posA {
		pb, ok := posB[hash]
		if !ok {
			continue
		}
		shared++
		// Resolve this hash to one window pair: its first occurrence on
		// each side. Repeated occurrences collapse into the merge below.
		segments = append(segments, matchSegment{
			startA: pa[0], endA: pa[0] + k - 1,
			startB: pb[0], endB: pb[0] + k - 1,
			count: 1,
		})
	}

	union := len(posA) + len(posB) - shared
	if union == 0 {
		return 0, nil
	}
	return float64(shared) / float64(union), mergeSegments(segments, k)
}

func hashPositions(grams []models.KGramHash) map[uint64][]int {
	m := make(map[uint64][]int, len(grams))
	for _, g := range grams {
		m[g.Hash] = append(m[g.Hash], g.Position)
	}
	for _, positions := range m {
		sort.Ints(positions)
	}
	return m
}

// mergeSegments joins windows that overlap or sit within one k-gram of each
// other on both sides, so a contiguous copied region reads as one match.
func mergeSegments(segments []matchSegment, k int) []matchSegment {
	if len(segments) == 0 {
		return nil
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].startA != segments[j].startA {
			return segments[i].startA < segments[j].startA
		}
		return segments[i].startB < segments[j].startB
	})

	merged := []matchSegment{segments[0]}
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		if seg.startA <= last.endA+k && seg.startB <= last.endB+k && seg.startB >= last.startB {
			if seg.endA > last.endA {
				last.endA = seg.endA
			}
			if seg.endB > last.endB {
				last.endB = seg.endB
			}
			last.count += seg.count
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

// segmentMatches converts merged segments into CodeMatch entries with line
// ranges and explanations. Weak overall structural signal downgrades the
// matches to PARTIAL.
func (c *Comparator) segmentMatches(segments []matchSegment, a, b *models.SubmissionRecord, structural float64, note string) []models.CodeMatch {
	if len(segments) == 0 {
		return nil
	}

	totalShared := 0
	for _, seg := range segments {
		totalShared += seg.count
	}

	matchType := models.MatchStructural
	signal := "shared structural fingerprints"
	if a.Degraded || b.Degraded {
		matchType = models.MatchTokenSequence
		signal = "shared token sequences"
	}
	partial := structural > 0 && structural < c.PartialThreshold
	if partial {
		matchType = models.MatchPartial
		signal = "weak " + signal
	}

	out := make([]models.CodeMatch, 0, len(segments))
	for _, seg := range segments {
		linesA := tokenLines(a.Tokens, seg.startA, seg.endA)
		linesB := tokenLines(b.Tokens, seg.startB, seg.endB)
		local := float64(seg.count) / float64(totalShared) * structural
		out = append(out, models.CodeMatch{
			Type:       matchType,
			Similarity: clamp01(local),
			LinesA:     linesA,
			LinesB:     linesB,
			Explanation: fmt.Sprintf("%s (%d fingerprints), lines %d-%d vs %d-%d%s",
				signal, seg.count, linesA.Start, linesA.End, linesB.Start, linesB.End, note),
		})
	}
	return out
}

func tokenLines(tokens []models.CanonicalToken, start, end int) models.LineRange {
	if len(tokens) == 0 {
		return models.LineRange{Start: 1, End: 1}
	}
	if start < 0 {
		start = 0
	}
	if end >= len(tokens) {
		end = len(tokens) - 1
	}
	return models.LineRange{Start: tokens[start].Line, End: tokens[end].Line}
}

func fullSpan(tokens []models.CanonicalToken) models.LineRange {
	return tokenLines(tokens, 0, len(tokens)-1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
