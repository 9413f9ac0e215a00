package plagiarism

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
	"strings"

	"github.com/argus-grade/argus/internal/language"
	"github.com/argus-grade/argus/internal/models"
)

const (
	// DefaultKGramSize is the token window hashed into one fingerprint.
	// Smaller k is more sensitive, larger k more specific.
	DefaultKGramSize = 5
	// DefaultWinnowWindow is the winnowing window over consecutive k-gram
	// hashes. Every substring of at least w+k-1 tokens keeps at least one
	// surviving fingerprint.
	DefaultWinnowWindow = 4
)

// Fingerprint derives the comparable digest set for one analyzed
// submission. The content hash covers the original raw bytes, so EXACT
// detection is strictly byte-identity; everything else is computed over the
// canonical stream and is deterministic for a given stream and k.
func Fingerprint(raw []byte, res *language.Result, k, w int) models.StructuralFingerprint {
	if k <= 0 {
		k = DefaultKGramSize
	}
	if w <= 0 {
		w = DefaultWinnowWindow
	}

	fp := models.StructuralFingerprint{
		ContentHash:  ContentHash(raw),
		KGramSize:    k,
		WinnowWindow: w,
		TokenCount:   len(res.Stream.Tokens),
	}
	if res.AST != nil {
		fp.ASTShapeHash = ShapeHash(res.AST)
	}
	fp.KGrams = winnow(kgramHashes(res.Stream.Tokens, k), w)
	return fp
}

// ContentHash is a sha256 digest over raw submission bytes.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ShapeHash digests the node-kind tree. Identifier and literal content was
// erased at parse time, so two programs differing only in names and
// constants hash identically.
func ShapeHash(root *models.ASTNode) string {
	var b strings.Builder
	serializeShape(root, &b)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func serializeShape(n *models.ASTNode, b *strings.Builder) {
	if n == nil {
		return
	}
	b.WriteByte('(')
	b.WriteString(string(n.Kind))
	for _, child := range n.Children {
		serializeShape(child, b)
	}
	b.WriteByte(')')
}

// kgramHashes hashes every contiguous window of k canonical tokens.
// Streams shorter than k but non-empty produce a single hash over the whole
// stream, so tiny valid programs still carry a fingerprint.
func kgramHashes(tokens []models.CanonicalToken, k int) []models.KGramHash {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < k {
		return []models.KGramHash{{Hash: hashWindow(tokens), Position: 0}}
	}

	out := make([]models.KGramHash, 0, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		out = append(out, models.KGramHash{Hash: hashWindow(tokens[i : i+k]), Position: i})
	}
	return out
}

func hashWindow(window []models.CanonicalToken) uint64 {
	h := fnv.New64a()
	for _, tok := range window {
		h.Write([]byte(tok.Text))
		h.Write([]byte{0x1f})
	}
	return h.Sum64()
}

// winnow keeps the minimum hash of every window of w consecutive k-gram
// hashes, breaking ties by rightmost position, and records each selection
// once. This bounds fingerprint volume by roughly a factor of w while
// guaranteeing coverage of sufficiently long matches.
func winnow(grams []models.KGramHash, w int) []models.KGramHash {
	if len(grams) == 0 {
		return nil
	}
	if len(grams) <= w {
		best := grams[0]
		for _, g := range grams[1:] {
			if g.Hash <= best.Hash {
				best = g
			}
		}
		return []models.KGramHash{best}
	}

	out := make([]models.KGramHash, 0, len(grams)/w+1)
	lastPos := -1
	for i := 0; i+w <= len(grams); i++ {
		best := grams[i]
		for _, g := range grams[i+1 : i+w] {
			if g.Hash <= best.Hash {
				best = g
			}
		}
		if best.Position != lastPos {
			out = append(out, best)
			lastPos = best.Position
		}
	}
	return out
}
