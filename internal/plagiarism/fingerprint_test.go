package plagiarism

import (
	"testing"

	"github.com/argus-grade/argus/internal/language"
	"github.com/argus-grade/argus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string, lang models.ProgrammingLanguage) *language.Result {
	t.Helper()
	res, err := language.Analyze(src, lang)
	require.NoError(t, err)
	return res
}

func hashSet(fp models.StructuralFingerprint) map[uint64]bool {
	set := make(map[uint64]bool, len(fp.KGrams))
	for _, g := range fp.KGrams {
		set[g.Hash] = true
	}
	return set
}

const loopSrc = `def scan(items):
    total = 0
    for item in items:
        if item > 0:
            total = total + item
    return total
`

func TestFingerprintDeterministic(t *testing.T) {
	res := analyze(t, loopSrc, models.LangPython)

	fp1 := Fingerprint([]byte(loopSrc), res, DefaultKGramSize, DefaultWinnowWindow)
	fp2 := Fingerprint([]byte(loopSrc), res, DefaultKGramSize, DefaultWinnowWindow)

	assert.Equal(t, fp1, fp2)
	assert.Equal(t, DefaultKGramSize, fp1.KGramSize)
	assert.Equal(t, DefaultWinnowWindow, fp1.WinnowWindow)
	assert.NotEmpty(t, fp1.ContentHash)
	assert.NotEmpty(t, fp1.ASTShapeHash)
}

func TestFingerprintWinnowingReduces(t *testing.T) {
	res := analyze(t, loopSrc, models.LangPython)
	fp := Fingerprint([]byte(loopSrc), res, DefaultKGramSize, DefaultWinnowWindow)

	totalKGrams := fp.TokenCount - DefaultKGramSize + 1
	require.Positive(t, totalKGrams)
	assert.NotEmpty(t, fp.KGrams)
	assert.Less(t, len(fp.KGrams), totalKGrams, "winnowing keeps a strict subset")

	// Positions point into the token stream.
	for _, g := range fp.KGrams {
		assert.GreaterOrEqual(t, g.Position, 0)
		assert.LessOrEqual(t, g.Position, fp.TokenCount-DefaultKGramSize)
	}
}

func TestFingerprintShorterThanK(t *testing.T) {
	src := "x = 1\n"
	res := analyze(t, src, models.LangPython)
	fp := Fingerprint([]byte(src), res, DefaultKGramSize, DefaultWinnowWindow)

	assert.Equal(t, 3, fp.TokenCount)
	require.Len(t, fp.KGrams, 1, "sub-k streams get one whole-stream hash")
	assert.Equal(t, 0, fp.KGrams[0].Position)
}

func TestFingerprintEmptyStream(t *testing.T) {
	res := analyze(t, "  \n", models.LangPython)
	fp := Fingerprint([]byte("  \n"), res, DefaultKGramSize, DefaultWinnowWindow)

	assert.Zero(t, fp.TokenCount)
	assert.Empty(t, fp.KGrams)
	assert.NotEmpty(t, fp.ContentHash, "content hash covers raw bytes even when nothing tokenizes")
}

func TestFingerprintFormattingInvariant(t *testing.T) {
	dense := "function f(x) { return x * 2; }"
	sparse := "// doubled\nfunction f( x )\n{\n    return x * 2;\n}\n"

	fpDense := Fingerprint([]byte(dense), analyze(t, dense, models.LangJavaScript), DefaultKGramSize, DefaultWinnowWindow)
	fpSparse := Fingerprint([]byte(sparse), analyze(t, sparse, models.LangJavaScript), DefaultKGramSize, DefaultWinnowWindow)

	assert.NotEqual(t, fpDense.ContentHash, fpSparse.ContentHash)
	assert.Equal(t, hashSet(fpDense), hashSet(fpSparse), "formatting must not change the fingerprint set")
	assert.Equal(t, fpDense.ASTShapeHash, fpSparse.ASTShapeHash)
}

func TestFingerprintRenameInvariant(t *testing.T) {
	a := "def add(a, b):\n    return a + b\n"
	b := "def plus(x, y):\n    return x + y\n"

	fpA := Fingerprint([]byte(a), analyze(t, a, models.LangPython), DefaultKGramSize, DefaultWinnowWindow)
	fpB := Fingerprint([]byte(b), analyze(t, b, models.LangPython), DefaultKGramSize, DefaultWinnowWindow)

	assert.Equal(t, hashSet(fpA), hashSet(fpB))
	assert.Equal(t, fpA.ASTShapeHash, fpB.ASTShapeHash)
	assert.NotEqual(t, fpA.ContentHash, fpB.ContentHash)
}

func TestFingerprintDegradedHasNoShapeHash(t *testing.T) {
	src := "class Broken {\n    void f() {\n"
	res := analyze(t, src, models.LangJava)
	require.True(t, res.Stream.Degraded)

	fp := Fingerprint([]byte(src), res, DefaultKGramSize, DefaultWinnowWindow)
	assert.Empty(t, fp.ASTShapeHash)
	assert.NotEmpty(t, fp.KGrams, "lexical fingerprints still exist in degraded mode")
}
