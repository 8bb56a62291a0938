package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/domain"
)

func TestNormalizeStripsNoise(t *testing.T) {
	n := NewNormalizer(nil)
	tokens := n.Normalize("Loving the new sleeper cab! https://t.co/xyz @PeterbiltMotors #comfort")
	assert.Equal(t, domain.TokenSet{"loving", "new", "sleeper", "cab", "comfort"}, tokens)
}

func TestNormalizeKeepsHashtagText(t *testing.T) {
	n := NewNormalizer(nil)
	tokens := n.Normalize("#backlog keeps growing")
	assert.Contains(t, tokens, "backlog")
	assert.NotContains(t, tokens, "#backlog")
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(nil)
	inputs := []string{
		"Check out https://example.com, it's AMAZING!!! @someone",
		"breaks weekly",
		"The EV range is NOT there yet... #charging",
	}
	for _, input := range inputs {
		first := n.Normalize(input)
		second := n.Normalize(strings.Join(first, " "))
		assert.Equal(t, first, second, "input %q", input)
	}
}

func TestNormalizeEmptyInputs(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Empty(t, n.Normalize(""))
	assert.Empty(t, n.Normalize("   \t\n  "))
	assert.Empty(t, n.Normalize("the and with for"))
}

func TestNormalizeDomainStopwords(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Empty(t, n.Normalize("truck trucks trucking Peterbilt"))
}

func TestNormalizeExtraStopwords(t *testing.T) {
	n := NewNormalizer([]string{"fleet"})
	tokens := n.Normalize("our fleet runs daily")
	assert.NotContains(t, tokens, "fleet")
	assert.Contains(t, tokens, "runs")
}

func TestNormalizeDropsShortTokens(t *testing.T) {
	n := NewNormalizer(nil)
	tokens := n.Normalize("ev is ok but the range anxiety persists")
	require.NotEmpty(t, tokens)
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, len(tok), 3)
	}
}

func TestCleanLowercasesAndCollapsesSpace(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Equal(t, "great ride quality", n.Clean("Great   RIDE    quality!!!"))
}
