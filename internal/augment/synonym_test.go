package augment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAugmentProducesDistinctVariants(t *testing.T) {
	a := New(42)

	variants, err := a.Augment("a good game with great strategy", "en", 3)
	require.NoError(t, err)
	require.NotEmpty(t, variants)

	seen := map[string]bool{"a good game with great strategy": true}
	for _, v := range variants {
		key := strings.ToLower(v)
		assert.False(t, seen[key], "duplicate variant %q", v)
		seen[key] = true
		assert.Len(t, strings.Fields(v), 6)
	}
}

func TestAugmentDeterministicPerSeed(t *testing.T) {
	first, err := New(7).Augment("such a fun and simple game", "en", 3)
	require.NoError(t, err)
	second, err := New(7).Augment("such a fun and simple game", "en", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAugmentUnsupportedLanguage(t *testing.T) {
	a := New(1)

	for _, lang := range []string{"es", "fr", "de"} {
		_, err := a.Augment("un juego muy bueno", lang, 2)
		assert.Error(t, err, "language %s", lang)
	}
}

func TestAugmentEmptyLanguageTreatedAsEnglish(t *testing.T) {
	a := New(1)

	variants, err := a.Augment("a good game", "", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, variants)

	variants, err = a.Augment("a good game", "unknown", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, variants)
}

func TestAugmentNoSubstitutableWords(t *testing.T) {
	a := New(1)

	variants, err := a.Augment("xyzzy plugh frobnicate", "en", 3)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestAugmentDegenerateInputs(t *testing.T) {
	a := New(1)

	variants, err := a.Augment("", "en", 3)
	require.NoError(t, err)
	assert.Empty(t, variants)

	variants, err = a.Augment("   ", "en", 3)
	require.NoError(t, err)
	assert.Empty(t, variants)

	variants, err = a.Augment("a good game", "en", 0)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestAugmentPreservesUnknownWords(t *testing.T) {
	a := New(42)

	variants, err := a.Augment("catan is a good game", "en", 1)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Contains(t, variants[0], "catan")
}

func TestAugmentRespectsCount(t *testing.T) {
	a := New(42)

	variants, err := a.Augment("good great fun boring simple complex", "en", 4)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(variants), 4)
	assert.NotEmpty(t, variants)
}
