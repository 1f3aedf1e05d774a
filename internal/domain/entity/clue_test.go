package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAnswer_TrimsAndLowercases(t *testing.T) {
	normalized, err := NormalizeAnswer("  \t Secret ANSWER \r\n")
	require.NoError(t, err)
	assert.Equal(t, "secret answer", string(normalized))
}

func TestNormalizeAnswer_PreservesInnerWhitespaceAndNonASCII(t *testing.T) {
	// Внутренние пробелы не схлопываются, не-ASCII байты не трогаются
	normalized, err := NormalizeAnswer("Foo  Bar")
	require.NoError(t, err)
	assert.Equal(t, "foo  bar", string(normalized))

	normalized, err = NormalizeAnswer("Ключ")
	require.NoError(t, err)
	assert.Equal(t, "Ключ", string(normalized))
}

func TestNormalizeAnswer_RejectsEmptyAndAllWhitespace(t *testing.T) {
	_, err := NormalizeAnswer("")
	assert.Error(t, err)

	_, err = NormalizeAnswer("   \t\r\n  ")
	assert.Error(t, err)
}

func TestNormalizeAnswer_RejectsOversized(t *testing.T) {
	_, err := NormalizeAnswer(strings.Repeat("a", MaxAnswerLength+1))
	assert.Error(t, err)

	// Ровно на границе допустимо
	_, err = NormalizeAnswer(strings.Repeat("a", MaxAnswerLength))
	assert.NoError(t, err)
}

func TestHashAnswer_EquivalentInputsProduceSameHash(t *testing.T) {
	h1, err := HashAnswer("  ANSWER  ")
	require.NoError(t, err)
	h2, err := HashAnswer("answer")
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "эквивалентные по нормализации ответы должны давать одинаковый хеш")

	h3, err := HashAnswer("another")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	// hex-представление SHA-256
	assert.Len(t, h1, 64)
}

func TestClue_IsCorrect(t *testing.T) {
	hash, err := HashAnswer("Golden Key")
	require.NoError(t, err)

	clue := &Clue{HuntID: 1, ClueID: 1, AnswerHash: hash}

	submitted, err := HashAnswer("  golden key ")
	require.NoError(t, err)
	assert.True(t, clue.IsCorrect(submitted))

	wrong, err := HashAnswer("silver key")
	require.NoError(t, err)
	assert.False(t, clue.IsCorrect(wrong))
}
