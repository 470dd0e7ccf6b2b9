package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherquest/featherquest/internal/random"
)

func q(prompt, difficulty string, ageMin int) Question {
	return Question{
		Prompt:     prompt,
		Options:    []string{"yes", "no"},
		Answer:     "yes",
		Difficulty: difficulty,
		AgeMin:     ageMin,
	}
}

func bankWith(qs ...Question) Bank {
	return Bank{Categories[0].Name: qs}
}

func TestSelectPrefersMatchingTier(t *testing.T) {
	bank := bankWith(
		q("easy one", DifficultyEasy, AgeJunior),
		q("hard one", DifficultyHard, AgeJunior),
	)

	for i := 0; i < 5; i++ {
		got, ok := Select(bank, 0, DifficultyHard, 30, nil, &random.Fixed{Values: []int{i}})
		require.True(t, ok)
		assert.Equal(t, "hard one", got.Prompt)
	}
}

func TestSelectRelaxesTierWhenEmpty(t *testing.T) {
	bank := bankWith(q("easy one", DifficultyEasy, AgeJunior))

	got, ok := Select(bank, 0, DifficultyHard, 30, nil, &random.Fixed{})
	require.True(t, ok)
	assert.Equal(t, "easy one", got.Prompt)
}

func TestSelectNeverRelaxesAgeGate(t *testing.T) {
	bank := bankWith(
		q("adult only", DifficultyEasy, AgeSenior),
		q("adult only 2", DifficultyMedium, AgeSenior),
	)

	_, ok := Select(bank, 0, DifficultyEasy, 10, nil, &random.Fixed{})
	assert.False(t, ok, "under-age player must not receive age-gated questions")
}

func TestSelectSkipsAskedThenFallsBack(t *testing.T) {
	bank := bankWith(
		q("first", DifficultyEasy, AgeJunior),
		q("second", DifficultyEasy, AgeJunior),
	)
	asked := map[string]bool{"first": true}

	got, ok := Select(bank, 0, DifficultyEasy, 30, asked, &random.Fixed{})
	require.True(t, ok)
	assert.Equal(t, "second", got.Prompt)

	// Everything asked: repeats rather than stalling.
	asked["second"] = true
	got, ok = Select(bank, 0, DifficultyEasy, 30, asked, &random.Fixed{Values: []int{1}})
	require.True(t, ok)
	assert.Contains(t, []string{"first", "second"}, got.Prompt)
}

func TestSelectEmptyCategory(t *testing.T) {
	_, ok := Select(Bank{}, 0, DifficultyEasy, 30, nil, &random.Fixed{})
	assert.False(t, ok)

	_, ok = Select(bankWith(), 99, DifficultyEasy, 30, nil, &random.Fixed{})
	assert.False(t, ok)
}

func TestQuestionValid(t *testing.T) {
	assert.True(t, q("ok", DifficultyEasy, AgeJunior).Valid())
	assert.False(t, Question{Prompt: "x", Options: []string{"a"}, Answer: "a"}.Valid())
	assert.False(t, Question{Prompt: "x", Options: []string{"a", "b"}, Answer: "c"}.Valid())
}

func TestBankMergeDoesNotMutate(t *testing.T) {
	base := bankWith(q("base", DifficultyEasy, AgeJunior))
	extra := Bank{Categories[0].Name: {q("extra", DifficultyHard, AgeJunior)}}

	merged := base.Merge(extra)
	assert.Len(t, merged[Categories[0].Name], 2)
	assert.Len(t, base[Categories[0].Name], 1)
}
