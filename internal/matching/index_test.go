package matching

import (
	"errors"
	"testing"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairs(qa ...string) []entity.QAPair {
	out := make([]entity.QAPair, 0, len(qa)/2)
	for i := 0; i+1 < len(qa); i += 2 {
		out = append(out, entity.QAPair{Question: qa[i], Answer: qa[i+1]})
	}
	return out
}

func TestBuilder_BuildEmpty(t *testing.T) {
	_, err := NewBuilder(englishVectorizer(t)).Build(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestBuilder_BuildKeepsOrder(t *testing.T) {
	idx, err := NewBuilder(englishVectorizer(t)).Build(pairs(
		"What are your hours?", "9-5",
		"Where are you located?", "Downtown",
	))
	require.NoError(t, err)

	require.Equal(t, 2, idx.Len())
	assert.Equal(t, "What are your hours?", idx.Question(0))
	assert.Equal(t, "9-5", idx.Answer(0))
	assert.Equal(t, "Where are you located?", idx.Question(1))
	assert.Equal(t, "Downtown", idx.Answer(1))
}

func TestBuilder_FitFailure(t *testing.T) {
	boom := errors.New("boom")
	b := NewBuilderWithFitter(FitterFunc(func([]string) (Embedder, error) { return nil, boom }))

	_, err := b.Build(pairs("q", "a"))
	assert.ErrorIs(t, err, boom)
}

func TestIndex_ExactQuestionScoresOne(t *testing.T) {
	idx, err := NewBuilder(englishVectorizer(t)).Build(pairs(
		"How do I reset my password?", "Use the reset link",
		"Do you ship internationally?", "Yes, worldwide",
		"What payment methods are accepted?", "Cards and transfer",
	))
	require.NoError(t, err)

	for i := 0; i < idx.Len(); i++ {
		q, err := idx.Embed(idx.Question(i))
		require.NoError(t, err)
		row, score, err := idx.Best(q)
		require.NoError(t, err)
		assert.Equal(t, i, row)
		assert.InDelta(t, 1.0, score, 1e-9)
	}
}

func TestIndex_BestTieGoesToLowestRow(t *testing.T) {
	idx, err := NewBuilder(englishVectorizer(t)).Build(pairs(
		"Opening hours?", "first",
		"opening HOURS", "second",
	))
	require.NoError(t, err)

	q, err := idx.Embed("opening hours")
	require.NoError(t, err)
	sims, err := idx.Similarities(q)
	require.NoError(t, err)
	require.InDelta(t, sims[0], sims[1], 1e-12)

	row, _, err := idx.Best(q)
	require.NoError(t, err)
	assert.Equal(t, 0, row)
}

func TestIndex_MalformedIndex(t *testing.T) {
	idx := &Index{questions: []string{"q"}, answers: nil, embedder: &Model{}}
	_, _, err := idx.Best(Vector{})
	assert.ErrorIs(t, err, ErrMalformedIndex)
}

func TestIndex_EmbedWithoutModel(t *testing.T) {
	idx := &Index{}
	_, err := idx.Embed("hello")
	assert.ErrorIs(t, err, ErrEmbedFailed)
	assert.ErrorIs(t, err, ErrModelNotFitted)
}
