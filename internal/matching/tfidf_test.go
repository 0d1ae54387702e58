package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func englishVectorizer(t *testing.T) Vectorizer {
	t.Helper()
	stop, err := StopWords(StopWordsEnglish)
	require.NoError(t, err)
	return Vectorizer{MaxFeatures: DefaultMaxFeatures, StopWords: stop}
}

func TestTokenize(t *testing.T) {
	stop, err := StopWords(StopWordsEnglish)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"stop words and punctuation", "What are your hours?", []string{"hours"}},
		{"single characters dropped", "a b c wifi 5 g", []string{"wifi"}},
		{"case folded", "OPENING Hours", []string{"opening", "hours"}},
		{"digits and underscore", "plan_b 2024", []string{"plan_b", "2024"}},
		{"full width normalised", "ＷＩＦＩ password", []string{"wifi", "password"}},
		{"unicode letters", "Jam buka café", []string{"jam", "buka", "café"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.text, stop))
		})
	}
}

func TestStopWords(t *testing.T) {
	en, err := StopWords("English")
	require.NoError(t, err)
	assert.True(t, en.Contains("where"))
	assert.False(t, en.Contains("hours"))

	id, err := StopWords(StopWordsIndonesian)
	require.NoError(t, err)
	assert.True(t, id.Contains("yang"))

	none, err := StopWords(StopWordsNone)
	require.NoError(t, err)
	assert.False(t, none.Contains("the"))

	_, err = StopWords("klingon")
	assert.Error(t, err)
}

func TestVectorizer_FitEmpty(t *testing.T) {
	_, err := englishVectorizer(t).Fit(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestVectorizer_VocabularySortedAndIDF(t *testing.T) {
	m, err := englishVectorizer(t).Fit([]string{"shipping cost", "shipping time"})
	require.NoError(t, err)

	assert.Equal(t, []string{"cost", "shipping", "time"}, m.Vocabulary())
	// smoothed idf: ln((1+n)/(1+df)) + 1
	assert.InDelta(t, 1.0, m.idf[1], 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, m.idf[0], 1e-12)
}

func TestVectorizer_MaxFeaturesKeepsFrequentThenFirstSeen(t *testing.T) {
	v := Vectorizer{MaxFeatures: 2}
	m, err := v.Fit([]string{"zeta alpha", "beta zeta", "gamma beta"})
	require.NoError(t, err)
	// zeta and beta occur twice; alpha and gamma once
	assert.Equal(t, []string{"beta", "zeta"}, m.Vocabulary())

	v = Vectorizer{MaxFeatures: 2}
	m, err = v.Fit([]string{"delta charlie", "bravo"})
	require.NoError(t, err)
	// all counts tie, first occurrences win
	assert.Equal(t, []string{"charlie", "delta"}, m.Vocabulary())
}

func TestModel_TransformIsNormalisedAndDeterministic(t *testing.T) {
	m, err := englishVectorizer(t).Fit([]string{"refund policy", "refund status", "store hours"})
	require.NoError(t, err)

	a, err := m.Transform("refund policy refund")
	require.NoError(t, err)
	b, err := m.Transform("refund policy refund")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, a.norm(), 1e-12)
	assert.IsIncreasing(t, a.Indices)
}

func TestModel_TransformUnknownTermsIsZero(t *testing.T) {
	m, err := englishVectorizer(t).Fit([]string{"refund policy"})
	require.NoError(t, err)

	v, err := m.Transform("completely unrelated words")
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestModel_TransformUnfitted(t *testing.T) {
	var m *Model
	_, err := m.Transform("anything")
	assert.ErrorIs(t, err, ErrModelNotFitted)
}

func TestCosine(t *testing.T) {
	a := Vector{Indices: []int{0, 2}, Values: []float64{1, 1}}
	b := Vector{Indices: []int{2, 5}, Values: []float64{1, 1}}

	assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
	assert.InDelta(t, 0.5, Cosine(a, b), 1e-12)
	assert.Equal(t, 0.0, Cosine(a, Vector{}))
	assert.Equal(t, 0.0, Cosine(Vector{}, Vector{}))
}
