package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type staticIndexes struct {
	idx *Index
	err error
}

func (s staticIndexes) GetOrBuild(context.Context, int64) (*Index, error) {
	return s.idx, s.err
}

// scriptedEmbedder misbehaves for selected inputs.
type scriptedEmbedder struct {
	inner Embedder
}

func (e scriptedEmbedder) Transform(text string) (Vector, error) {
	switch text {
	case "panic":
		panic("index out of range")
	case "slow":
		time.Sleep(200 * time.Millisecond)
	case "fail":
		return Vector{}, errors.New("bad input")
	}
	return e.inner.Transform(text)
}

func scenarioMatcher(t *testing.T, threshold float64) (*Matcher, *fakeCorpus, *IndexCache) {
	t.Helper()
	src := newFakeCorpus()
	src.set(1, pairs(
		"What are your hours?", "9-5",
		"Where are you located?", "Downtown",
	))
	c := newTestCache(t, src)
	return NewMatcher(c, Options{Threshold: threshold}), src, c
}

func TestMatcher_Scenario(t *testing.T) {
	m, _, _ := scenarioMatcher(t, DefaultThreshold)
	ctx := context.Background()

	res, err := m.Match(ctx, 1, "what time do you open")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotUnderstood, res.Outcome)
	assert.Less(t, res.Score, DefaultThreshold)
	assert.Equal(t, DefaultMessages().NotUnderstood, m.Answer(ctx, 1, "what time do you open").Text)

	res, err = m.Match(ctx, 1, "What are your hours?")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, res.Outcome)
	assert.Equal(t, "9-5", res.Answer)
	assert.Equal(t, 0, res.Row)
	assert.Equal(t, "9-5", m.Answer(ctx, 1, "What are your hours?").Text)
}

func TestMatcher_NoData(t *testing.T) {
	m, _, _ := scenarioMatcher(t, DefaultThreshold)

	for _, q := range []string{"hello", "What are your hours?", "???"} {
		res, err := m.Match(context.Background(), 99, q)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoData, res.Outcome)

		reply := m.Answer(context.Background(), 99, q)
		assert.Equal(t, DefaultMessages().NoData, reply.Text)
	}
}

func TestMatcher_ExactQuestionReturnsItsAnswer(t *testing.T) {
	src := newFakeCorpus()
	corpus := pairs(
		"How do I reset my password?", "Use the reset link",
		"Do you ship internationally?", "Yes, worldwide",
		"What payment methods are accepted?", "Cards and transfer",
		"Can I cancel an order?", "Within 24 hours",
	)
	src.set(7, corpus)
	m := NewMatcher(newTestCache(t, src), Options{Threshold: DefaultThreshold})

	for _, p := range corpus {
		res, err := m.Match(context.Background(), 7, p.Question)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAnswered, res.Outcome, p.Question)
		assert.Equal(t, p.Answer, res.Answer)
		assert.InDelta(t, 1.0, res.Score, 1e-9)
	}
}

func TestMatcher_StopWordOnlyQuestion(t *testing.T) {
	src := newFakeCorpus()
	src.set(1, pairs(
		"Who are you?", "We are Gabot",
		"Where are you located?", "Downtown",
	))
	m := NewMatcher(newTestCache(t, src), Options{Threshold: DefaultThreshold})
	ctx := context.Background()

	res, err := m.Match(ctx, 1, "Who are you?")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, res.Outcome)
	assert.Equal(t, "We are Gabot", res.Answer)
	assert.Equal(t, 0, res.Row)
	assert.Equal(t, 1.0, res.Score)

	res, err = m.Match(ctx, 1, "  Who are you?\n")
	require.NoError(t, err)
	assert.Equal(t, "We are Gabot", res.Answer)

	// only the verbatim question bypasses scoring
	res, err = m.Match(ctx, 1, "who are you")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotUnderstood, res.Outcome)
}

func TestMatcher_StopWordOnlyQuestionIndonesian(t *testing.T) {
	stop, err := StopWords(StopWordsIndonesian)
	require.NoError(t, err)
	src := newFakeCorpus()
	src.set(1, pairs("Apa itu?", "Layanan FAQ", "Jam buka toko?", "09.00-17.00"))
	c := NewIndexCache(src, NewBuilder(Vectorizer{MaxFeatures: 1000, StopWords: stop}), 0)
	t.Cleanup(c.Close)

	res, err := NewMatcher(c, Options{Threshold: DefaultThreshold}).Match(context.Background(), 1, "Apa itu?")
	require.NoError(t, err)
	assert.Equal(t, "Layanan FAQ", res.Answer)
}

func TestIndex_ExactPrefersFirstRow(t *testing.T) {
	idx, err := NewBuilder(englishVectorizer(t)).Build(pairs("Who are you?", "first", "Who are you?", "second"))
	require.NoError(t, err)

	row, ok := idx.Exact("Who are you?")
	require.True(t, ok)
	assert.Equal(t, 0, row)

	_, ok = idx.Exact("who are you?")
	assert.False(t, ok)
}

func TestMatcher_ThresholdEqualityAnswers(t *testing.T) {
	src := newFakeCorpus()
	src.set(1, pairs(
		"refund policy for damaged items", "Full refund",
		"store opening hours", "9-5",
	))
	c := newTestCache(t, src)

	idx, err := c.GetOrBuild(context.Background(), 1)
	require.NoError(t, err)
	q, err := idx.Embed("refund")
	require.NoError(t, err)
	_, score, err := idx.Best(q)
	require.NoError(t, err)
	require.Greater(t, score, 0.0)
	require.Less(t, score, 1.0)

	res, err := NewMatcher(c, Options{Threshold: score}).Match(context.Background(), 1, "refund")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnswered, res.Outcome)
	assert.Equal(t, "Full refund", res.Answer)

	res, err = NewMatcher(c, Options{Threshold: score + 1e-9}).Match(context.Background(), 1, "refund")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotUnderstood, res.Outcome)
}

func TestMatcher_TieGoesToEarliestQuestion(t *testing.T) {
	src := newFakeCorpus()
	src.set(1, pairs(
		"Opening hours?", "first",
		"opening HOURS", "second",
	))
	m := NewMatcher(newTestCache(t, src), Options{Threshold: DefaultThreshold})

	res, err := m.Match(context.Background(), 1, "opening hours")
	require.NoError(t, err)
	assert.Equal(t, "first", res.Answer)
}

func TestMatcher_ReflectsMutationAfterInvalidate(t *testing.T) {
	m, src, c := scenarioMatcher(t, DefaultThreshold)
	ctx := context.Background()

	res, err := m.Match(ctx, 1, "Where are you located?")
	require.NoError(t, err)
	require.Equal(t, "Downtown", res.Answer)

	src.set(1, pairs("What are your hours?", "9-5"))
	c.Invalidate(1)

	res, err = m.Match(ctx, 1, "Where are you located?")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotUnderstood, res.Outcome)

	// bulk delete of every entry
	src.set(1, nil)
	c.Invalidate(1)

	res, err = m.Match(ctx, 1, "What are your hours?")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoData, res.Outcome)
}

func TestMatcher_BuildFailureIsProcessingError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	src := newFakeCorpus()
	src.err = errors.New("connection reset")
	m := NewMatcher(newTestCache(t, src), Options{Threshold: DefaultThreshold})

	_, err := m.Match(ctx, 3, "hello")
	assert.ErrorIs(t, err, ErrBuildFailed)

	reply := m.Answer(ctx, 3, "hello")
	assert.Equal(t, DefaultMessages().ProcessingError, reply.Text)
	assert.Equal(t, OutcomeFailed, reply.Outcome)

	entries := logs.FilterMessage("faq matching failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["client_id"])
	assert.Equal(t, "build_index", fields["operation"])
	assert.Contains(t, fields["error"], "connection reset")
}

func scriptedIndex(t *testing.T) *Index {
	t.Helper()
	v := englishVectorizer(t)
	b := NewBuilderWithFitter(FitterFunc(func(docs []string) (Embedder, error) {
		m, err := v.Fit(docs)
		if err != nil {
			return nil, err
		}
		return scriptedEmbedder{inner: m}, nil
	}))
	idx, err := b.Build(pairs("What are your hours?", "9-5"))
	require.NoError(t, err)
	return idx
}

func TestMatcher_EmbedFailures(t *testing.T) {
	idx := scriptedIndex(t)

	tests := []struct {
		name    string
		query   string
		timeout time.Duration
		extra   error
	}{
		{name: "transform error", query: "fail"},
		{name: "panic recovered", query: "panic"},
		{name: "timeout", query: "slow", timeout: 10 * time.Millisecond, extra: context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			ctx := ctxzap.ToContext(context.Background(), zap.New(core))
			m := NewMatcher(staticIndexes{idx: idx}, Options{Threshold: DefaultThreshold, Timeout: tt.timeout})

			_, err := m.Match(ctx, 5, tt.query)
			assert.ErrorIs(t, err, ErrEmbedFailed)
			if tt.extra != nil {
				assert.ErrorIs(t, err, tt.extra)
			}

			reply := m.Answer(ctx, 5, tt.query)
			assert.Equal(t, DefaultMessages().ProcessingError, reply.Text)

			entries := logs.FilterMessage("faq matching failed").All()
			require.Len(t, entries, 1)
			assert.Equal(t, "embed_query", entries[0].ContextMap()["operation"])
		})
	}
}

func TestMatcher_TimeoutNotHitAnswers(t *testing.T) {
	m := NewMatcher(staticIndexes{idx: scriptedIndex(t)}, Options{Threshold: DefaultThreshold, Timeout: time.Second})

	res, err := m.Match(context.Background(), 1, "what are your hours")
	require.NoError(t, err)
	assert.Equal(t, "9-5", res.Answer)
}

func TestMessages_Render(t *testing.T) {
	msgs := Messages{NoData: "none", NotUnderstood: "huh", ProcessingError: "oops"}

	assert.Equal(t, "42", msgs.Render(Result{Outcome: OutcomeAnswered, Answer: "42"}, nil))
	assert.Equal(t, "none", msgs.Render(Result{Outcome: OutcomeNoData}, nil))
	assert.Equal(t, "huh", msgs.Render(Result{Outcome: OutcomeNotUnderstood}, nil))
	assert.Equal(t, "oops", msgs.Render(Result{}, errors.New("x")))
	assert.Equal(t, "oops", msgs.Render(Result{}, nil))
}

func TestNewMatcher_CustomMessages(t *testing.T) {
	msgs := Messages{NoData: "no faqs yet", NotUnderstood: "sorry?", ProcessingError: "try later"}
	m := NewMatcher(staticIndexes{}, Options{Threshold: DefaultThreshold, Messages: msgs})

	assert.Equal(t, msgs, m.Messages())
	assert.Equal(t, "no faqs yet", m.Answer(context.Background(), 1, "hi").Text)
}
