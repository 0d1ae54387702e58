package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const DefaultThreshold = 0.30

type Outcome string

const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeNoData        Outcome = "no_data"
	OutcomeNotUnderstood Outcome = "not_understood"
	// OutcomeFailed is only reported by Answer, never by Match.
	OutcomeFailed Outcome = "failed"
)

// Result of matching one utterance. Answer, Question and Row are set only when
// Outcome is OutcomeAnswered.
type Result struct {
	Outcome  Outcome
	Answer   string
	Question string
	Score    float64
	Row      int
}

// IndexProvider yields a client's index; nil means the client has no data.
type IndexProvider interface {
	GetOrBuild(ctx context.Context, clientID int64) (*Index, error)
}

// Messages is the user-facing copy. NotUnderstood doubles as the marker of
// unanswered turns in chat analytics, so it must stay stable.
type Messages struct {
	NoData          string
	NotUnderstood   string
	ProcessingError string
}

func DefaultMessages() Messages {
	return Messages{
		NoData:          "Maaf, belum ada data FAQ untuk Anda.",
		NotUnderstood:   "Maaf, saya belum mengerti apa yang dimaksud. Silakan coba pertanyaan lain atau hubungi admin.",
		ProcessingError: "Maaf, terjadi kesalahan dalam memproses pertanyaan Anda.",
	}
}

// Render converts a match result into reply text.
func (m Messages) Render(res Result, err error) string {
	if err != nil {
		return m.ProcessingError
	}
	switch res.Outcome {
	case OutcomeAnswered:
		return res.Answer
	case OutcomeNoData:
		return m.NoData
	case OutcomeNotUnderstood:
		return m.NotUnderstood
	default:
		return m.ProcessingError
	}
}

type Options struct {
	Threshold float64
	// Timeout bounds embedding and scoring of one query; zero disables it.
	Timeout  time.Duration
	Messages Messages
}

type Matcher struct {
	indexes   IndexProvider
	threshold float64
	timeout   time.Duration
	messages  Messages
}

func NewMatcher(indexes IndexProvider, opts Options) *Matcher {
	if opts.Messages == (Messages{}) {
		opts.Messages = DefaultMessages()
	}
	return &Matcher{
		indexes:   indexes,
		threshold: opts.Threshold,
		timeout:   opts.Timeout,
		messages:  opts.Messages,
	}
}

func (m *Matcher) Messages() Messages {
	return m.messages
}

// Match finds the stored answer closest to utterance. A best score below the
// threshold yields OutcomeNotUnderstood; a score equal to it answers.
func (m *Matcher) Match(ctx context.Context, clientID int64, utterance string) (Result, error) {
	idx, err := m.indexes.GetOrBuild(ctx, clientID)
	if err != nil {
		return Result{}, err
	}
	if idx == nil {
		return Result{Outcome: OutcomeNoData}, nil
	}

	if m.timeout <= 0 {
		return m.score(idx, utterance)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type scored struct {
		res Result
		err error
	}
	done := make(chan scored, 1)
	go func() {
		res, err := m.score(idx, utterance)
		done <- scored{res, err}
	}()

	select {
	case s := <-done:
		return s.res, s.err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %w", ErrEmbedFailed, ctx.Err())
	}
}

func (m *Matcher) score(idx *Index, utterance string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("%w: panic: %v", ErrEmbedFailed, r)
		}
	}()

	if row, ok := idx.Exact(strings.TrimSpace(utterance)); ok {
		return Result{
			Outcome:  OutcomeAnswered,
			Answer:   idx.Answer(row),
			Question: idx.Question(row),
			Score:    1,
			Row:      row,
		}, nil
	}

	query, err := idx.Embed(utterance)
	if err != nil {
		return Result{}, err
	}

	row, score, err := idx.Best(query)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}

	if score < m.threshold {
		return Result{Outcome: OutcomeNotUnderstood, Score: score}, nil
	}
	return Result{
		Outcome:  OutcomeAnswered,
		Answer:   idx.Answer(row),
		Question: idx.Question(row),
		Score:    score,
		Row:      row,
	}, nil
}

// Reply is the rendered answer to a chat turn.
type Reply struct {
	Text    string
	Outcome Outcome
	Score   float64
}

// Answer matches utterance and renders the outcome. Failures are logged with
// the client id and reported as the processing-error message.
func (m *Matcher) Answer(ctx context.Context, clientID int64, utterance string) Reply {
	res, err := m.Match(ctx, clientID, utterance)
	if err != nil {
		operation := "embed_query"
		if errors.Is(err, ErrBuildFailed) {
			operation = "build_index"
		}
		ctxzap.Error(ctx, "faq matching failed",
			zap.Int64("client_id", clientID),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return Reply{Text: m.messages.ProcessingError, Outcome: OutcomeFailed}
	}

	return Reply{
		Text:    m.messages.Render(res, nil),
		Outcome: res.Outcome,
		Score:   res.Score,
	}
}
