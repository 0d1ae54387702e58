package matching

import (
	"fmt"

	"github.com/gabot/faq-backend/internal/entity"
)

// Index is the similarity index of one client's corpus. It is never mutated
// after Build returns, so readers may share it freely.
type Index struct {
	questions []string
	answers   []string
	embedder  Embedder
	rows      []Vector
	// exact maps a stored question to its first row.
	exact map[string]int
}

// Builder turns a corpus snapshot into an Index.
type Builder struct {
	fitter Fitter
}

func NewBuilder(v Vectorizer) *Builder {
	return &Builder{fitter: v.Fitter()}
}

// NewBuilderWithFitter builds indexes with any term-weighting implementation.
func NewBuilderWithFitter(f Fitter) *Builder {
	return &Builder{fitter: f}
}

// Build fits the weighting model over the questions of pairs and embeds every
// question. Row i of the index always belongs to pairs[i].
func (b *Builder) Build(pairs []entity.QAPair) (*Index, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyCorpus
	}

	questions := make([]string, len(pairs))
	answers := make([]string, len(pairs))
	exact := make(map[string]int, len(pairs))
	for i, p := range pairs {
		questions[i] = p.Question
		answers[i] = p.Answer
		if _, seen := exact[p.Question]; !seen {
			exact[p.Question] = i
		}
	}

	embedder, err := b.fitter.Fit(questions)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	rows := make([]Vector, len(questions))
	for i, q := range questions {
		rows[i], err = embedder.Transform(q)
		if err != nil {
			return nil, fmt.Errorf("embed question %d: %w", i, err)
		}
	}

	idx := &Index{
		questions: questions,
		answers:   answers,
		embedder:  embedder,
		rows:      rows,
		exact:     exact,
	}
	if err := idx.validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) validate() error {
	if idx.embedder == nil {
		return fmt.Errorf("%w: no model", ErrMalformedIndex)
	}
	if len(idx.questions) != len(idx.answers) || len(idx.questions) != len(idx.rows) {
		return fmt.Errorf("%w: %d questions, %d answers, %d rows",
			ErrMalformedIndex, len(idx.questions), len(idx.answers), len(idx.rows))
	}
	return nil
}

func (idx *Index) Len() int {
	return len(idx.questions)
}

func (idx *Index) Question(i int) string {
	return idx.questions[i]
}

func (idx *Index) Answer(i int) string {
	return idx.answers[i]
}

// Exact returns the first row whose stored question equals text verbatim.
// A question made only of stop words embeds to a zero vector, so this is the
// only way such a question can be answered.
func (idx *Index) Exact(text string) (int, bool) {
	row, ok := idx.exact[text]
	return row, ok
}

// Embed transforms text under the index's fitted model.
func (idx *Index) Embed(text string) (Vector, error) {
	if idx == nil || idx.embedder == nil {
		return Vector{}, fmt.Errorf("%w: %w", ErrEmbedFailed, ErrModelNotFitted)
	}
	vec, err := idx.embedder.Transform(text)
	if err != nil {
		return Vector{}, fmt.Errorf("%w: %w", ErrEmbedFailed, err)
	}
	return vec, nil
}

// Similarities scores query against every row, in row order.
func (idx *Index) Similarities(query Vector) ([]float64, error) {
	if err := idx.validate(); err != nil {
		return nil, err
	}
	sims := make([]float64, len(idx.rows))
	for i, row := range idx.rows {
		sims[i] = Cosine(query, row)
	}
	return sims, nil
}

// Best returns the most similar row and its score. The lowest row wins a tie.
func (idx *Index) Best(query Vector) (int, float64, error) {
	sims, err := idx.Similarities(query)
	if err != nil {
		return 0, 0, err
	}
	if len(sims) == 0 {
		return 0, 0, fmt.Errorf("%w: no rows", ErrMalformedIndex)
	}

	best, score := 0, sims[0]
	for i := 1; i < len(sims); i++ {
		if sims[i] > score {
			best, score = i, sims[i]
		}
	}
	return best, score, nil
}
