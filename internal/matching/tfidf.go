package matching

import (
	"math"
	"sort"
)

const DefaultMaxFeatures = 1000

// Vector is a sparse term vector. Indices are strictly ascending.
type Vector struct {
	Indices []int
	Values  []float64
}

func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

func (v Vector) norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of two non-negative vectors, clamped
// to [0,1]. A zero vector is dissimilar to everything.
func Cosine(a, b Vector) float64 {
	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}

	var dot float64
	for i, j := 0, 0; i < len(a.Indices) && j < len(b.Indices); {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}

	sim := dot / (na * nb)
	return math.Max(0, math.Min(1, sim))
}

// Embedder maps text into the vector space of a fitted model.
type Embedder interface {
	Transform(text string) (Vector, error)
}

// Fitter fits an Embedder over a document set.
type Fitter interface {
	Fit(docs []string) (Embedder, error)
}

// FitterFunc adapts a function to Fitter.
type FitterFunc func(docs []string) (Embedder, error)

func (f FitterFunc) Fit(docs []string) (Embedder, error) {
	return f(docs)
}

// Vectorizer configures TF-IDF fitting.
type Vectorizer struct {
	MaxFeatures int
	StopWords   StopWordSet
}

// Model is a fitted TF-IDF model. It is immutable and safe for concurrent use.
type Model struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	stopWords  StopWordSet
}

// Fit learns the vocabulary and smoothed inverse document frequencies of docs.
func (v Vectorizer) Fit(docs []string) (*Model, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	type termStat struct {
		count int
		df    int
		first int
	}
	stats := make(map[string]*termStat)
	order := 0
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc, v.StopWords) {
			st, ok := stats[tok]
			if !ok {
				st = &termStat{first: order}
				stats[tok] = st
				order++
			}
			st.count++
			if !seen[tok] {
				st.df++
				seen[tok] = true
			}
		}
	}

	terms := make([]string, 0, len(stats))
	for term := range stats {
		terms = append(terms, term)
	}

	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	if len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			a, b := stats[terms[i]], stats[terms[j]]
			if a.count != b.count {
				return a.count > b.count
			}
			return a.first < b.first
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	model := &Model{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		stopWords:  v.StopWords,
	}
	for i, term := range terms {
		model.vocabulary[term] = i
		model.idf[i] = math.Log((1+n)/(1+float64(stats[term].df))) + 1
	}

	return model, nil
}

// Fitter returns v as a Fitter.
func (v Vectorizer) Fitter() Fitter {
	return FitterFunc(func(docs []string) (Embedder, error) {
		m, err := v.Fit(docs)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// Dim is the number of vocabulary terms.
func (m *Model) Dim() int {
	if m == nil {
		return 0
	}
	return len(m.terms)
}

// Vocabulary returns the terms in column order.
func (m *Model) Vocabulary() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.terms...)
}

// Transform embeds text under the fitted model. Unknown terms are ignored.
func (m *Model) Transform(text string) (Vector, error) {
	if m == nil || m.vocabulary == nil {
		return Vector{}, ErrModelNotFitted
	}

	counts := make(map[int]int)
	for _, tok := range tokenize(text, m.stopWords) {
		if col, ok := m.vocabulary[tok]; ok {
			counts[col]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)

	var sum float64
	for _, col := range vec.Indices {
		w := float64(counts[col]) * m.idf[col]
		vec.Values = append(vec.Values, w)
		sum += w * w
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}

	return vec, nil
}
