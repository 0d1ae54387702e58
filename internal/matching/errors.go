package matching

import "errors"

var (
	// ErrEmptyCorpus is returned by the builder when a client has no questions.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrBuildFailed wraps corpus read and model fit failures.
	ErrBuildFailed = errors.New("index build failed")
	// ErrEmbedFailed wraps failures while embedding or scoring a query.
	ErrEmbedFailed = errors.New("query embedding failed")

	ErrModelNotFitted = errors.New("model is not fitted")
	ErrMalformedIndex = errors.New("malformed index")
)
