package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can tell a
// misconfigured build apart from unusable input with errors.Is.
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrDegenerateInput = errors.New("degenerate input")
)

var (
	ErrNoNumericFeatures   = fmt.Errorf("%w: no numeric features available for clustering", ErrConfiguration)
	ErrMissingTitleColumn  = fmt.Errorf("%w: corpus has no title column", ErrConfiguration)
	ErrInvalidClusterCount = fmt.Errorf("%w: cluster count must be positive", ErrConfiguration)

	ErrEmptyCorpus     = fmt.Errorf("%w: empty corpus", ErrDegenerateInput)
	ErrEmptyVocabulary = fmt.Errorf("%w: empty vocabulary after stop-word removal", ErrDegenerateInput)
	ErrTooFewTitles    = fmt.Errorf("%w: fewer titles than clusters", ErrDegenerateInput)
)
