// Package risk implements Warden's rule-based AI Act risk classification.
// It holds the versioned reference tables, the pure Classify function, and
// the tier-keyed obligation lookup. Nothing in this package performs I/O.
package risk

import "errors"

// Sentinel errors for label parsing and lookups. Classify itself never fails.
var (
	ErrInvalidTier       = errors.New("invalid risk tier")
	ErrInvalidPriority   = errors.New("invalid obligation priority")
	ErrUnknownObligation = errors.New("unknown obligation")
)
