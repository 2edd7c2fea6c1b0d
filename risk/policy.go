package risk

import "slices"

// AnnexTier is the tier assigned by direct annex membership of the
// normalized domain, ignoring every weighted factor. Classify compares it
// with the score tier and attaches a PolicyReview when they disagree.
func AnnexTier(p Profile) Tier {
	d := NormalizeDomain(p.Domain)
	switch {
	case slices.Contains(AnnexHighDomains, d):
		return TierHigh
	case slices.Contains(AnnexTransparencyDomains, d):
		return TierLimited
	}
	return TierMinimal
}
