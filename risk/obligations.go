package risk

// ObligationsFor returns the obligation checklist for a tier.
// The result depends on the tier alone and is a fresh copy on every call,
// so callers may mutate it freely.
func ObligationsFor(t Tier) []Obligation {
	switch t {
	case TierUnacceptable:
		return []Obligation{prohibitionObligation}
	case TierHigh:
		return clone(highRiskObligations)
	case TierLimited:
		return clone(limitedRiskObligations)
	}
	return []Obligation{}
}

// ColoradoObligations returns the Colorado AI Act checklist.
func ColoradoObligations() []Obligation {
	return clone(coloradoObligations)
}

// FindObligation looks up an obligation template by id across every checklist.
func FindObligation(id string) (Obligation, bool) {
	if id == prohibitionObligation.ID {
		return prohibitionObligation, true
	}
	for _, set := range [][]Obligation{highRiskObligations, limitedRiskObligations, coloradoObligations} {
		for _, o := range set {
			if o.ID == id {
				return o, true
			}
		}
	}
	return Obligation{}, false
}

func clone(src []Obligation) []Obligation {
	out := make([]Obligation, len(src))
	copy(out, src)
	return out
}
