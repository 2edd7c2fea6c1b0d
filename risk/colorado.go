package risk

import "strings"

const (
	coloradoInScope    = "System makes consequential decisions in a covered domain under Colorado SB 21-169"
	coloradoOutOfScope = "System does not fall under Colorado AI Act scope"
)

// coloradoMapping applies when the system is HIGH and touches a
// consequential-decision area in either its domain or its free text.
func coloradoMapping(p Profile, tier Tier, text string) ColoradoMapping {
	if tier != TierHigh {
		return ColoradoMapping{Reason: coloradoOutOfScope}
	}

	domain := normalizeKey(p.Domain)
	for _, kw := range ColoradoKeywords {
		if strings.Contains(domain, kw) || strings.Contains(text, kw) {
			return ColoradoMapping{
				Applicable:  true,
				Reason:      coloradoInScope,
				Obligations: ColoradoObligations(),
			}
		}
	}

	return ColoradoMapping{Reason: coloradoOutOfScope}
}
