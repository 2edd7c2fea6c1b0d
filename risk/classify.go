package risk

import (
	"fmt"
	"slices"
	"strings"
)

// Classify maps a profile to a risk tier, score, confidence, reasoning,
// articles and obligations. It is pure: the profile is not modified and
// identical profiles always produce identical results.
//
// The prohibited-practice check runs first and short-circuits every other
// factor. No combination of weighted factors can produce UNACCEPTABLE.
func Classify(p Profile) Result {
	text := freeText(p)

	if rule, ok := matchPattern(ProhibitedRules, text); ok {
		return prohibited(rule)
	}

	var articles []string

	domain, domainRule := scoreDomain(p, text)
	if domainRule != nil {
		articles = append(articles, domainRule.Articles...)
	}

	factors := []weighted{
		domain,
		scoreAutonomy(p),
		scorePopulation(p),
		scoreData(p),
	}

	score := aggregate(factors)
	tier := tierForScore(score)

	reasoning := make([]Factor, 0, len(factors)+1)
	for _, f := range factors {
		reasoning = append(reasoning, f.Factor)
	}

	if tier == TierMinimal {
		if rule, ok := matchPattern(TransparencyRules, text); ok {
			tier = TierLimited
			reasoning = append(reasoning, Factor{
				Factor:      FactorTransparency,
				Weight:      0,
				Score:       transparencyScore,
				Explanation: rule.Reason,
			})
			articles = append(articles, "Art. 50")
		}
	}

	articles = append(articles, tierArticles(tier)...)

	result := Result{
		Tier:         tier,
		Score:        score,
		Confidence:   confidence(reasoning),
		Reasoning:    reasoning,
		Articles:     dedupe(articles),
		Obligations:  ObligationsFor(tier),
		Colorado:     coloradoMapping(p, tier, text),
		RulesVersion: RulesVersion,
	}

	if annex := AnnexTier(p); annex != tier {
		result.PolicyReview = &PolicyReview{
			ScoreTier: tier,
			AnnexTier: annex,
			Reason: fmt.Sprintf(
				"score thresholds assign %s but domain %q assigns %s by annex membership",
				tier, NormalizeDomain(p.Domain), annex,
			),
		}
	}

	return result
}

// weighted pairs a reported factor with its integer weight in percent.
type weighted struct {
	Factor
	percent int
}

func newWeighted(name string, percent, score int, explanation string) weighted {
	return weighted{
		Factor: Factor{
			Factor:      name,
			Weight:      float64(percent) / 100,
			Score:       score,
			Explanation: explanation,
		},
		percent: percent,
	}
}

func prohibited(rule PatternRule) Result {
	return Result{
		Tier:       TierUnacceptable,
		Score:      prohibitedScore,
		Confidence: prohibitedConfidence,
		Reasoning: []Factor{{
			Factor:      FactorProhibited,
			Weight:      1,
			Score:       prohibitedScore,
			Explanation: rule.Reason,
		}},
		Articles:    []string{"Art. 5"},
		Obligations: ObligationsFor(TierUnacceptable),
		Colorado: ColoradoMapping{
			Reason: coloradoOutOfScope,
		},
		RulesVersion: RulesVersion,
	}
}

func scoreDomain(p Profile, text string) (weighted, *DomainRule) {
	domain := normalizeKey(p.Domain)

	for i := range DomainRules {
		rule := &DomainRules[i]
		if strings.Contains(domain, rule.Keyword) || containsKeyword(text, rule.Keyword) {
			return newWeighted(
				FactorDomain, weightDomain, domainMatchScore,
				"Matches high-risk domain: "+rule.AnnexRef,
			), rule
		}
	}

	return newWeighted(
		FactorDomain, weightDomain, 0,
		"Domain does not match any high-risk categories",
	), nil
}

func scoreAutonomy(p Profile) weighted {
	level, ok := NormalizeAutonomy(p.AutonomyLevel)
	if !ok {
		return newWeighted(
			FactorAutonomy, weightAutonomy, defaultAutonomyScore,
			"Autonomy level not recognized; default score applied",
		)
	}

	explanation := "Human oversight reduces risk tier consideration"
	if level == AutonomyFullyAutonomous {
		explanation = "Fully autonomous decisions increase risk significantly"
	}

	return newWeighted(FactorAutonomy, weightAutonomy, AutonomyScores[level], explanation)
}

func scorePopulation(p Profile) weighted {
	affected := strings.ToLower(p.AffectedPersons)
	score := defaultPopulationScore

	for _, rule := range PopulationRules {
		if containsKeyword(affected, rule.Keyword) {
			score = rule.Score
			break
		}
	}

	return newWeighted(
		FactorPopulation, weightPopulation, score,
		"Affected population: "+p.AffectedPersons,
	)
}

func scoreData(p Profile) weighted {
	parts := make([]string, 0, len(p.DataCategories)+len(p.DataInputs)+1)
	parts = append(parts, p.DataCategories...)
	parts = append(parts, p.DataInputs...)
	parts = append(parts, p.TrainingDataDescription)
	data := strings.ToLower(strings.Join(parts, " "))

	matches := 0
	for _, kw := range SensitivityKeywords {
		if strings.Contains(data, kw) {
			matches++
		}
	}

	explanation := "No sensitive data categories detected"
	if matches > 0 {
		explanation = fmt.Sprintf("Processes sensitive data categories (%d types detected)", matches)
	}

	return newWeighted(
		FactorData, weightData,
		min(dataMaxScore, dataBaseScore+dataPerKeywordScore*matches),
		explanation,
	)
}

// aggregate sums weight × sub-score in hundredths and rounds half up,
// which for non-negative sums equals rounding half away from zero.
func aggregate(factors []weighted) int {
	total := 0
	for _, f := range factors {
		total += f.percent * f.Score
	}
	return (total + 50) / 100
}

func tierForScore(score int) Tier {
	switch {
	case score >= ThresholdHigh:
		return TierHigh
	case score >= ThresholdLimited:
		return TierLimited
	default:
		return TierMinimal
	}
}

func confidence(reasoning []Factor) int {
	strong := 0
	for _, f := range reasoning {
		if f.Score > 50 {
			strong++
		}
	}
	return min(maxConfidence, baseConfidence+confidenceStep*strong)
}

func tierArticles(t Tier) []string {
	switch t {
	case TierHigh:
		return []string{"Art. 9-15", "Art. 43"}
	case TierLimited:
		return []string{"Art. 50"}
	}
	return nil
}

func matchPattern(rules []PatternRule, text string) (PatternRule, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return PatternRule{}, false
}

// freeText joins purpose and description, lower-cased.
func freeText(p Profile) string {
	return strings.ToLower(p.Purpose + " " + p.Description)
}

// containsKeyword matches a table keyword in free text, accepting a space
// wherever the keyword uses an underscore.
func containsKeyword(text, keyword string) bool {
	if strings.Contains(text, keyword) {
		return true
	}
	if spaced := strings.ReplaceAll(keyword, "_", " "); spaced != keyword {
		return strings.Contains(text, spaced)
	}
	return false
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
