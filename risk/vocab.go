package risk

import "strings"

// Domain is the closed vocabulary for a system's application area.
type Domain string

// Recognized domains. DomainOther is the lowest-risk bucket.
const (
	DomainHiring                 Domain = "hiring"
	DomainCredit                 Domain = "credit"
	DomainInsurance              Domain = "insurance"
	DomainHealthcare             Domain = "healthcare"
	DomainEducation              Domain = "education"
	DomainLawEnforcement         Domain = "law-enforcement"
	DomainBiometric              Domain = "biometric"
	DomainCriticalInfrastructure Domain = "critical-infrastructure"
	DomainMarketing              Domain = "marketing"
	DomainCustomerService        Domain = "customer-service"
	DomainContentGeneration      Domain = "content-generation"
	DomainOther                  Domain = "other"
)

// Domains lists the domain vocabulary in declaration order.
var Domains = []Domain{
	DomainHiring,
	DomainCredit,
	DomainInsurance,
	DomainHealthcare,
	DomainEducation,
	DomainLawEnforcement,
	DomainBiometric,
	DomainCriticalInfrastructure,
	DomainMarketing,
	DomainCustomerService,
	DomainContentGeneration,
	DomainOther,
}

// DataCategory is the closed vocabulary for the kinds of data a system processes.
type DataCategory string

// Recognized data categories. DataNonPersonal is the lowest-risk bucket.
const (
	DataPersonal          DataCategory = "personal"
	DataSensitivePersonal DataCategory = "sensitive-personal"
	DataBiometric         DataCategory = "biometric"
	DataHealth            DataCategory = "health"
	DataFinancial         DataCategory = "financial"
	DataCriminal          DataCategory = "criminal"
	DataChildren          DataCategory = "children"
	DataLocation          DataCategory = "location"
	DataBehavioral        DataCategory = "behavioral"
	DataEmployment        DataCategory = "employment"
	DataNonPersonal       DataCategory = "non-personal"
)

// DataCategories lists the data category vocabulary in declaration order.
var DataCategories = []DataCategory{
	DataPersonal,
	DataSensitivePersonal,
	DataBiometric,
	DataHealth,
	DataFinancial,
	DataCriminal,
	DataChildren,
	DataLocation,
	DataBehavioral,
	DataEmployment,
	DataNonPersonal,
}

// AutonomyLevel is the closed vocabulary for the degree of human oversight.
type AutonomyLevel string

// Recognized autonomy levels.
const (
	AutonomyFullyAutonomous AutonomyLevel = "fully-autonomous"
	AutonomyHumanOnLoop     AutonomyLevel = "human-on-loop"
	AutonomyHumanInLoop     AutonomyLevel = "human-in-loop"
	AutonomyHumanInCommand  AutonomyLevel = "human-in-command"
)

// AutonomyLevels lists the autonomy vocabulary from least to most oversight.
var AutonomyLevels = []AutonomyLevel{
	AutonomyFullyAutonomous,
	AutonomyHumanOnLoop,
	AutonomyHumanInLoop,
	AutonomyHumanInCommand,
}

// NormalizeDomain maps free text onto the domain vocabulary.
// Unrecognized input yields DomainOther.
func NormalizeDomain(s string) Domain {
	key := normalizeKey(s)
	for _, d := range Domains {
		if normalizeKey(string(d)) == key {
			return d
		}
	}
	return DomainOther
}

// NormalizeDataCategory maps free text onto the data category vocabulary.
// Unrecognized input yields DataNonPersonal.
func NormalizeDataCategory(s string) DataCategory {
	key := normalizeKey(s)
	for _, c := range DataCategories {
		if normalizeKey(string(c)) == key {
			return c
		}
	}
	return DataNonPersonal
}

// NormalizeDataCategories maps each entry onto the vocabulary, dropping duplicates.
func NormalizeDataCategories(values []string) []DataCategory {
	out := make([]DataCategory, 0, len(values))
	seen := make(map[DataCategory]bool, len(values))
	for _, v := range values {
		c := NormalizeDataCategory(v)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// NormalizeAutonomy maps free text onto the autonomy vocabulary.
// The second return value is false when the input is unrecognized.
func NormalizeAutonomy(s string) (AutonomyLevel, bool) {
	key := normalizeKey(s)
	for _, a := range AutonomyLevels {
		if normalizeKey(string(a)) == key {
			return a, true
		}
	}
	return "", false
}

// normalizeKey lower-cases s and folds "-" and spaces to "_".
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
