package risk

import "regexp"

// RulesVersion identifies the revision of the reference tables below.
// Bump it whenever a table entry, weight, or threshold changes.
const RulesVersion = "2024.1"

// Factor names used in Result.Reasoning.
const (
	FactorProhibited   = "Prohibited Practice"
	FactorDomain       = "Domain Risk"
	FactorAutonomy     = "Autonomy Level"
	FactorPopulation   = "Population Impact"
	FactorData         = "Data Sensitivity"
	FactorTransparency = "Transparency Obligation"
)

// Factor weights in percent. They sum to 100.
const (
	weightDomain     = 35
	weightAutonomy   = 20
	weightPopulation = 25
	weightData       = 20
)

// Score thresholds for the non-prohibited tiers.
const (
	ThresholdHigh    = 70
	ThresholdLimited = 40
)

const (
	domainMatchScore       = 85
	defaultAutonomyScore   = 50
	defaultPopulationScore = 50
	dataBaseScore          = 20
	dataPerKeywordScore    = 15
	dataMaxScore           = 95
	transparencyScore      = 50
	prohibitedScore        = 100
	prohibitedConfidence   = 95
	baseConfidence         = 60
	confidenceStep         = 10
	maxConfidence          = 95
)

// DomainRule maps a domain keyword to its Annex III reference and triggered articles.
type DomainRule struct {
	Keyword  string   `json:"keyword"`
	AnnexRef string   `json:"annex_ref"`
	Articles []string `json:"articles"`
}

// PatternRule pairs a case-insensitive pattern with the explanation reported on match.
type PatternRule struct {
	Pattern *regexp.Regexp
	Reason  string
}

// ScoreRule maps a keyword to a factor sub-score.
type ScoreRule struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
}

var defaultArticles = []string{"Art. 6(2)", "Art. 9-15"}

// DomainRules is evaluated in order; the first keyword found wins.
// The order is the order the rules were written in and is part of the rules version.
var DomainRules = []DomainRule{
	{Keyword: "hiring", AnnexRef: "Annex III, 4(a)", Articles: defaultArticles},
	{Keyword: "recruitment", AnnexRef: "Annex III, 4(a)", Articles: defaultArticles},
	{Keyword: "employment", AnnexRef: "Annex III, 4(a)", Articles: defaultArticles},
	{Keyword: "credit", AnnexRef: "Annex III, 5(b)", Articles: defaultArticles},
	{Keyword: "lending", AnnexRef: "Annex III, 5(b)", Articles: defaultArticles},
	{Keyword: "insurance", AnnexRef: "Annex III, 5(a)", Articles: defaultArticles},
	{Keyword: "healthcare", AnnexRef: "Annex III, 1(a)", Articles: defaultArticles},
	{Keyword: "medical", AnnexRef: "Annex III, 1(a)", Articles: defaultArticles},
	{Keyword: "education", AnnexRef: "Annex III, 3(a)", Articles: defaultArticles},
	{Keyword: "law_enforcement", AnnexRef: "Annex III, 6", Articles: []string{"Art. 6(2)", "Art. 9-15", "Art. 26"}},
	{Keyword: "migration", AnnexRef: "Annex III, 7", Articles: defaultArticles},
	{Keyword: "justice", AnnexRef: "Annex III, 8", Articles: defaultArticles},
	{Keyword: "biometric", AnnexRef: "Annex III, 1", Articles: []string{"Art. 5", "Art. 6(2)"}},
	{Keyword: "critical_infrastructure", AnnexRef: "Annex III, 2", Articles: defaultArticles},
}

// ProhibitedRules are the Art. 5 practices, tested in order against purpose and description.
var ProhibitedRules = []PatternRule{
	{regexp.MustCompile(`(?i)social.?scoring`), "Social scoring by public authorities (Art. 5(1)(c))"},
	{regexp.MustCompile(`(?i)subliminal`), "Subliminal manipulation techniques (Art. 5(1)(a))"},
	{regexp.MustCompile(`(?i)exploit.*(vulnerabilit|age|disabilit)`), "Exploitation of vulnerabilities (Art. 5(1)(b))"},
	{regexp.MustCompile(`(?i)real.?time.*biometric.*public`), "Real-time biometric identification in public spaces (Art. 5(1)(d))"},
	{regexp.MustCompile(`(?i)emotion.?recognition.*(workplace|education)`), "Emotion recognition in workplace/education (Art. 5(1)(f))"},
	{regexp.MustCompile(`(?i)predictive.?policing`), "Individual predictive policing (Art. 5(1)(d))"},
	{regexp.MustCompile(`(?i)facial.?recognition.*scraping`), "Untargeted scraping for facial recognition DB (Art. 5(1)(e))"},
}

// TransparencyRules are the Art. 50 triggers that lift a MINIMAL result to LIMITED.
var TransparencyRules = []PatternRule{
	{regexp.MustCompile(`(?i)chatbot|conversational`), "AI system interacting with natural persons (Art. 50(1))"},
	{regexp.MustCompile(`(?i)deepfake|synthetic.*media`), "AI generating synthetic content (Art. 50(4))"},
	{regexp.MustCompile(`(?i)content.?generat`), "AI-generated content disclosure (Art. 50(2))"},
	{regexp.MustCompile(`(?i)emotion.?detect`), "Emotion recognition system (Art. 50(3))"},
}

// PopulationRules is evaluated in order, most exposed population first.
var PopulationRules = []ScoreRule{
	{Keyword: "general_public", Score: 90},
	{Keyword: "patients", Score: 85},
	{Keyword: "students", Score: 80},
	{Keyword: "applicants", Score: 75},
	{Keyword: "customers", Score: 70},
	{Keyword: "employees", Score: 60},
}

// AutonomyScores maps each autonomy level to its sub-score.
var AutonomyScores = map[AutonomyLevel]int{
	AutonomyFullyAutonomous: 90,
	AutonomyHumanOnLoop:     60,
	AutonomyHumanInLoop:     40,
	AutonomyHumanInCommand:  20,
}

// SensitivityKeywords are counted once each in the data description.
var SensitivityKeywords = []string{
	"biometric",
	"health",
	"financial",
	"criminal",
	"ethnic",
	"political",
	"sexual",
	"genetic",
	"location",
	"behavioral",
}

// ColoradoKeywords mark consequential-decision areas under the Colorado AI Act.
var ColoradoKeywords = []string{
	"hiring",
	"recruitment",
	"employment",
	"credit",
	"lending",
	"insurance",
	"healthcare",
	"education",
}

// AnnexHighDomains are the domains listed in Annex III for the membership policy.
var AnnexHighDomains = []Domain{
	DomainHiring,
	DomainCredit,
	DomainInsurance,
	DomainHealthcare,
	DomainEducation,
	DomainLawEnforcement,
	DomainBiometric,
	DomainCriticalInfrastructure,
}

// AnnexTransparencyDomains carry Art. 50 duties under the membership policy.
var AnnexTransparencyDomains = []Domain{
	DomainCustomerService,
	DomainContentGeneration,
}

var prohibitionObligation = Obligation{
	ID:           "ban",
	Title:        "System Prohibited",
	Article:      "Art. 5",
	Description:  "This AI system falls under prohibited practices and cannot be placed on the EU market.",
	Priority:     PriorityCritical,
	Jurisdiction: JurisdictionEU,
}

var highRiskObligations = []Obligation{
	{ID: "rms", Title: "Risk Management System", Article: "Art. 9", Description: "Establish, implement, document and maintain a risk management system.", Priority: PriorityCritical, Jurisdiction: JurisdictionEU},
	{ID: "dg", Title: "Data Governance", Article: "Art. 10", Description: "Training, validation and testing data sets shall meet quality criteria.", Priority: PriorityCritical, Jurisdiction: JurisdictionEU},
	{ID: "td", Title: "Technical Documentation", Article: "Art. 11", Description: "Draw up technical documentation (Annex IV) before placing on market.", Priority: PriorityCritical, Jurisdiction: JurisdictionEU},
	{ID: "rl", Title: "Record-Keeping", Article: "Art. 12", Description: "Enable automatic recording of events (logging).", Priority: PriorityHigh, Jurisdiction: JurisdictionEU},
	{ID: "ti", Title: "Transparency & Information", Article: "Art. 13", Description: "Designed to enable deployers to interpret output and use appropriately.", Priority: PriorityHigh, Jurisdiction: JurisdictionEU},
	{ID: "ho", Title: "Human Oversight", Article: "Art. 14", Description: "Designed to be effectively overseen by natural persons.", Priority: PriorityCritical, Jurisdiction: JurisdictionEU},
	{ID: "ar", Title: "Accuracy, Robustness & Cybersecurity", Article: "Art. 15", Description: "Achieve appropriate level of accuracy, robustness and cybersecurity.", Priority: PriorityHigh, Jurisdiction: JurisdictionEU},
	{ID: "ca", Title: "Conformity Assessment", Article: "Art. 43", Description: "Undergo conformity assessment procedure before placing on market.", Priority: PriorityCritical, Jurisdiction: JurisdictionEU},
}

var limitedRiskObligations = []Obligation{
	{ID: "trans", Title: "Transparency Obligations", Article: "Art. 50", Description: "Ensure persons are informed they are interacting with an AI system.", Priority: PriorityMedium, Jurisdiction: JurisdictionEU},
}

var coloradoObligations = []Obligation{
	{ID: "co-risk-mgmt", Title: "Risk Management Policy", Article: "Section 6-1-1703(1)", Description: "Implement a risk management policy and program governing deployment of high-risk AI systems.", Priority: PriorityCritical, Jurisdiction: JurisdictionColorado},
	{ID: "co-impact-assessment", Title: "Impact Assessment", Article: "Section 6-1-1703(3)", Description: "Complete an impact assessment for the high-risk AI system before deployment.", Priority: PriorityCritical, Jurisdiction: JurisdictionColorado},
	{ID: "co-consumer-notice", Title: "Consumer Notification", Article: "Section 6-1-1703(4)", Description: "Provide notice to consumers when a high-risk AI system is used in consequential decisions.", Priority: PriorityHigh, Jurisdiction: JurisdictionColorado},
	{ID: "co-disclosure", Title: "Public Disclosure", Article: "Section 6-1-1703(2)", Description: "Make publicly available a statement describing the types of high-risk AI systems deployed.", Priority: PriorityHigh, Jurisdiction: JurisdictionColorado},
	{ID: "co-appeal", Title: "Appeal & Correction Process", Article: "Section 6-1-1703(5)", Description: "Provide consumers an opportunity to appeal adverse consequential decisions and correct data.", Priority: PriorityHigh, Jurisdiction: JurisdictionColorado},
}

// Tables is a serializable snapshot of the reference data.
type Tables struct {
	Version             string                `json:"version"`
	Domains             []DomainRule          `json:"domains"`
	Prohibited          []string              `json:"prohibited"`
	Transparency        []string              `json:"transparency"`
	Population          []ScoreRule           `json:"population"`
	Autonomy            []ScoreRule           `json:"autonomy"`
	SensitivityKeywords []string              `json:"sensitivity_keywords"`
	Obligations         map[Tier][]Obligation `json:"obligations"`
	Colorado            []Obligation          `json:"colorado"`
}

// Snapshot returns a copy of the reference tables for display or export.
func Snapshot() Tables {
	t := Tables{
		Version:             RulesVersion,
		Domains:             make([]DomainRule, len(DomainRules)),
		Population:          append([]ScoreRule(nil), PopulationRules...),
		SensitivityKeywords: append([]string(nil), SensitivityKeywords...),
		Obligations:         make(map[Tier][]Obligation, len(Tiers)),
		Colorado:            ColoradoObligations(),
	}

	for i, r := range DomainRules {
		t.Domains[i] = DomainRule{
			Keyword:  r.Keyword,
			AnnexRef: r.AnnexRef,
			Articles: append([]string(nil), r.Articles...),
		}
	}
	for _, r := range ProhibitedRules {
		t.Prohibited = append(t.Prohibited, r.Reason)
	}
	for _, r := range TransparencyRules {
		t.Transparency = append(t.Transparency, r.Reason)
	}
	for _, a := range AutonomyLevels {
		t.Autonomy = append(t.Autonomy, ScoreRule{Keyword: string(a), Score: AutonomyScores[a]})
	}
	for _, tier := range Tiers {
		t.Obligations[tier] = ObligationsFor(tier)
	}

	return t
}
