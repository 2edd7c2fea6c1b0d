package annex

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/warden/risk"
)

// field is a profile or classification value a section draws on.
type field struct {
	label string
	value string
}

func (f field) present() bool {
	return strings.TrimSpace(f.value) != ""
}

// template describes one fixed Annex IV section. Sections that only
// reference external evidence have no fields and are always missing.
type template struct {
	number          int
	title           string
	description     string
	requiredContent []string
	evidence        bool
	fields          func(risk.Profile, risk.Result) []field
}

var templates = []template{
	{
		number:      1,
		title:       "General Description of the AI System",
		description: "A general description including the intended purpose, the name of the provider, the version of the system, and how the AI system interacts with hardware or software.",
		requiredContent: []string{
			"System name, version, and unique identifier",
			"Provider name and contact information",
			"Intended purpose and conditions of use",
			"Interaction with hardware/software that is not part of the AI system",
			"Instructions for use provided to the deployer",
		},
		fields: func(p risk.Profile, _ risk.Result) []field {
			return []field{
				{"System Name", p.Name},
				{"Provider", p.Deployer},
				{"Intended Purpose", p.Purpose},
				{"Description", p.Description},
				{"Output Type", p.OutputType},
			}
		},
	},
	{
		number:      2,
		title:       "Detailed Description of Elements and Development Process",
		description: "A detailed description of the elements of the AI system and of the process for its development.",
		requiredContent: []string{
			"Methods and steps for development of the AI system",
			"Design specifications: general logic, algorithms, key design choices",
			"Description of data requirements (datasheets, training methodologies)",
			"Validation and testing procedures and results",
			"Cybersecurity measures taken per Article 15",
		},
		evidence: true,
		fields: func(p risk.Profile, _ risk.Result) []field {
			return []field{
				{"Model Type", p.ModelType},
				{"Training Data", p.TrainingDataDescription},
			}
		},
	},
	{
		number:      3,
		title:       "Monitoring, Functioning and Control",
		description: "Detailed information about the monitoring, functioning and control of the AI system.",
		requiredContent: []string{
			"Description of capabilities and limitations in performance",
			"Degrees of accuracy for specific persons or groups",
			"Foreseeable unintended outcomes and risks to health/safety/fundamental rights",
			"Human interface measures: human oversight per Article 14",
		},
		evidence: true,
		fields: func(p risk.Profile, _ risk.Result) []field {
			return []field{
				{"Affected Persons", p.AffectedPersons},
				{"Output Type", p.OutputType},
				{"Autonomy Level", p.AutonomyLevel},
			}
		},
	},
	{
		number:      4,
		title:       "Risk Management System",
		description: "A description of the risk management system in accordance with Article 9.",
		requiredContent: []string{
			"Description of the risk management process",
			"Identification and analysis of known and foreseeable risks",
			"Risk mitigation and control measures adopted",
			"Residual risks and their acceptability",
		},
		evidence: true,
		fields: func(p risk.Profile, r risk.Result) []field {
			return []field{
				{"Risk Tier", string(r.Tier)},
				{"Intended Purpose", p.Purpose},
			}
		},
	},
	{
		number:      5,
		title:       "Data Governance",
		description: "A description of the data governance measures in accordance with Article 10.",
		requiredContent: []string{
			"Training, validation, and testing data sets description",
			"Data collection processes and origin of data",
			"Examination of possible biases",
			"Measures to detect, prevent, and mitigate bias",
		},
		evidence: true,
		fields: func(p risk.Profile, _ risk.Result) []field {
			return []field{
				{"Data Inputs", strings.Join(p.DataInputs, ", ")},
				{"Data Categories", strings.Join(p.DataCategories, ", ")},
				{"Training Data", p.TrainingDataDescription},
			}
		},
	},
	{
		number:      6,
		title:       "Human Oversight Measures",
		description: "Description of measures in accordance with Article 14.",
		requiredContent: []string{
			"Technical measures for human oversight",
			"Measures to facilitate interpretation of outputs",
			"Human-in-the-loop / human-on-the-loop / human-in-command specification",
		},
		fields: func(p risk.Profile, _ risk.Result) []field {
			return []field{
				{"Autonomy Level", p.AutonomyLevel},
			}
		},
	},
	{
		number:      7,
		title:       "Accuracy, Robustness and Cybersecurity",
		description: "Description of measures in accordance with Article 15.",
		requiredContent: []string{
			"Levels of accuracy and accuracy metrics",
			"Robustness measures: technical redundancy, fail-safe mechanisms",
			"Cybersecurity measures against unauthorized access/manipulation",
		},
		evidence: true,
	},
	{
		number:      8,
		title:       "Quality Management System",
		description: "A description of the quality management system per Article 17.",
		requiredContent: []string{
			"Compliance strategy and regulatory framework mapping",
			"Examination, testing, and validation pre/during/post development",
			"Procedures for incident reporting per Article 73",
			"Record-keeping policies",
		},
		evidence: true,
	},
	{
		number:      9,
		title:       "Changes Through Lifecycle",
		description: "Description of changes made to the system through its lifecycle.",
		requiredContent: []string{
			"Change log with dates and descriptions",
			"Impact assessment of changes on compliance",
			"Version history and release notes",
		},
		evidence: true,
	},
	{
		number:      10,
		title:       "Harmonised Standards and Common Specifications",
		description: "A list of the harmonised standards applied in full or in part.",
		requiredContent: []string{
			"List of harmonised standards applied (full or partial)",
			"Common specifications applied (if no harmonised standards)",
		},
		evidence: true,
	},
	{
		number:      11,
		title:       "EU Declaration of Conformity",
		description: "A copy of the EU declaration of conformity referred to in Article 47.",
		requiredContent: []string{
			"Copy of the signed EU declaration of conformity",
			"Statement of conformity with applicable requirements",
			"Notified body involvement (if applicable)",
		},
		evidence: true,
	},
	{
		number:      12,
		title:       "Post-Market Monitoring Plan",
		description: "A description of the post-market monitoring system per Article 72.",
		requiredContent: []string{
			"Post-market monitoring plan and procedures",
			"Incident reporting mechanisms per Article 73",
			"Corrective action procedures",
		},
		evidence: true,
	},
}

// Titles returns the fixed section titles in order.
func Titles() []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = t.title
	}
	return out
}

const notProvided = "[Not provided]"

func (t template) render(p risk.Profile, r risk.Result) Section {
	var fields []field
	if t.fields != nil {
		fields = t.fields(p, r)
	}

	present := 0
	var b strings.Builder
	for _, f := range fields {
		v := notProvided
		if f.present() {
			v = f.value
			present++
		}
		fmt.Fprintf(&b, "%s: %s\n", f.label, v)
	}

	switch t.number {
	case 4:
		writeRiskDetail(&b, r)
	case 6:
		writeOversightDetail(&b, p)
	}

	if t.evidence {
		if len(fields) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Pending external evidence:\n")
		for _, rc := range t.requiredContent {
			fmt.Fprintf(&b, "- %s\n", rc)
		}
	}

	return Section{
		Number:          t.number,
		Title:           t.title,
		Description:     t.description,
		RequiredContent: append([]string(nil), t.requiredContent...),
		Content:         strings.TrimRight(b.String(), "\n"),
		Status:          status(present, len(fields), t.evidence),
		NeedsEvidence:   t.evidence,
	}
}

func status(present, total int, evidence bool) SectionStatus {
	switch {
	case present == 0:
		return StatusMissing
	case present == total && !evidence:
		return StatusComplete
	default:
		return StatusPartial
	}
}

func writeRiskDetail(b *strings.Builder, r risk.Result) {
	fmt.Fprintf(b, "Risk Score: %d\n", r.Score)
	fmt.Fprintf(b, "Confidence: %d%%\n", r.Confidence)
	for _, f := range r.Reasoning {
		fmt.Fprintf(b, "- %s (weight %.2f, score %d): %s\n", f.Factor, f.Weight, f.Score, f.Explanation)
	}
	if len(r.Articles) > 0 {
		fmt.Fprintf(b, "Applicable Articles: %s\n", strings.Join(r.Articles, ", "))
	}
	for _, o := range r.Obligations {
		fmt.Fprintf(b, "Obligation [%s] %s (%s)\n", o.Priority, o.Title, o.Article)
	}
}

func writeOversightDetail(b *strings.Builder, p risk.Profile) {
	level, ok := risk.NormalizeAutonomy(p.AutonomyLevel)
	if !ok {
		return
	}
	fmt.Fprintf(b, "Oversight Model: %s\n", level)
	fmt.Fprintf(b, "Autonomous Operation: %s\n", yesNo(level == risk.AutonomyFullyAutonomous))
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
