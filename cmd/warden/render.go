package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/warden/risk"
)

func writeMarkdown(w io.Writer, outcomes []outcome) error {
	var b strings.Builder
	b.WriteString("# Classification Report\n")

	for _, o := range outcomes {
		r := o.Result
		fmt.Fprintf(&b, "\n## %s\n\n", o.Name)
		fmt.Fprintf(&b, "_Source: %s_\n\n", o.Source)
		if r.Prohibited() {
			b.WriteString("> **Prohibited practice.** The system falls under Art. 5 and may not be deployed.\n\n")
		}
		b.WriteString("| Field | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Risk Tier | %s |\n", r.Tier)
		fmt.Fprintf(&b, "| Score | %d |\n", r.Score)
		fmt.Fprintf(&b, "| Confidence | %d%% |\n", r.Confidence)
		fmt.Fprintf(&b, "| Rules Version | %s |\n", r.RulesVersion)

		if len(r.Reasoning) > 0 {
			b.WriteString("\n### Factors\n\n| Factor | Weight | Score | Explanation |\n|---|---|---|---|\n")
			for _, f := range r.Reasoning {
				fmt.Fprintf(&b, "| %s | %.2f | %d | %s |\n", f.Factor, f.Weight, f.Score, cell(f.Explanation))
			}
		}

		if len(r.Articles) > 0 {
			b.WriteString("\n### Articles\n\n")
			for _, a := range r.Articles {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}

		writeObligations(&b, "Obligations", r.Obligations)

		b.WriteString("\n### Colorado AI Act\n\n")
		if r.Colorado.Applicable {
			fmt.Fprintf(&b, "Applicable. %s\n", r.Colorado.Reason)
			writeObligations(&b, "Colorado Obligations", r.Colorado.Obligations)
		} else {
			fmt.Fprintf(&b, "Not applicable. %s\n", r.Colorado.Reason)
		}

		if pr := r.PolicyReview; pr != nil {
			b.WriteString("\n### Policy Review\n\n")
			fmt.Fprintf(&b, "Score tier %s, annex tier %s. %s\n", pr.ScoreTier, pr.AnnexTier, pr.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeObligations(b *strings.Builder, heading string, obligations []risk.Obligation) {
	if len(obligations) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n| ID | Title | Article | Priority |\n|---|---|---|---|\n", heading)
	for _, o := range obligations {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", o.ID, cell(o.Title), o.Article, o.Priority)
	}
}

// cell escapes pipes so free text stays inside its table column.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
