package annex

import "github.com/sergi/go-diff/diffmatchpatch"

// SectionDiff is a diff-match-patch patch for one changed section.
type SectionDiff struct {
	Number int           `json:"number"`
	Title  string        `json:"title"`
	Before SectionStatus `json:"before_status"`
	After  SectionStatus `json:"after_status"`
	Patch  string        `json:"patch"`
}

// Diff compares two versions of a document section by section. Sections are
// matched by number; unchanged sections are omitted.
func Diff(before, after Document) []SectionDiff {
	dmp := diffmatchpatch.New()

	prev := make(map[int]Section, len(before.Sections))
	for _, s := range before.Sections {
		prev[s.Number] = s
	}

	var out []SectionDiff
	for _, s := range after.Sections {
		old := prev[s.Number]
		if old.Content == s.Content && old.Status == s.Status {
			continue
		}

		diffs := dmp.DiffMain(old.Content, s.Content, false)
		patches := dmp.PatchMake(old.Content, diffs)

		out = append(out, SectionDiff{
			Number: s.Number,
			Title:  s.Title,
			Before: old.Status,
			After:  s.Status,
			Patch:  dmp.PatchToText(patches),
		})
	}
	return out
}

