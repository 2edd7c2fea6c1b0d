package annex

import "github.com/JaimeStill/warden/risk"

// Generate builds the twelve-section Annex IV document for a classified profile.
func Generate(p risk.Profile, r risk.Result) Document {
	doc := Document{
		SystemID:     p.ID,
		SystemName:   p.Name,
		Version:      DraftVersion,
		Tier:         r.Tier,
		RulesVersion: r.RulesVersion,
		Sections:     make([]Section, 0, len(templates)),
	}

	for _, t := range templates {
		doc.Sections = append(doc.Sections, t.render(p, r))
	}

	doc.Recompute()
	return doc
}
