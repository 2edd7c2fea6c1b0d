package documents

import (
	"slices"

	"github.com/JaimeStill/warden/internal/classifications"
	"github.com/JaimeStill/warden/risk"
)

// Classification sources recorded on generated documents.
const (
	sourceStored = "stored"
	sourceLive   = "live"
)

// resultFor picks the classification a document is generated from. The
// latest stored run is used only while it still describes profile under the
// current rules; otherwise the profile is classified live.
func resultFor(profile risk.Profile, stored *classifications.Classification) (risk.Result, string) {
	live := risk.Classify(profile)
	if stored == nil || !agrees(stored.Result(), live) {
		return live, sourceLive
	}
	return stored.Result(), sourceStored
}

func agrees(stored, live risk.Result) bool {
	return stored.RulesVersion == live.RulesVersion &&
		stored.Tier == live.Tier &&
		stored.Score == live.Score &&
		stored.Confidence == live.Confidence &&
		slices.Equal(stored.Articles, live.Articles)
}
