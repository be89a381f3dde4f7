package extract

import (
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
)

// DetectLaterality classifies the whole text as left, right or bilateral.
// "left" anywhere wins, even when "right" is also present; "right" alone
// gives right; neither gives bilateral. The test is an unanchored substring
// match, so "cleft" counts as left and "bright" counts as right.
func DetectLaterality(text string) model.Laterality {
	return detectLaterality(strings.ToLower(text))
}

// detectLaterality expects already lowercased text
func detectLaterality(lower string) model.Laterality {
	switch {
	case strings.Contains(lower, "left"):
		return model.SideLeft
	case strings.Contains(lower, "right"):
		return model.SideRight
	default:
		return model.SideBilateral
	}
}
