// Package scoring computes the extraction confidence score and its display tier.
package scoring

import "github.com/jonathan/resume-profiler/internal/types"

// Text length thresholds (runes) and the points each one adds when crossed
const (
	shortTextLength  = 200
	mediumTextLength = 500
	longTextLength   = 1000

	shortTextPoints  = 10
	mediumTextPoints = 10
	longTextPoints   = 5
)

// Contact signal points
const (
	emailPoints    = 15
	phonePoints    = 10
	linkedInPoints = 5
	gitHubPoints   = 5
)

// Section coverage bonus
const (
	sectionPoints   = 10
	maxSectionBonus = 40
)

// AIConfidence is the score reported once a remote classification was merged
const AIConfidence = 95

// Tier thresholds
const (
	HighThreshold   = 70
	ReviewThreshold = 30
)

// Signals are the observations a confidence score is computed from
type Signals struct {
	TextLength    int
	HasEmail      bool
	HasPhone      bool
	HasLinkedIn   bool
	HasGitHub     bool
	SectionsFound int
	MergeAccepted bool
}

// Score returns the confidence for one document, clamped to [0, 100].
// A merged remote classification overrides the local score with AIConfidence.
func Score(s Signals) int {
	if s.MergeAccepted {
		return AIConfidence
	}
	score := textScore(s.TextLength) + contactScore(s) + sectionScore(s.SectionsFound)
	return clamp(score)
}

func textScore(length int) int {
	score := 0
	if length > shortTextLength {
		score += shortTextPoints
	}
	if length > mediumTextLength {
		score += mediumTextPoints
	}
	if length > longTextLength {
		score += longTextPoints
	}
	return score
}

func contactScore(s Signals) int {
	score := 0
	if s.HasEmail {
		score += emailPoints
	}
	if s.HasPhone {
		score += phonePoints
	}
	if s.HasLinkedIn {
		score += linkedInPoints
	}
	if s.HasGitHub {
		score += gitHubPoints
	}
	return score
}

func sectionScore(found int) int {
	if found <= 0 {
		return 0
	}
	return min(found*sectionPoints, maxSectionBonus)
}

func clamp(score int) int {
	return max(0, min(score, 100))
}

// Tier buckets a confidence score: >= 70 high, 30-69 needs review, < 30 low
func Tier(confidence int) types.ConfidenceTier {
	switch {
	case confidence >= HighThreshold:
		return types.TierHigh
	case confidence >= ReviewThreshold:
		return types.TierReview
	default:
		return types.TierLow
	}
}
