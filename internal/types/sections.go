package types

// SectionName identifies one of the résumé sections the segmenter recognizes
type SectionName string

// Section names, in canonical order
const (
	SectionEducation      SectionName = "Education"
	SectionExperience     SectionName = "Experience"
	SectionProjects       SectionName = "Projects"
	SectionSkills         SectionName = "Skills"
	SectionCertifications SectionName = "Certifications"
)

// AIAnalyzedLabel is appended to SectionsFound when a remote classification was merged
const AIAnalyzedLabel = "AI Analyzed"

// SectionNames lists every section name in canonical order
func SectionNames() []SectionName {
	return []SectionName{
		SectionEducation,
		SectionExperience,
		SectionProjects,
		SectionSkills,
		SectionCertifications,
	}
}

// Section is a contiguous slice of document lines attributed to one heading.
// Lines never include the heading line itself.
type Section struct {
	Name  SectionName `json:"name"`
	Lines []string    `json:"lines"`
}

// ConfidenceTier is the three-level display bucket consumers derive from a confidence score
type ConfidenceTier string

// Confidence tiers
const (
	TierHigh   ConfidenceTier = "high"
	TierReview ConfidenceTier = "review"
	TierLow    ConfidenceTier = "low"
)

// Label returns the human-readable label shown next to the score
func (t ConfidenceTier) Label() string {
	switch t {
	case TierHigh:
		return "high confidence"
	case TierReview:
		return "needs review"
	default:
		return "low confidence"
	}
}
