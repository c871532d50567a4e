// Package types provides type definitions for structured data used throughout the profile extractor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TextRun is one positioned glyph run emitted by the document collaborator
type TextRun struct {
	Text      string  `json:"text" validate:"max=10000"`
	BaselineY float64 `json:"baselineY"`
	X         float64 `json:"x"`
}

// Page is the sequence of text runs of a single document page, in emission order
type Page []TextRun

// PersonalInfo holds contact details extracted from the whole document
type PersonalInfo struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedinUrl"`
	GitHubURL   string `json:"githubUrl"`
	Bio         string `json:"bio"`
	Languages   string `json:"languages"`
}

// EducationEntry represents one school or degree
type EducationEntry struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
	Score       string `json:"score"`
}

// ExperienceEntry represents one role held at a company
type ExperienceEntry struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ProjectEntry represents one project
type ProjectEntry struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

// CertificationEntry represents one certification or course
type CertificationEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Profile is the aggregate career profile produced by extraction
type Profile struct {
	PersonalInfo   PersonalInfo         `json:"personalInfo"`
	Education      []EducationEntry     `json:"education"`
	Experience     []ExperienceEntry    `json:"experience"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
	Skills         []string             `json:"skills"`
}

// EmptyProfile returns a profile whose lists are empty rather than nil, so it
// serializes as [] instead of null.
func EmptyProfile() Profile {
	return Profile{
		Education:      []EducationEntry{},
		Experience:     []ExperienceEntry{},
		Projects:       []ProjectEntry{},
		Certifications: []CertificationEntry{},
		Skills:         []string{},
	}
}

// ParsingResult is the sole output of a document extraction
type ParsingResult struct {
	Profile       Profile  `json:"profile"`
	Confidence    int      `json:"confidence"`
	SectionsFound []string `json:"sectionsFound"`
	Warnings      []string `json:"warnings"`
}

// FailedResult returns an empty result with confidence 0 and a single warning
func FailedResult(warning string) ParsingResult {
	return ParsingResult{
		Profile:       EmptyProfile(),
		Confidence:    0,
		SectionsFound: []string{},
		Warnings:      []string{warning},
	}
}
