package types

// ProfileCandidate is the Profile-shaped structure returned by a remote
// classifier. Every field is optional: a nil pointer or nil slice means the
// classifier did not return it.
type ProfileCandidate struct {
	PersonalInfo *CandidatePersonalInfo `json:"personalInfo,omitempty"`
	Education    []EducationEntry       `json:"education,omitempty"`
	Experience   []ExperienceEntry      `json:"experience,omitempty"`
	Projects     []ProjectEntry         `json:"projects,omitempty"`
	Skills       []string               `json:"skills,omitempty"`
}

// CandidatePersonalInfo mirrors PersonalInfo with explicit optional fields
type CandidatePersonalInfo struct {
	FullName    *string `json:"fullName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	LinkedInURL *string `json:"linkedinUrl,omitempty"`
	GitHubURL   *string `json:"githubUrl,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Languages   *string `json:"languages,omitempty"`
}

// ClassifyRequest is the payload sent to a remote classifier
type ClassifyRequest struct {
	Text string `json:"text"`
}
