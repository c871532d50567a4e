// Package merge reconciles a locally extracted profile with the candidate
// profile returned by a remote classifier.
package merge

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-profiler/internal/extraction"
	"github.com/jonathan/resume-profiler/internal/types"
)

var reFourDigits = regexp.MustCompile(`\b\d{4}\b`)

// Reconciler applies the field-level precedence rules. Now supplies the
// fallback year for education entries, NewID fills missing entry IDs.
type Reconciler struct {
	Now   func() time.Time
	NewID func() string
}

// NewReconciler creates a Reconciler using the wall clock and random UUIDs
func NewReconciler() *Reconciler {
	return &Reconciler{Now: time.Now, NewID: uuid.NewString}
}

// Merge combines local and remote into a new profile:
//   - experience, projects, skills and education: remote wins when non-empty
//   - education years are sanitized after a remote win
//   - fullName: remote when non-empty, else local
//   - bio: remote only
//   - every other personal field and certifications stay local
//
// A nil remote returns local unchanged.
func (r *Reconciler) Merge(local types.Profile, remote *types.ProfileCandidate) types.Profile {
	if remote == nil {
		return local
	}

	merged := local
	merged.PersonalInfo = r.mergePersonalInfo(local.PersonalInfo, remote.PersonalInfo)

	if len(remote.Education) > 0 {
		now := r.now()
		education := make([]types.EducationEntry, 0, min(len(remote.Education), extraction.MaxEducation))
		for _, entry := range truncate(remote.Education, extraction.MaxEducation) {
			entry.ID = r.ensureID(entry.ID)
			entry.Year = SanitizeYear(entry.Year, now)
			education = append(education, entry)
		}
		merged.Education = education
	}

	if len(remote.Experience) > 0 {
		experience := make([]types.ExperienceEntry, 0, min(len(remote.Experience), extraction.MaxExperience))
		for _, entry := range truncate(remote.Experience, extraction.MaxExperience) {
			entry.ID = r.ensureID(entry.ID)
			experience = append(experience, entry)
		}
		merged.Experience = experience
	}

	if len(remote.Projects) > 0 {
		projects := make([]types.ProjectEntry, 0, min(len(remote.Projects), extraction.MaxProjects))
		for _, entry := range truncate(remote.Projects, extraction.MaxProjects) {
			entry.ID = r.ensureID(entry.ID)
			projects = append(projects, entry)
		}
		merged.Projects = projects
	}

	if skills := uniqueSkills(remote.Skills); len(skills) > 0 {
		merged.Skills = skills
	}

	return merged
}

func (r *Reconciler) mergePersonalInfo(local types.PersonalInfo, remote *types.CandidatePersonalInfo) types.PersonalInfo {
	merged := local
	merged.Bio = ""
	if remote == nil {
		return merged
	}
	if name := value(remote.FullName); name != "" {
		merged.FullName = name
	}
	merged.Bio = value(remote.Bio)
	return merged
}

// SanitizeYear normalizes a remote education year. A plain integer is kept;
// otherwise the last 4-digit token wins ("2020-2024" becomes "2024"); with no
// such token the current year is used.
func SanitizeYear(year string, now time.Time) string {
	trimmed := strings.TrimSpace(year)
	if _, err := strconv.Atoi(trimmed); err == nil {
		return trimmed
	}
	if tokens := reFourDigits.FindAllString(trimmed, -1); len(tokens) > 0 {
		return tokens[len(tokens)-1]
	}
	return strconv.Itoa(now.Year())
}

func (r *Reconciler) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Reconciler) ensureID(id string) string {
	if id != "" {
		return id
	}
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

// uniqueSkills drops blank and exactly repeated skills, keeping first-seen order
func uniqueSkills(skills []string) []string {
	var unique []string
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		unique = append(unique, skill)
	}
	return truncate(unique, extraction.MaxSkills)
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
