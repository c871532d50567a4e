package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/types"
)

// minCompanyLength is the shortest line accepted as a company name
const minCompanyLength = 3

// ExtractExperience extracts experience entries with the default extractor
func ExtractExperience(lines []string) []types.ExperienceEntry {
	return defaultExtractor.Experience(lines)
}

// Experience scans an Experience section.
//
// A non-bullet line naming a role together with a date opens a record. The
// line right after it becomes the company unless the heading named one with
// "at", "@" or "|". A dash split ("Engineer - Backend") only supplies the
// company when no company line follows. Bullets and lines opening with a
// past-tense verb are description fragments.
func (x *Extractor) Experience(lines []string) []types.ExperienceEntry {
	var m recordMachine[types.ExperienceEntry]
	awaitingCompany := false
	// fullRole is the unsplit heading of a dash-split record
	fullRole := ""

	for _, raw := range lines {
		bullet := isBullet(raw)
		line := stripBullet(raw)
		if line == "" {
			continue
		}
		actionVerb := reActionVerb.MatchString(line)

		if !bullet && !actionVerb && isRoleHeading(line) {
			heading, duration := removeFirstDateRange(line)
			role, company := splitRoleCompany(heading)
			fullRole = ""
			awaitingCompany = company == ""
			if awaitingCompany {
				if dashRole, dashCompany := splitOn(heading, roleDashSeparators); dashCompany != "" {
					fullRole = role
					role, company = dashRole, dashCompany
				}
			}
			m.open(types.ExperienceEntry{ID: x.newID(), Role: role, Company: company, Duration: duration})
			continue
		}

		entry := m.draft()
		if entry == nil {
			continue
		}

		switch {
		case bullet || actionVerb:
			awaitingCompany = false
			entry.Description = appendFragment(entry.Description, line)

		case awaitingCompany:
			awaitingCompany = false
			if utf8.RuneCountInString(line) >= minCompanyLength {
				company, duration := removeFirstDateRange(line)
				entry.Company = company
				if fullRole != "" {
					entry.Role = fullRole
				}
				if entry.Duration == "" {
					entry.Duration = duration
				}
			}

		case entry.Description != "":
			// Wrapped continuation of the previous fragment
			entry.Description += " " + line
		}
	}

	return truncate(m.finish(), MaxExperience)
}

// isRoleHeading reports whether a line names a role and carries a date
func isRoleHeading(line string) bool {
	return reRole.MatchString(line) && reDateToken.MatchString(line)
}

// splitRoleCompany splits "Role at Company" style headings
func splitRoleCompany(heading string) (role, company string) {
	if role, company = splitOn(heading, roleCompanySeparators); company != "" {
		return role, company
	}
	return heading, ""
}

// splitOn splits at the first separator leaving text on both sides
func splitOn(heading string, separators []string) (left, right string) {
	for _, sep := range separators {
		if idx := strings.Index(heading, sep); idx > 0 {
			left = cleanFragment(heading[:idx])
			right = cleanFragment(heading[idx+len(sep):])
			if left != "" && right != "" {
				return left, right
			}
		}
	}
	return "", ""
}

// appendFragment joins a description fragment onto existing text
func appendFragment(description, fragment string) string {
	fragment = cleanFragment(fragment)
	if fragment == "" {
		return description
	}
	if description == "" {
		return fragment
	}
	return description + descriptionSeparator + fragment
}
