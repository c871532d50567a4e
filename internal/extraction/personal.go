package extraction

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-profiler/internal/sections"
	"github.com/jonathan/resume-profiler/internal/types"
)

// nameSearchLines is how many leading non-blank lines are searched for a name
const nameSearchLines = 5

// ExtractPersonalInfo extracts contact details from the whole normalized
// document. Fields without a match stay empty; Bio is never produced here.
func ExtractPersonalInfo(text string) types.PersonalInfo {
	return types.PersonalInfo{
		FullName:    findName(text),
		Email:       reEmail.FindString(text),
		Phone:       findPhone(text),
		LinkedInURL: withScheme(reLinkedIn.FindString(text)),
		GitHubURL:   withScheme(reGitHub.FindString(text)),
		Languages:   findLanguages(text),
	}
}

// findName returns the first proper-case line among the leading lines
func findName(text string) string {
	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if checked == nameSearchLines {
			break
		}
		checked++

		if !reName.MatchString(line) {
			continue
		}
		if _, isHeader := sections.MatchHeader(line); isHeader {
			continue
		}
		return line
	}
	return ""
}

// findPhone returns the first phone-like run holding 10 to 15 digits
func findPhone(text string) string {
	for _, candidate := range rePhone.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if reYearsOnly.MatchString(candidate) {
			continue
		}
		digits := 0
		for _, r := range candidate {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if digits >= 10 && digits <= 15 {
			return candidate
		}
	}
	return ""
}

// findLanguages returns the value of a spoken-languages line
func findLanguages(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if m := reLanguages.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// withScheme prefixes a bare host/path match with https://
func withScheme(match string) string {
	if match == "" {
		return ""
	}
	return "https://" + match
}
