package extraction

import (
	"strings"

	"github.com/jonathan/resume-profiler/internal/types"
)

// ExtractEducation extracts education entries with the default extractor
func ExtractEducation(lines []string) []types.EducationEntry {
	return defaultExtractor.Education(lines)
}

// Education scans an Education section. An institution line opens a
// record; a degree line attaches degree, year and score to the open record.
func (x *Extractor) Education(lines []string) []types.EducationEntry {
	var m recordMachine[types.EducationEntry]

	for _, raw := range lines {
		line := stripBullet(raw)
		if line == "" {
			continue
		}

		switch {
		case reInstitution.MatchString(line):
			institution, dateRange := removeFirstDateRange(line)
			m.open(types.EducationEntry{ID: x.newID(), Institution: institution, Year: lastYear(dateRange)})

		case reDegree.MatchString(line):
			degree, year, score := parseDegreeLine(line)
			entry := m.draft()
			if entry == nil {
				// Degree listed before (or without) its institution
				m.open(types.EducationEntry{ID: x.newID()})
				entry = m.draft()
			}
			if entry.Degree != "" {
				continue
			}
			entry.Degree = degree
			if year != "" {
				entry.Year = year
			}
			if score != "" {
				entry.Score = score
			}

		default:
			// A bare date line completes an open record's year
			if entry := m.draft(); entry != nil && entry.Year == "" {
				if rest, dateRange := removeFirstDateRange(line); dateRange != "" && rest == "" {
					entry.Year = lastYear(dateRange)
				}
			}
		}
	}

	return truncate(m.finish(), MaxEducation)
}

// parseDegreeLine splits a degree line into degree text, year and score
func parseDegreeLine(line string) (degree, year, score string) {
	score = findScore(line)
	rest := line
	if score != "" {
		rest = strings.Replace(rest, score, " ", 1)
	}

	year = lastYear(rest)
	degree = removeDateRanges(rest)
	return degree, year, score
}
