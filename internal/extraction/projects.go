package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/types"
)

// minDatedHeaderLength is the length a pipe-less line needs, besides a date,
// to count as a project heading
const minDatedHeaderLength = 20

// ExtractProjects extracts project entries with the default extractor
func ExtractProjects(lines []string) []types.ProjectEntry {
	return defaultExtractor.Projects(lines)
}

// Projects scans a Projects section. Headings are either pipe-separated
// ("Title | Go, React | github.com/u/repo") or long lines carrying a date.
func (x *Extractor) Projects(lines []string) []types.ProjectEntry {
	var m recordMachine[types.ProjectEntry]

	for _, raw := range lines {
		bullet := isBullet(raw)
		line := stripBullet(raw)
		if line == "" {
			continue
		}

		if bullet {
			if entry := m.draft(); entry != nil {
				entry.Description = appendFragment(entry.Description, line)
			}
			continue
		}

		tech := reTechLabel.FindStringSubmatch(line)
		if tech != nil || reLabelLine.MatchString(line) {
			if entry := m.draft(); entry != nil {
				if tech != nil && entry.Technologies == "" {
					entry.Technologies = removeDateRanges(tech[1])
				} else {
					entry.Description = appendFragment(entry.Description, line)
				}
			}
			continue
		}

		if isProjectHeading(line) {
			m.open(x.parseProjectHeading(line))
			continue
		}

		entry := m.draft()
		if entry == nil {
			continue
		}
		if link := findLink(line); link != "" && entry.Link == "" {
			entry.Link = link
			continue
		}
		entry.Description = appendFragment(entry.Description, line)
	}

	return truncate(m.finish(), MaxProjects)
}

// isProjectHeading reports whether a non-bullet line starts a project
func isProjectHeading(line string) bool {
	if strings.Contains(line, "|") {
		return true
	}
	return reDateToken.MatchString(line) && utf8.RuneCountInString(line) > minDatedHeaderLength
}

// parseProjectHeading splits a heading into title, technologies and link
func (x *Extractor) parseProjectHeading(line string) types.ProjectEntry {
	segments := strings.Split(line, "|")
	entry := types.ProjectEntry{ID: x.newID(), Title: removeDateRanges(segments[0])}

	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		switch {
		case segment == "":
		case strings.Contains(strings.ToLower(segment), "github.com"):
			if entry.Link == "" {
				entry.Link = withScheme(reGitHubPath.FindString(segment))
			}
		case reURL.MatchString(segment):
			if entry.Link == "" {
				entry.Link = reURL.FindString(segment)
			}
		case strings.Contains(segment, ",") || reTechKeyword.MatchString(segment):
			if entry.Technologies == "" {
				entry.Technologies = removeDateRanges(segment)
			}
		}
	}

	return entry
}

// findLink returns a GitHub path or http(s) URL found in a line
func findLink(line string) string {
	if path := reGitHubPath.FindString(line); path != "" {
		return withScheme(path)
	}
	return reURL.FindString(line)
}
