// Package sections locates résumé section headers and partitions the
// remaining lines into named sections.
package sections

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/types"
)

// MaxHeaderLength bounds the length of a line that can be a section header,
// so that prose starting with a header word stays content.
const MaxHeaderLength = 50

// headerFamily is the ordered set of accepted synonyms for one section
type headerFamily struct {
	name    types.SectionName
	pattern *regexp.Regexp
}

// headerFamilies are tested in canonical order; the first match wins
var headerFamilies = []headerFamily{
	{
		name:    types.SectionEducation,
		pattern: regexp.MustCompile(`(?i)^(?:education(?:al)?|academic (?:background|qualifications?|details|profile)|academics|qualifications?)\b`),
	},
	{
		name:    types.SectionExperience,
		pattern: regexp.MustCompile(`(?i)^(?:(?:work |professional |relevant )?experiences?|employment(?: history)?|work history|internships?)\b`),
	},
	{
		name:    types.SectionProjects,
		pattern: regexp.MustCompile(`(?i)^(?:(?:personal |academic |key |selected )?projects|project work|project experience)\b`),
	},
	{
		name:    types.SectionSkills,
		pattern: regexp.MustCompile(`(?i)^(?:(?:technical |key |professional )?skills?(?: set)?|core competencies|technologies|tech stack)\b`),
	},
	{
		name:    types.SectionCertifications,
		pattern: regexp.MustCompile(`(?i)^(?:certifications?|certificates|licenses|courses|achievements (?:&|and) certifications)\b`),
	},
}

// header records where a section heading was found
type header struct {
	index int
	name  types.SectionName
}

// MatchHeader reports which section a line is a header for, if any
func MatchHeader(line string) (types.SectionName, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) >= MaxHeaderLength {
		return "", false
	}
	// "Label: value" lines are content, not headings, so "Skills: Go, SQL"
	// and "Tech Stack: React" inside a project stay with their section
	if idx := strings.Index(trimmed, ":"); idx >= 0 && strings.TrimSpace(trimmed[idx+1:]) != "" {
		return "", false
	}
	for _, family := range headerFamilies {
		if family.pattern.MatchString(trimmed) {
			return family.name, true
		}
	}
	return "", false
}

// Segment partitions lines into sections. Each section spans from the line
// after its header to the line before the next header. Blank lines are
// dropped, a repeated header appends to the section of the same name, and
// sections without content are omitted. Output follows document order of the
// first header of each section.
func Segment(lines []string) []types.Section {
	var headers []header
	for i, line := range lines {
		if name, ok := MatchHeader(line); ok {
			headers = append(headers, header{index: i, name: name})
		}
	}
	sort.SliceStable(headers, func(i, j int) bool { return headers[i].index < headers[j].index })

	var result []types.Section
	position := make(map[types.SectionName]int)

	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].index
		}

		content := make([]string, 0, end-h.index)
		for _, line := range lines[h.index+1 : end] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				content = append(content, trimmed)
			}
		}
		if len(content) == 0 {
			continue
		}

		if idx, seen := position[h.name]; seen {
			result[idx].Lines = append(result[idx].Lines, content...)
			continue
		}
		position[h.name] = len(result)
		result = append(result, types.Section{Name: h.name, Lines: content})
	}

	return result
}

// Find returns the lines of the named section, or nil when it was not detected
func Find(sections []types.Section, name types.SectionName) []string {
	for _, section := range sections {
		if section.Name == name {
			return section.Lines
		}
	}
	return nil
}

// Names returns the detected section names in canonical order
func Names(sections []types.Section) []string {
	found := make(map[types.SectionName]bool, len(sections))
	for _, section := range sections {
		found[section.Name] = true
	}

	names := make([]string, 0, len(found))
	for _, name := range types.SectionNames() {
		if found[name] {
			names = append(names, string(name))
		}
	}
	return names
}
