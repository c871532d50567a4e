package extraction

import (
	"strings"
	"unicode/utf8"
)

// Token length bounds for a skill, inclusive
const (
	minSkillLength = 3
	maxSkillLength = 29
)

// ExtractSkills splits skill lines into individual skills.
//
// Duplicates are removed by exact string comparison, so "React" and "react"
// are both kept. Casing is preserved as written.
func ExtractSkills(lines []string) []string {
	skills := make([]string, 0)
	seen := make(map[string]bool)

	for _, raw := range lines {
		line := stripBullet(raw)
		line = reSkillLabel.ReplaceAllString(line, "")
		line = reParenthetical.ReplaceAllString(line, " ")

		for _, token := range reSkillDelimiter.Split(line, -1) {
			token = strings.Join(strings.Fields(token), " ")
			if !isSkillToken(token) || seen[token] {
				continue
			}
			seen[token] = true
			skills = append(skills, token)
		}
	}

	return truncate(skills, MaxSkills)
}

func isSkillToken(token string) bool {
	n := utf8.RuneCountInString(token)
	if n < minSkillLength || n > maxSkillLength {
		return false
	}
	return !skillNoise[strings.ToLower(token)]
}
