package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/types"
)

// minCertificationLength filters stray fragments out of the candidates
const minCertificationLength = 5

// ExtractCertifications extracts certification entries with the default extractor
func ExtractCertifications(lines []string) []types.CertificationEntry {
	return defaultExtractor.Certifications(lines)
}

// Certifications treats every non-trivial line of the section as one
// certification.
func (x *Extractor) Certifications(lines []string) []types.CertificationEntry {
	var certs []types.CertificationEntry

	for _, raw := range lines {
		line := stripBullet(raw)
		if utf8.RuneCountInString(line) < minCertificationLength {
			continue
		}

		year := lastYear(line)
		rest := removeDateRanges(line)
		if rest == "" {
			continue
		}

		title, issuer := rest, ""
		if m := reTrailingIssuer.FindStringSubmatch(rest); m != nil && cleanFragment(m[1]) != "" {
			title, issuer = cleanFragment(m[1]), cleanFragment(m[2])
		}
		if issuer == "" {
			issuer = knownIssuer(rest)
		}

		certs = append(certs, types.CertificationEntry{ID: x.newID(), Title: title, Issuer: issuer, Year: year})
	}

	return truncate(certs, MaxCertifications)
}

// knownIssuer returns the canonical issuer whose keyword occurs in text
func knownIssuer(text string) string {
	lower := strings.ToLower(text)
	for _, known := range knownIssuers {
		if strings.Contains(lower, known.keyword) {
			return known.issuer
		}
	}
	return ""
}
