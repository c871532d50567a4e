// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-profiler/internal/scoring"
	"github.com/jonathan/resume-profiler/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to the box width, counting runes
func truncate(line string) string {
	if utf8.RuneCountInString(line) <= boxWidth-4 {
		return line
	}
	runes := []rune(line)
	return string(runes[:boxWidth-7]) + "..."
}

// PrintParsingResult outputs the confidence, sections and warnings of a result
func (p *Printer) PrintParsingResult(source string, result *types.ParsingResult) {
	if result == nil {
		return
	}

	tier := scoring.Tier(result.Confidence)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n", source))
	sb.WriteString(fmt.Sprintf("Confidence: %d (%s)\n", result.Confidence, tier.Label()))

	if len(result.SectionsFound) > 0 {
		sb.WriteString(fmt.Sprintf("Sections:   %s\n", strings.Join(result.SectionsFound, ", ")))
	} else {
		sb.WriteString("Sections:   none detected\n")
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ! %s\n", warning))
		}
	}

	p.printBox("EXTRACTION RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs a human-readable summary of an extracted profile
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	info := profile.PersonalInfo
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(info.FullName)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(info.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orDash(info.Phone)))
	if info.LinkedInURL != "" {
		sb.WriteString(fmt.Sprintf("LinkedIn: %s\n", info.LinkedInURL))
	}
	if info.GitHubURL != "" {
		sb.WriteString(fmt.Sprintf("GitHub:   %s\n", info.GitHubURL))
	}

	if len(profile.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, edu := range profile.Education {
			sb.WriteString(fmt.Sprintf("  • %s", orDash(edu.Institution)))
			if edu.Year != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", edu.Year))
			}
			sb.WriteString("\n")
		}
	}

	if len(profile.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		for _, exp := range profile.Experience {
			sb.WriteString(fmt.Sprintf("  • %s", orDash(exp.Role)))
			if exp.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", exp.Company))
			}
			sb.WriteString("\n")
		}
	}

	if len(profile.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("\nProjects: %d\n", len(profile.Projects)))
	}
	if len(profile.Certifications) > 0 {
		sb.WriteString(fmt.Sprintf("Certifications: %d\n", len(profile.Certifications)))
	}

	if len(profile.Skills) > 0 {
		count := min(len(profile.Skills), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("\nSkills: %s", strings.Join(profile.Skills[:count], ", ")))
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf(" ... and %d more", len(profile.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
