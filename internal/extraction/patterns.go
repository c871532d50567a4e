package extraction

import (
	"regexp"
	"strings"
)

// Contact patterns, matched anywhere in the document
var (
	reEmail      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	rePhone      = regexp.MustCompile(`\+?\(?\d[\d \t().-]{7,}\d`)
	reYearsOnly  = regexp.MustCompile(`^(?:(?:19|20)\d{2}[\s.()-]*)+$`)
	reLinkedIn   = regexp.MustCompile(`(?i)(?:www\.)?linkedin\.com/in/[A-Za-z0-9_-]+`)
	reGitHub     = regexp.MustCompile(`(?i)(?:www\.)?github\.com/[A-Za-z0-9_-]+`)
	reGitHubPath = regexp.MustCompile(`(?i)(?:www\.)?github\.com/[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)*`)
	reURL        = regexp.MustCompile(`(?i)https?://\S+`)
	reName       = regexp.MustCompile(`^[A-Z][A-Za-z ]{2,48}$`)
	reLanguages  = regexp.MustCompile(`(?i)^(?:spoken languages|languages known|languages spoken)\s*:\s*(.+)$`)
)

// Line shape patterns
var (
	reBullet     = regexp.MustCompile(`^\s*[•\-▪◦*●]\s*`)
	reActionVerb = regexp.MustCompile(`^[A-Z][a-z]+ed\s`)
	reLabelLine  = regexp.MustCompile(`^[A-Z][A-Za-z]*:\s`)
	reTechLabel  = regexp.MustCompile(`(?i)^(?:tech(?:nologies| stack)?|stack|tools|built with)\s*:\s*(.+)$`)
	reEmptyParen = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// Date patterns
const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b\.?`
	pointPattern = `(?:` + monthPattern + `,?\s*'?(?:\d{4}|\d{2})\b|` + monthPattern + `|(?:19|20)\d{2}\b|present\b|current\b|now\b)`
)

var (
	reYear      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	reDateToken = regexp.MustCompile(`(?i)\b(?:(?:19|20)\d{2}|` + strings.TrimSuffix(monthPattern, `\b\.?`) + `|present|current)\b`)
	reDateRange = regexp.MustCompile(`(?i)\b` + pointPattern + `(?:\s*(?:-|–|—|to\b|till\b|until\b)\s*` + pointPattern + `)?`)
)

// Education patterns
var (
	reInstitution = regexp.MustCompile(`(?i)\b(?:university|institute|college|school|academy|polytechnic|vidyalaya)\b`)
	reDegree      = regexp.MustCompile(`(?i)\b(?:bachelor(?:'?s)?|master(?:'?s)?|diploma|associate|intermediate|mba|bca|mca|hsc|ssc|phd|doctorate|class (?:x|xii|10|12)(?:th)?)\b|\b[bm]\.?\s?tech\b|\bb\.\s?e\b|\b[bm]\.?\s?sc\b|\bb\.?\s?com\b|\bph\.\s?d\b|\b[bm]\.[sa]\.`)
	// scorePatterns are tried in order: labeled ("CGPA: 9.2"), suffixed
	// ("8.5 CGPA", never a year) and bare percentages
	scorePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:c?gpa|sgpa|cpi|percentage)\s*[:\-]?\s*\d+(?:\.\d+)?(?:\s*/\s*\d+(?:\.\d+)?)?%?`),
		regexp.MustCompile(`(?i)\b(?:\d{1,2}(?:\.\d+)?|\d{3,}\.\d+)\s*(?:/\s*\d+(?:\.\d+)?\s*)?(?:c?gpa|cpi)\b`),
		regexp.MustCompile(`\b\d{1,3}(?:\.\d+)?\s*%`),
	}
)

// findScore returns the first score found by the ordered score patterns
func findScore(line string) string {
	for _, pattern := range scorePatterns {
		if score := pattern.FindString(line); score != "" {
			return strings.TrimSpace(score)
		}
	}
	return ""
}

// Experience patterns
var (
	reRole = regexp.MustCompile(`(?i)\b(?:intern(?:ship)?|developer|engineer|manager|analyst|consultant|designer|lead|architect|scientist|specialist|associate|administrator|coordinator|assistant|officer|director|trainee|founder|co-founder|researcher|fellow|volunteer|programmer|executive)\b`)
	// roleCompanySeparators split "Role at Company" style headings, first match wins
	roleCompanySeparators = []string{" | ", " @ ", " at "}
	// roleDashSeparators may join a role to its team or level as well as to a
	// company, so a following company line takes precedence over the split
	roleDashSeparators = []string{" – ", " — ", " - "}
)

// techKeywords mark a project header segment as a technology list
var techKeywords = []string{
	"react", "angular", "vue", "node", "node.js", "express", "next.js", "django", "flask", "fastapi",
	"spring", "python", "java", "javascript", "typescript", "golang", "go", "rust", "kotlin", "swift",
	"flutter", "c++", "c#", ".net", "html", "css", "tailwind", "redux", "graphql", "sql", "mysql",
	"postgresql", "mongodb", "redis", "firebase", "docker", "kubernetes", "aws", "gcp", "azure",
	"tensorflow", "pytorch", "opencv", "pandas", "numpy", "scikit-learn", "langchain",
}

var reTechKeyword = buildKeywordPattern(techKeywords)

// buildKeywordPattern matches any keyword as a standalone token
func buildKeywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(keyword))
	}
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9+#.])(?:` + strings.Join(quoted, "|") + `)(?:$|[^a-z0-9+#])`)
}

// issuerKeyword maps a case-insensitive substring to a canonical issuer
type issuerKeyword struct {
	keyword string
	issuer  string
}

// knownIssuers is checked in order; multi-word issuers come before the
// single words they contain
var knownIssuers = []issuerKeyword{
	{"linkedin learning", "LinkedIn Learning"},
	{"smart india hackathon", "Smart India Hackathon"},
	{"oracle", "Oracle"},
	{"aws", "Amazon Web Services"},
	{"amazon", "Amazon Web Services"},
	{"google", "Google"},
	{"microsoft", "Microsoft"},
	{"azure", "Microsoft"},
	{"coursera", "Coursera"},
	{"udemy", "Udemy"},
}

var reTrailingIssuer = regexp.MustCompile(`^(.+)(?:\s[-–—]\s|\s*\|\s*)(.+)$`)

// Skill patterns
var (
	reSkillLabel     = regexp.MustCompile(`^[^:,|]{1,40}:\s*`)
	reParenthetical  = regexp.MustCompile(`\([^)]*\)`)
	reSkillDelimiter = regexp.MustCompile(`[,|•▪◦·]`)
)

// skillNoise are tokens that name a category rather than a skill
var skillNoise = map[string]bool{
	"skills":       true,
	"technologies": true,
	"technical":    true,
	"competencies": true,
	"languages":    true,
	"frameworks":   true,
	"tools":        true,
	"databases":    true,
	"proficient":   true,
}

// isBullet reports whether a line starts with a bullet marker
func isBullet(line string) bool {
	return reBullet.MatchString(line)
}

// stripBullet removes a leading bullet marker and surrounding whitespace
func stripBullet(line string) string {
	return strings.TrimSpace(reBullet.ReplaceAllString(line, ""))
}

// cleanFragment trims separator punctuation and empty brackets left behind
// after a token was cut out of a line
func cleanFragment(s string) string {
	s = reEmptyParen.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimFunc(s, func(r rune) bool {
		return strings.ContainsRune(" ,;:|-–—·(", r)
	})
}

// removeFirstDateRange cuts the first date range out of a line and returns
// the remaining text together with the removed range
func removeFirstDateRange(line string) (rest, dateRange string) {
	loc := reDateRange.FindStringIndex(line)
	if loc == nil {
		return cleanFragment(line), ""
	}
	dateRange = strings.TrimSpace(line[loc[0]:loc[1]])
	return cleanFragment(line[:loc[0]] + " " + line[loc[1]:]), dateRange
}

// removeDateRanges cuts every date range out of a line
func removeDateRanges(line string) string {
	return cleanFragment(reDateRange.ReplaceAllString(line, " "))
}

// lastYear returns the last 4-digit year token of a line
func lastYear(line string) string {
	years := reYear.FindAllString(line, -1)
	if len(years) == 0 {
		return ""
	}
	return years[len(years)-1]
}
