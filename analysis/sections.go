package analysis

import (
	"regexp"
	"strings"
)

// Keyword alternations used to locate sections in free-form AI responses.
// Patterns are matched case-insensitively; ".*" spans within the regex stage
// that uses it.
const (
	overviewKeywords         = `medication overview|overview|general information|drug class|mechanism`
	generalSafetyKeywords    = `general safety|safety profile|safety concern`
	womensSafetyKeywords     = `women.*health|female.*health|gender.*specific|hormonal|estrogen|progesterone`
	pediatricSafetyKeywords  = `pediatric|children|child|adolescent|infant`
	pregnancySafetyKeywords  = `pregnancy|pregnant|lactation|breastfeeding|fetus|fetal`
	clinicalTrialsKeywords   = `clinical trial|studies|research|evidence|analysis`
	sideEffectKeywords       = `side effect|adverse|reaction|adverse event`
	contraindicationKeywords = `contraindication|avoid|warning|caution`
	dosingKeywords           = `dosing|dose|dosage|administration|recommended`
	interactionKeywords      = `interaction|drug.*drug|medication.*interaction`
	monitoringKeywords       = `monitoring|surveillance|follow.*up|test|check`
)

var (
	// Boundaries that terminate a flexible section: a bold marker opening a
	// new label, a markdown header or a numbered list item.
	sectionBoundary = regexp.MustCompile(`\n\*\*[^*]|\n##|\n[0-9]+\.`)

	// Terminates a markdown-headed section body at the next heading.
	markdownHeadingBoundary = regexp.MustCompile(`\n#+`)

	leadingAsterisks  = regexp.MustCompile(`^\*+\s*`)
	trailingAsterisks = regexp.MustCompile(`\*+$`)

	summaryKeyword  = regexp.MustCompile(`(?i)summary|key points|executive summary|conclusion`)
	summaryBoundary = regexp.MustCompile(`\n\n|##`)

	blackBoxPattern = regexp.MustCompile(`(?is)black.*box.*warning|boxed.*warning|fda.*warning`)
)

// extractSection locates the section introduced by any of the given keywords
// and returns its cleaned text, or "" when nothing usable was found. Three
// strategies run in order: markdown headers, flexible inline labels bounded
// by the next structural marker, then a bare keyword scan up to the next
// blank line.
func extractSection(content, keywords string) string {
	if s := extractMarkdownSection(content, keywords); s != "" {
		return s
	}

	kw := regexp.MustCompile(`(?is)(?:` + keywords + `)`)
	loc := kw.FindStringIndex(content)
	if loc == nil {
		return ""
	}

	start := skipSectionSeparators(content, loc[1])
	rest := content[start:]
	end := len(rest)
	if b := sectionBoundary.FindStringIndex(rest); b != nil {
		end = b[0]
	}
	if raw := rest[:end]; raw != "" {
		return cleanSection(raw)
	}

	// Bare keyword at the very end of the content: take whatever follows up
	// to the next blank line.
	if start >= len(content) || content[start] == '\n' {
		return ""
	}
	rest = content[start:]
	end = len(rest)
	if b := strings.Index(rest, "\n\n"); b >= 0 {
		end = b
	}
	return cleanSection(rest[:end])
}

// sectionOrDefault substitutes def when extraction came up empty.
func sectionOrDefault(content, keywords, def string) string {
	if s := extractSection(content, keywords); s != "" {
		return s
	}
	return def
}

// sectionOrNil returns nil instead of a default for optional fields.
func sectionOrNil(content, keywords string) *string {
	if s := extractSection(content, keywords); s != "" {
		return &s
	}
	return nil
}

// extractMarkdownSection handles "## Heading" style sections, taking the
// whole body through the next markdown heading or the end of the content.
func extractMarkdownSection(content, keywords string) string {
	re := regexp.MustCompile(`(?im)^#+\s*(?:` + keywords + `)`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	nl := strings.IndexByte(content[loc[1]:], '\n')
	if nl < 0 {
		return ""
	}
	body := content[loc[1]+nl+1:]
	if b := markdownHeadingBoundary.FindStringIndex(body); b != nil {
		body = body[:b[0]]
	}
	return cleanSection(body)
}

// skipSectionSeparators advances past the whitespace, asterisks and an
// optional colon that separate a section label from its body.
func skipSectionSeparators(s string, pos int) int {
	pos = skipRun(s, pos, " \t\n\v\f\r*")
	if pos < len(s) && s[pos] == ':' {
		pos++
	}
	return skipRun(s, pos, " \t\n\v\f\r*")
}

func skipRun(s string, pos int, set string) int {
	for pos < len(s) && strings.IndexByte(set, s[pos]) >= 0 {
		pos++
	}
	return pos
}

func cleanSection(s string) string {
	s = strings.TrimSpace(s)
	s = leadingAsterisks.ReplaceAllString(s, "")
	return trailingAsterisks.ReplaceAllString(s, "")
}

// extractSummary pulls an executive summary or key points block, falling
// back to the first few sentences of the content.
func extractSummary(content string) string {
	for _, loc := range summaryKeyword.FindAllStringIndex(content, -1) {
		if b := summaryBoundary.FindStringIndex(content[loc[1]:]); b != nil {
			return strings.TrimSpace(content[loc[0] : loc[1]+b[0]])
		}
	}

	sentences := strings.Split(content, ".")
	if len(sentences) >= 4 {
		return strings.Join(sentences[:4], ".") + "."
	}
	return strings.Join(sentences, ".")
}

// extractListFromText collects every occurrence of the pattern together with
// the text up to the next sentence or line break.
func extractListFromText(text, pattern string) []string {
	re := regexp.MustCompile(`(?i)(?:` + pattern + `)`)
	items := []string{}
	pos := 0

	for pos < len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil || loc[1] == loc[0] {
			break
		}
		matchStart := pos + loc[0]
		matchEnd := pos + loc[1]
		b := strings.IndexAny(text[matchEnd:], "\n.;")
		if b < 0 {
			break
		}
		if item := strings.TrimSpace(text[matchStart : matchEnd+b]); item != "" {
			items = append(items, item)
		}
		pos = matchEnd + b
	}
	return items
}

// extractBlackBoxWarnings returns the black box warning passage, or nil.
func extractBlackBoxWarnings(content string) *string {
	if m := blackBoxPattern.FindString(content); m != "" {
		warning := strings.TrimSpace(m)
		return &warning
	}
	return nil
}
