package chat

import (
	"regexp"
)

// Default phrase list applied when no custom list is configured.
var BannedPhrases = []string{
	"fuck", "fucking", "fucker", "shit", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing",
}

// Filter decides whether a text message violates content policy. It is pure
// and performs no side effects; escalation is the warning ledger's job.
type Filter struct {
	phraseRegexps []*regexp.Regexp
	urlPattern    *regexp.Regexp
}

// NewFilter compiles whole-word patterns for each banned phrase plus a URL
// detector. Whole-word matching is required: "class" must not trip on "ass".
func NewFilter(phrases []string) *Filter {
	f := &Filter{
		phraseRegexps: make([]*regexp.Regexp, 0, len(phrases)),
		urlPattern:    regexp.MustCompile(`(?i)(https?://\S+|tg://\S+|www\.\S+\.\S+)`),
	}
	for _, phrase := range phrases {
		pattern := `(?i)\b` + regexp.QuoteMeta(phrase) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			f.phraseRegexps = append(f.phraseRegexps, re)
		}
	}
	return f
}

// IsViolating reports whether text contains a link or a banned phrase.
func (f *Filter) IsViolating(text string) bool {
	_, violating := f.Check(text)
	return violating
}

// Check returns the violation reason alongside the verdict.
func (f *Filter) Check(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if f.urlPattern.MatchString(text) {
		return "link_not_allowed", true
	}
	for _, re := range f.phraseRegexps {
		if re.MatchString(text) {
			return "inappropriate_language", true
		}
	}
	return "", false
}
