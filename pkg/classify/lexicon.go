package classify

import (
	"fmt"
	"regexp"
)

// The lexicons are data, not logic: titles are matched against pattern
// lists that deployments can extend through config without touching the
// decision rules.

// defaultNewsPatterns flag broadcast/official/news/travel-guide titles.
// The flag-emoji pattern exists because travel and tourism broadcast
// channels conventionally carry a national flag in their title.
var defaultNewsPatterns = []string{
	`(?i)\bnews\b`,
	`(?i)\bofficial\b`,
	`(?i)\bbroadcast\b`,
	`(?i)\bchannel\b`,
	`(?i)\bdaily\b`,
	`(?i)\bupdates?\b`,
	`(?i)\bheadlines?\b`,
	`(?i)\btravel\b`,
	`(?i)\bguide\b`,
	`(?i)\btourism\b`,
	`[\x{1F1E6}-\x{1F1FF}]{2}`,
}

// defaultGroupPatterns flag group/community/discussion titles.
var defaultGroupPatterns = []string{
	`(?i)\bgroup\b`,
	`(?i)\bcommunity\b`,
	`(?i)\bdiscussion\b`,
	`(?i)\bchat\b`,
	`(?i)\bclub\b`,
	`(?i)\bforum\b`,
	`(?i)\bteam\b`,
	`(?i)\btalk\b`,
}

// Lexicon holds the compiled title pattern sets.
type Lexicon struct {
	news  []*regexp.Regexp
	group []*regexp.Regexp
}

// NewLexicon compiles the built-in patterns plus any extras from config.
// A bad extra pattern fails compilation so startup can reject it early.
func NewLexicon(extraNews, extraGroup []string) (*Lexicon, error) {
	lex := &Lexicon{}
	var err error
	if lex.news, err = compileAll(defaultNewsPatterns, extraNews); err != nil {
		return nil, fmt.Errorf("news lexicon: %w", err)
	}
	if lex.group, err = compileAll(defaultGroupPatterns, extraGroup); err != nil {
		return nil, fmt.Errorf("group lexicon: %w", err)
	}
	return lex, nil
}

func compileAll(base, extra []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(base)+len(extra))
	for _, p := range base {
		out = append(out, regexp.MustCompile(p))
	}
	for _, p := range extra {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// MatchNews reports whether the title matches the channel/news lexicon.
func (l *Lexicon) MatchNews(title string) bool {
	return matchAny(l.news, title)
}

// MatchGroup reports whether the title matches the group/discussion lexicon.
func (l *Lexicon) MatchGroup(title string) bool {
	return matchAny(l.group, title)
}

func matchAny(res []*regexp.Regexp, title string) bool {
	if title == "" {
		return false
	}
	for _, re := range res {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}
