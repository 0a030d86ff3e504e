package classify

import "strings"

// Category is the derived chat type. It is never stored authoritatively;
// the store recomputes it from chat and message evidence and caches the
// result per chat.
type Category int

const (
	Unknown Category = iota
	Personal
	News
	Discussion
)

func (c Category) String() string {
	switch c {
	case Personal:
		return "personal"
	case News:
		return "news"
	case Discussion:
		return "discussion"
	}
	return "unknown"
}

// ParseCategory maps a wire name onto a Category. Unrecognized names
// yield Unknown and false.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal":
		return Personal, true
	case "news":
		return News, true
	case "discussion":
		return Discussion, true
	}
	return Unknown, false
}

// Order selects which evidence wins when title keywords and chat
// structure disagree (e.g. a two-person group titled with a news
// keyword). TitleFirst is the default.
type Order int

const (
	TitleFirst Order = iota
	StructureFirst
)

// ParseOrder maps a config string onto an Order. Empty defaults to
// TitleFirst; unrecognized values return false.
func ParseOrder(s string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title_first":
		return TitleFirst, true
	case "structure_first":
		return StructureFirst, true
	}
	return TitleFirst, false
}
