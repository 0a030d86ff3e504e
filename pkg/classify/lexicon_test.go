package classify

import "testing"

func TestNewsLexicon(t *testing.T) {
	lex, err := NewLexicon(nil, nil)
	if err != nil {
		t.Fatalf("failed to build lexicon: %v", err)
	}

	matches := []string{
		"Crypto News Daily",
		"OFFICIAL announcements",
		"Broadcast feed",
		"My Channel",
		"Daily Updates",
		"Morning headlines",
		"Bali Travel Tips",
		"City Guide",
		"Tourism board",
		"\U0001F1EB\U0001F1F7 Paris",
	}
	for _, title := range matches {
		if !lex.MatchNews(title) {
			t.Fatalf("expected news match for %q", title)
		}
	}

	misses := []string{
		"",
		"Alice",
		"Newspaper", // word boundary: "news" must stand alone
		"snewsy",
	}
	for _, title := range misses {
		if lex.MatchNews(title) {
			t.Fatalf("unexpected news match for %q", title)
		}
	}
}

func TestGroupLexicon(t *testing.T) {
	lex, err := NewLexicon(nil, nil)
	if err != nil {
		t.Fatalf("failed to build lexicon: %v", err)
	}

	for _, title := range []string{
		"Project Discussion",
		"Hiking group",
		"Local Community",
		"Random chat",
		"Book Club",
		"Kernel Hackers Forum",
		"Ops Team",
		"Shop talk",
	} {
		if !lex.MatchGroup(title) {
			t.Fatalf("expected group match for %q", title)
		}
	}
	if lex.MatchGroup("") || lex.MatchGroup("Alice") {
		t.Fatalf("unexpected group match")
	}
}

func TestLexiconExtraPatterns(t *testing.T) {
	lex, err := NewLexicon([]string{`(?i)\bwetter\b`}, []string{`(?i)\bstammtisch\b`})
	if err != nil {
		t.Fatalf("failed to build lexicon with extras: %v", err)
	}
	if !lex.MatchNews("Wetter Berlin") {
		t.Fatalf("extra news pattern not applied")
	}
	if !lex.MatchGroup("Stammtisch Freitag") {
		t.Fatalf("extra group pattern not applied")
	}

	if _, err := NewLexicon([]string{`(bad`}, nil); err == nil {
		t.Fatalf("expected error for invalid extra pattern")
	}
	if _, err := NewLexicon(nil, []string{`[z-a]`}); err == nil {
		t.Fatalf("expected error for invalid extra group pattern")
	}
}
