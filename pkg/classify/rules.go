package classify

import (
	"tabsd/pkg/models"
)

// ChatType determines the category of the chat a message belongs to,
// memoized per chat. The cached value is stable for a generation: later
// calls return it even when given different message evidence.
func (s *Store) ChatType(m models.Message) Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatTypeLocked(m, true)
}

func (s *Store) chatTypeLocked(m models.Message, memoize bool) Category {
	key := m.Peer
	if !key.Valid() {
		return Unknown
	}
	if e, ok := s.types[key]; ok && e.gen == s.gen {
		return e.cat
	}
	var chat *models.Chat
	if c, ok := s.chats[key]; ok {
		chat = &c
	}
	cat := s.decide(chat, m)
	if memoize {
		s.types[key] = typeEntry{cat: cat, gen: s.gen}
		classifications.WithLabelValues(cat.String()).Inc()
	}
	return cat
}

// decide applies the decision policy. Under TitleFirst, title-pattern
// evidence is checked before structural evidence, so a two-person "group"
// titled with a news keyword still classifies as News rather than
// Personal. StructureFirst inverts that and only consults titles when the
// structural rules come up empty.
func (s *Store) decide(chat *models.Chat, m models.Message) Category {
	title := ""
	if chat != nil {
		title = chat.Title
	}
	switch s.order {
	case StructureFirst:
		if cat := structural(chat, m); cat != Unknown {
			return cat
		}
		if cat, ok := s.titleEvidence(title); ok {
			return cat
		}
		return Unknown
	default: // TitleFirst
		if cat, ok := s.titleEvidence(title); ok {
			return cat
		}
		return structural(chat, m)
	}
}

func (s *Store) titleEvidence(title string) (Category, bool) {
	if s.lex.MatchNews(title) {
		return News, true
	}
	if s.lex.MatchGroup(title) {
		return Discussion, true
	}
	return Unknown, false
}

// structural classifies from chat shape and message signature alone.
func structural(chat *models.Chat, m models.Message) Category {
	if chat != nil {
		switch chat.Kind {
		case models.ChatUser:
			if chat.Bot {
				return News
			}
			return Personal
		case models.ChatGroup:
			// a two-party group is functionally a DM
			if chat.ParticipantCount == 2 {
				return Personal
			}
			if chat.ParticipantCount > 2 {
				return Discussion
			}
		case models.ChatChannel:
			return News
		}
	}
	// one-way broadcast signature: the sender itself is a channel
	if m.From != nil && m.From.Kind == models.PeerChannel {
		return News
	}
	return Unknown
}

// admitLocked applies the category-specific admission rules before
// falling back to the memoized chat type for the general case. The
// short-circuits are kept mutually exclusive so the three result sets
// stay pairwise disjoint.
func (s *Store) admitLocked(m models.Message, cat Category) bool {
	switch cat {
	case Personal:
		return s.admitPersonalLocked(m, true)
	case News:
		return s.admitNewsLocked(m)
	case Discussion:
		return s.admitDiscussionLocked(m)
	}
	return false
}

func (s *Store) admitPersonalLocked(m models.Message, memoize bool) bool {
	if s.viewer == 0 {
		return false
	}
	// user DMs, plus two-party groups which classify as Personal
	// structurally
	if m.Peer.Kind != models.PeerUser && m.Peer.Kind != models.PeerGroup {
		return false
	}
	chat, ok := s.chats[m.Peer]
	if !ok {
		// unresolvable peer data belongs to no category
		return false
	}
	if chat.Bot {
		return false
	}
	if s.lex.MatchNews(chat.Title) {
		return false
	}
	// reciprocity: the viewer must be a participant, not an eavesdropper
	if m.SenderID() != s.viewer && m.Peer.ID != s.viewer {
		return false
	}
	return s.chatTypeLocked(m, memoize) == Personal
}

func (s *Store) admitNewsLocked(m models.Message) bool {
	if !m.Peer.Valid() {
		return false
	}
	chat, haveChat := s.chats[m.Peer]
	if haveChat && s.lex.MatchNews(chat.Title) {
		return true
	}
	// group-lexicon titles belong to discussion even on channel peers;
	// defer those to the general chat-type check below
	groupTitled := haveChat && s.lex.MatchGroup(chat.Title)
	if !groupTitled {
		if m.Peer.Kind == models.PeerChannel {
			return true
		}
		if m.Peer.Kind == models.PeerUser && haveChat && chat.Bot {
			return true
		}
	}
	return s.chatTypeLocked(m, true) == News
}

func (s *Store) admitDiscussionLocked(m models.Message) bool {
	if m.Peer.Kind != models.PeerGroup && m.Peer.Kind != models.PeerChannel {
		return false
	}
	chat, haveChat := s.chats[m.Peer]
	if haveChat {
		// news-lexicon titles are excluded even when structurally
		// group-like
		if s.lex.MatchNews(chat.Title) {
			return false
		}
		if s.lex.MatchGroup(chat.Title) {
			return true
		}
		if chat.Kind == models.ChatGroup && chat.ParticipantCount > 2 {
			return true
		}
	}
	return s.chatTypeLocked(m, true) == Discussion
}

// Verify is an independent, cache-read-only re-check used as a
// defense-in-depth filter after grouping. It recomputes admission for the
// Personal case and otherwise compares the chat type against the asserted
// category. It never mutates caches and never fails: malformed input
// yields false.
func (s *Store) Verify(m models.Message, cat Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cat {
	case Personal:
		return s.admitPersonalLocked(m, false)
	case News, Discussion:
		return s.chatTypeLocked(m, false) == cat
	}
	return false
}
