package classify

import (
	"testing"

	"tabsd/pkg/models"
)

const viewerID int64 = 12345

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return s
}

func userRef(id int64) *models.PeerRef {
	return &models.PeerRef{Kind: models.PeerUser, ID: id}
}

// seedInbox loads the store with one representative chat and message per
// category, the way a batch from an upstream fetcher would look.
func seedInbox(t *testing.T, s *Store) {
	t.Helper()
	s.SetViewer(viewerID)
	s.UpsertChats([]models.Chat{
		// the viewer's own mailbox peer: incoming DMs land here
		{Kind: models.ChatUser, ID: viewerID, FirstName: "Sam"},
		{Kind: models.ChatUser, ID: 201, FirstName: "Alice", LastName: "Ng"},
		{Kind: models.ChatChannel, ID: 301, Title: "Crypto News Daily", ParticipantCount: 5400},
		{Kind: models.ChatGroup, ID: 401, Title: "Project Discussion", ParticipantCount: 5},
	})
	s.Append([]models.Message{
		{ID: "m-dm-in", Text: "hey", Peer: models.PeerRef{Kind: models.PeerUser, ID: viewerID}, From: userRef(201), TS: 1},
		{ID: "m-dm-out", Text: "hi back", Peer: models.PeerRef{Kind: models.PeerUser, ID: 201}, From: userRef(viewerID), TS: 2},
		{ID: "m-news", Text: "BTC at it again", Peer: models.PeerRef{Kind: models.PeerChannel, ID: 301}, TS: 3},
		{ID: "m-disc", Text: "standup in 5", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 401}, From: userRef(777), TS: 4},
	})
}

func ids(msgs []models.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func contains(msgs []models.Message, id string) bool {
	for _, m := range msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

func TestPersonalMessageFromUser(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	g := s.GroupedByCategory()
	if !contains(g.Personal, "m-dm-in") {
		t.Fatalf("incoming DM missing from personal: %v", ids(g.Personal))
	}
	if !contains(g.Personal, "m-dm-out") {
		t.Fatalf("outgoing DM missing from personal: %v", ids(g.Personal))
	}
	if contains(g.News, "m-dm-in") || contains(g.Discussion, "m-dm-in") {
		t.Fatalf("DM leaked into news/discussion")
	}
}

func TestNewsChannelByTitle(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	g := s.GroupedByCategory()
	if !contains(g.News, "m-news") {
		t.Fatalf("channel message missing from news: %v", ids(g.News))
	}
	if contains(g.Personal, "m-news") || contains(g.Discussion, "m-news") {
		t.Fatalf("news message leaked into personal/discussion")
	}
}

func TestDiscussionGroupByTitleAndSize(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	g := s.GroupedByCategory()
	if !contains(g.Discussion, "m-disc") {
		t.Fatalf("group message missing from discussion: %v", ids(g.Discussion))
	}
	if contains(g.Personal, "m-disc") || contains(g.News, "m-disc") {
		t.Fatalf("discussion message leaked into personal/news")
	}
}

func TestTwoPartyGroupIsPersonal(t *testing.T) {
	s := newTestStore(t, Options{})
	s.SetViewer(viewerID)
	s.UpsertChats([]models.Chat{
		{Kind: models.ChatGroup, ID: 402, Title: "Sam & Alice", ParticipantCount: 2},
	})
	s.Append([]models.Message{
		{ID: "m-2p", Text: "lunch?", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 402}, From: userRef(viewerID), TS: 1},
	})

	g := s.GroupedByCategory()
	if !contains(g.Personal, "m-2p") {
		t.Fatalf("two-party group message missing from personal: %v", ids(g.Personal))
	}
	if contains(g.Discussion, "m-2p") || contains(g.News, "m-2p") {
		t.Fatalf("two-party group message leaked into discussion/news")
	}
}

func TestPersonalWithoutViewerIsEmpty(t *testing.T) {
	s := newTestStore(t, Options{})
	s.UpsertChats([]models.Chat{
		{Kind: models.ChatUser, ID: 201, FirstName: "Alice"},
	})
	s.Append([]models.Message{
		{ID: "m1", Peer: models.PeerRef{Kind: models.PeerUser, ID: 201}, From: userRef(201), TS: 1},
	})

	if got := s.Personal(); len(got) != 0 {
		t.Fatalf("expected empty personal with no viewer, got %v", ids(got))
	}
	// news/discussion are unaffected by the missing viewer
	if got := s.News(); len(got) != 0 {
		t.Fatalf("plain DM should not fall into news: %v", ids(got))
	}
}

func TestGroupedDisjointAndIdempotent(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	g1 := s.GroupedByCategory()
	seen := map[string]string{}
	check := func(cat string, msgs []models.Message) {
		for _, m := range msgs {
			if prev, ok := seen[m.ID]; ok {
				t.Fatalf("message %s in both %s and %s", m.ID, prev, cat)
			}
			seen[m.ID] = cat
		}
	}
	check("personal", g1.Personal)
	check("news", g1.News)
	check("discussion", g1.Discussion)

	// a second read without intervening writes returns identical results
	g2 := s.GroupedByCategory()
	if len(g2.Personal) != len(g1.Personal) || len(g2.News) != len(g1.News) || len(g2.Discussion) != len(g1.Discussion) {
		t.Fatalf("repeated read changed results: %+v vs %+v", ids(g1.Personal), ids(g2.Personal))
	}
}

func TestReciprocityExcludesEavesdropper(t *testing.T) {
	s := newTestStore(t, Options{})
	s.SetViewer(viewerID)
	s.UpsertChats([]models.Chat{
		{Kind: models.ChatUser, ID: 202, FirstName: "Bob"},
	})
	// a DM between two third parties: viewer is neither sender nor peer
	s.Append([]models.Message{
		{ID: "m-eaves", Peer: models.PeerRef{Kind: models.PeerUser, ID: 202}, From: userRef(203), TS: 1},
	})

	if got := s.Personal(); len(got) != 0 {
		t.Fatalf("eavesdropped DM admitted to personal: %v", ids(got))
	}
	for _, m := range s.Personal() {
		if m.SenderID() != viewerID && m.Peer.ID != viewerID {
			t.Fatalf("reciprocity violated for %s", m.ID)
		}
	}
}

func TestBotChatIsNewsNotPersonal(t *testing.T) {
	s := newTestStore(t, Options{})
	s.SetViewer(viewerID)
	s.UpsertChats([]models.Chat{
		{Kind: models.ChatUser, ID: 501, FirstName: "WeatherBot", Bot: true},
	})
	s.Append([]models.Message{
		{ID: "m-bot", Text: "rain at 6", Peer: models.PeerRef{Kind: models.PeerUser, ID: 501}, From: userRef(501), TS: 1},
	})

	g := s.GroupedByCategory()
	if contains(g.Personal, "m-bot") {
		t.Fatalf("bot chat admitted to personal")
	}
	if !contains(g.News, "m-bot") {
		t.Fatalf("bot chat missing from news: %v", ids(g.News))
	}
}

func TestChatTypeMemoizedPerChat(t *testing.T) {
	s := newTestStore(t, Options{})

	// no chat record: the channel-sender signature decides
	m1 := models.Message{ID: "a", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 600}, From: &models.PeerRef{Kind: models.PeerChannel, ID: 9}}
	if got := s.ChatType(m1); got != News {
		t.Fatalf("expected News from channel-sender signature, got %s", got)
	}

	// same peer, weaker evidence: memoized result wins within a generation
	m2 := models.Message{ID: "b", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 600}}
	if got := s.ChatType(m2); got != News {
		t.Fatalf("memoized chat type not reused, got %s", got)
	}

	// new evidence arrives: upsert invalidates, the type is recomputed
	s.UpsertChats([]models.Chat{{Kind: models.ChatGroup, ID: 600, Title: "Ops Team", ParticipantCount: 8}})
	if got := s.ChatType(m2); got != Discussion {
		t.Fatalf("expected recompute after chat upsert, got %s", got)
	}
}

func TestUnknownPeerYieldsUnknown(t *testing.T) {
	s := newTestStore(t, Options{})
	if got := s.ChatType(models.Message{ID: "x"}); got != Unknown {
		t.Fatalf("expected Unknown for missing peer, got %s", got)
	}
	if got := s.ChatType(models.Message{ID: "y", Peer: models.PeerRef{Kind: "weird", ID: 1}}); got != Unknown {
		t.Fatalf("expected Unknown for invalid peer kind, got %s", got)
	}
}

func TestAppendInvalidatesEpoch(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	if !s.Epoch().IsZero() {
		t.Fatalf("epoch stamped before any read")
	}
	_ = s.GroupedByCategory()
	first := s.Epoch()
	if first.IsZero() {
		t.Fatalf("first read did not stamp epoch")
	}

	// an empty append still invalidates
	s.Append(nil)
	if !s.Epoch().IsZero() {
		t.Fatalf("append did not zero the epoch")
	}

	s.Append([]models.Message{
		{ID: "m-late", Text: "breaking", Peer: models.PeerRef{Kind: models.PeerChannel, ID: 301}, TS: 9},
	})
	g := s.GroupedByCategory()
	if !contains(g.News, "m-late") {
		t.Fatalf("post-invalidation read missing appended message: %v", ids(g.News))
	}
	if s.Epoch().IsZero() {
		t.Fatalf("read after append did not re-stamp epoch")
	}
}

func TestSetViewerInvalidates(t *testing.T) {
	s := newTestStore(t, Options{})
	s.SetViewer(999)
	s.UpsertChats([]models.Chat{
		{Kind: models.ChatUser, ID: 201, FirstName: "Alice"},
	})
	s.Append([]models.Message{
		{ID: "m-dm", Peer: models.PeerRef{Kind: models.PeerUser, ID: 201}, From: userRef(viewerID), TS: 1},
	})

	if got := s.Personal(); len(got) != 0 {
		t.Fatalf("DM admitted for non-participant viewer: %v", ids(got))
	}

	s.SetViewer(viewerID)
	if got := s.Personal(); !contains(got, "m-dm") {
		t.Fatalf("viewer change did not recompute personal: %v", ids(got))
	}
}

func TestForceRecategorizeStampsEpoch(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	s.ForceRecategorize()
	if s.Epoch().IsZero() {
		t.Fatalf("force recategorize did not stamp epoch")
	}
	// results are rebuilt, not lost
	g := s.GroupedByCategory()
	if len(g.News) == 0 || len(g.Personal) == 0 {
		t.Fatalf("grouped results empty after force recategorize")
	}
}

func TestClearCachesKeepsLedger(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)
	before := s.Snapshot()

	s.ClearCaches()
	s.ClearCaches() // idempotent

	after := s.Snapshot()
	if after.Ledger != before.Ledger || after.Chats != before.Chats {
		t.Fatalf("clear caches touched ledger/chats: %+v vs %+v", before, after)
	}
	if after.News != before.News || after.Personal != before.Personal {
		t.Fatalf("rebuild after clear diverged: %+v vs %+v", before, after)
	}
}

func TestVerifyMatchesGrouping(t *testing.T) {
	s := newTestStore(t, Options{})
	seedInbox(t, s)

	g := s.GroupedByCategory()
	for _, m := range g.Personal {
		if !s.Verify(m, Personal) {
			t.Fatalf("verify rejected grouped personal message %s", m.ID)
		}
		if s.Verify(m, News) || s.Verify(m, Discussion) {
			t.Fatalf("verify admitted personal message %s elsewhere", m.ID)
		}
	}
	for _, m := range g.News {
		if !s.Verify(m, News) {
			t.Fatalf("verify rejected grouped news message %s", m.ID)
		}
	}
	for _, m := range g.Discussion {
		if !s.Verify(m, Discussion) {
			t.Fatalf("verify rejected grouped discussion message %s", m.ID)
		}
	}

	// malformed input yields false, never an error
	if s.Verify(models.Message{ID: "junk"}, News) {
		t.Fatalf("verify admitted message without a peer")
	}
	if s.Verify(models.Message{ID: "junk2"}, Unknown) {
		t.Fatalf("verify admitted unknown category")
	}
}
