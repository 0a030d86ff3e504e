package classify

import (
	"testing"

	"tabsd/pkg/models"
)

// A two-person group titled with travel/news keywords is the case the
// ordering policy exists for: title evidence says News, structure says
// Personal (two-party group is functionally a DM).
func TestOrderPolicyDecidesTitleVsStructure(t *testing.T) {
	chat := models.Chat{Kind: models.ChatGroup, ID: 700, Title: "Bali Travel Tips", ParticipantCount: 2}
	msg := models.Message{ID: "m", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 700}}

	titleFirst := newTestStore(t, Options{Order: TitleFirst})
	titleFirst.UpsertChats([]models.Chat{chat})
	if got := titleFirst.ChatType(msg); got != News {
		t.Fatalf("title_first: expected News, got %s", got)
	}

	structFirst := newTestStore(t, Options{Order: StructureFirst})
	structFirst.UpsertChats([]models.Chat{chat})
	if got := structFirst.ChatType(msg); got != Personal {
		t.Fatalf("structure_first: expected Personal, got %s", got)
	}
}

// With no structural evidence at all, both policies fall through to the
// title lexicons.
func TestOrderPolicyAgreesWithoutStructure(t *testing.T) {
	msg := models.Message{ID: "m", Peer: models.PeerRef{Kind: models.PeerGroup, ID: 701}}
	chat := models.Chat{Kind: models.ChatGroup, ID: 701, Title: "Kernel Hackers Forum"}

	for _, order := range []Order{TitleFirst, StructureFirst} {
		s := newTestStore(t, Options{Order: order})
		s.UpsertChats([]models.Chat{chat})
		if got := s.ChatType(msg); got != Discussion {
			t.Fatalf("order %d: expected Discussion, got %s", order, got)
		}
	}
}

func TestParseOrder(t *testing.T) {
	cases := []struct {
		in   string
		want Order
		ok   bool
	}{
		{"", TitleFirst, true},
		{"title_first", TitleFirst, true},
		{" Structure_First ", StructureFirst, true},
		{"alphabetical", TitleFirst, false},
	}
	for _, c := range cases {
		got, ok := ParseOrder(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseOrder(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if cat, ok := ParseCategory("news"); !ok || cat != News {
		t.Fatalf("ParseCategory(news) = (%s, %v)", cat, ok)
	}
	if _, ok := ParseCategory("spam"); ok {
		t.Fatalf("ParseCategory accepted unknown category")
	}
}
