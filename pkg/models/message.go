package models

// PeerKind discriminates PeerRef variants.
type PeerKind string

const (
	PeerUser    PeerKind = "user"
	PeerGroup   PeerKind = "group"
	PeerChannel PeerKind = "channel"
)

// PeerRef points at a conversation entity (user, group or channel). It is
// comparable and doubles as the chat key for caches and the chat directory.
type PeerRef struct {
	Kind PeerKind `json:"kind"`
	ID   int64    `json:"id"`
}

// Valid reports whether the reference carries a usable kind and id.
func (p PeerRef) Valid() bool {
	switch p.Kind {
	case PeerUser, PeerGroup, PeerChannel:
		return p.ID != 0
	}
	return false
}

type Message struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
	// TS is the message timestamp (ns)
	TS int64 `json:"ts"`
	// Peer denotes the conversation the message belongs to
	Peer PeerRef `json:"peer"`
	// From denotes the author; may differ from Peer in group/channel chats.
	// Optional: messages arrive from weakly-typed sources and may omit it.
	From *PeerRef `json:"from,omitempty"`
}

// SenderID returns the author's entity id, or 0 when no sender reference
// is present.
func (m Message) SenderID() int64 {
	if m.From == nil {
		return 0
	}
	return m.From.ID
}
