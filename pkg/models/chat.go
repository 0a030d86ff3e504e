package models

// ChatKind discriminates Chat variants.
type ChatKind string

const (
	ChatUser    ChatKind = "user"
	ChatGroup   ChatKind = "group"
	ChatChannel ChatKind = "channel"
)

// Chat is the conversation entity a PeerRef resolves to. The populated
// fields depend on Kind:
//   - user: FirstName/LastName and the Bot flag
//   - group/channel: Title and ParticipantCount
//
// Title is optional free text for every kind.
type Chat struct {
	Kind ChatKind `json:"kind"`
	ID   int64    `json:"id"`

	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// Bot marks an automated account; only meaningful for user chats.
	Bot bool `json:"bot,omitempty"`

	Title            string `json:"title,omitempty"`
	ParticipantCount int    `json:"participant_count,omitempty"`
}

// Ref returns the PeerRef that resolves to this chat.
func (c Chat) Ref() PeerRef {
	switch c.Kind {
	case ChatUser:
		return PeerRef{Kind: PeerUser, ID: c.ID}
	case ChatGroup:
		return PeerRef{Kind: PeerGroup, ID: c.ID}
	case ChatChannel:
		return PeerRef{Kind: PeerChannel, ID: c.ID}
	}
	return PeerRef{}
}

// DisplayName returns a human-readable label for logs and debug output.
func (c Chat) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	if c.FirstName != "" && c.LastName != "" {
		return c.FirstName + " " + c.LastName
	}
	if c.FirstName != "" {
		return c.FirstName
	}
	return c.LastName
}
