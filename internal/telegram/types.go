package telegram

// Wire types for the subset of the Bot API this bot consumes.

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64    `json:"message_id"`
	Chat      *Chat    `json:"chat,omitempty"`
	From      *User    `json:"from,omitempty"`
	Text      string   `json:"text,omitempty"`
	Caption   string   `json:"caption,omitempty"`
	Entities  []Entity `json:"entities,omitempty"`

	// Forward provenance. forward_origin is the current Bot API shape;
	// forward_from_chat / forward_from are still sent by older servers and
	// kept as a fallback.
	ForwardOrigin   *MessageOrigin `json:"forward_origin,omitempty"`
	ForwardFromChat *Chat          `json:"forward_from_chat,omitempty"`
	ForwardFrom     *User          `json:"forward_from,omitempty"`
}

// MessageOrigin is the Bot API origin union: type is one of
// user|hidden_user|chat|channel, with the matching field populated.
type MessageOrigin struct {
	Type       string `json:"type"`
	SenderUser *User  `json:"sender_user,omitempty"`
	SenderChat *Chat  `json:"sender_chat,omitempty"`
	Chat       *Chat  `json:"chat,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type,omitempty"` // private|group|supergroup|channel
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"` // text_link only
}
