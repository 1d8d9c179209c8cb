// Package provenance classifies one inbound message event into the channel
// the message originated from. Extraction is pure: no I/O, no clock, no
// lookups, so every path is deterministic under test.
package provenance

import (
	"errors"
	"fmt"
	"strings"
)

// ChannelLinkPrefix is the canonical public-channel link prefix on Telegram.
const ChannelLinkPrefix = "https://t.me/"

// Rejection reasons. The orchestrator maps each to its own reply text, so
// they must stay distinguishable via errors.Is.
var (
	// ErrNotForwarded: the event carries no forward metadata at all.
	ErrNotForwarded = errors.New("message is not forwarded")
	// ErrNotBotRelay: forwarded from a user account that is not a bot; no
	// channel can be recovered from such a forward.
	ErrNotBotRelay = errors.New("forwarded from a user, not a relay bot")
	// ErrNoChannelLink: forwarded through a bot but none of the text
	// entities carries a recognizable channel link. Covers malformed links
	// that fail the prefix check.
	ErrNoChannelLink = errors.New("no channel link found in forwarded message")
)

// Event is the forward-relevant projection of an inbound message.
type Event struct {
	ForwardChat *ForwardChat
	ForwardUser *ForwardUser
	Entities    []Entity
}

// ForwardChat is the forward-origin chat attached to a direct channel forward.
type ForwardChat struct {
	ID       int64
	Username string
	Title    string
}

// ForwardUser is the forward-origin user of a user-relayed forward.
type ForwardUser struct {
	ID       int64
	Username string
	IsBot    bool
}

// Entity is a structured annotation over the message text. Only text_link
// entities carry a URL payload.
type Entity struct {
	Type string
	URL  string
}

const entityTextLink = "text_link"

// OriginID distinguishes a trustworthy channel id from a placeholder. A
// bot-relayed forward does not expose the true channel id, so the relaying
// bot's id is stored instead; downstream consumers must not treat such an id
// as the channel's.
type OriginID struct {
	Value     int64
	Confirmed bool
}

func ConfirmedID(v int64) OriginID   { return OriginID{Value: v, Confirmed: true} }
func PlaceholderID(v int64) OriginID { return OriginID{Value: v} }

// Candidate is a resolved origin descriptor. Name is empty when the source
// did not carry a title; the caller is expected to enrich it.
type Candidate struct {
	ID   OriginID
	URL  string
	Name string
}

func (c Candidate) NameResolved() bool { return c.Name != "" }

// Extract resolves the origin of one event. First matching rule wins:
//
//  1. direct channel forward — complete candidate from the forward chat;
//  2. bot-relayed forward — first text_link entity with a channel-link URL,
//     placeholder id, name left for enrichment;
//  3. otherwise a typed rejection.
func Extract(ev Event) (Candidate, error) {
	if chat := ev.ForwardChat; chat != nil {
		return Candidate{
			ID:   ConfirmedID(chat.ID),
			URL:  channelURL(chat),
			Name: chat.Title,
		}, nil
	}

	user := ev.ForwardUser
	if user == nil {
		return Candidate{}, ErrNotForwarded
	}
	if !user.IsBot {
		return Candidate{}, ErrNotBotRelay
	}

	for _, ent := range ev.Entities {
		if ent.Type != entityTextLink {
			continue
		}
		if !strings.HasPrefix(ent.URL, ChannelLinkPrefix) {
			continue
		}
		return Candidate{
			ID:  PlaceholderID(user.ID),
			URL: ent.URL,
		}, nil
	}
	return Candidate{}, ErrNoChannelLink
}

func channelURL(chat *ForwardChat) string {
	if username := strings.TrimSpace(chat.Username); username != "" {
		return ChannelLinkPrefix + username
	}
	return fmt.Sprintf("chat_id:%d", chat.ID)
}
