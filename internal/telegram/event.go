package telegram

import (
	"strings"

	"github.com/pcoptima/channels-collector/internal/provenance"
)

// EventFromMessage projects a message onto the extractor's input shape,
// normalizing the two forward-metadata encodings the Bot API has used.
func EventFromMessage(msg *Message) provenance.Event {
	if msg == nil {
		return provenance.Event{}
	}

	ev := provenance.Event{
		ForwardChat: forwardChat(msg),
		ForwardUser: forwardUser(msg),
	}
	for _, ent := range msg.Entities {
		ev.Entities = append(ev.Entities, provenance.Entity{
			Type: ent.Type,
			URL:  ent.URL,
		})
	}
	return ev
}

func forwardChat(msg *Message) *provenance.ForwardChat {
	var chat *Chat
	if origin := msg.ForwardOrigin; origin != nil {
		switch origin.Type {
		case "channel":
			chat = origin.Chat
		case "chat":
			chat = origin.SenderChat
		}
	}
	if chat == nil {
		chat = msg.ForwardFromChat
	}
	if chat == nil {
		return nil
	}
	return &provenance.ForwardChat{
		ID:       chat.ID,
		Username: strings.TrimSpace(chat.Username),
		Title:    strings.TrimSpace(chat.Title),
	}
}

func forwardUser(msg *Message) *provenance.ForwardUser {
	var user *User
	if origin := msg.ForwardOrigin; origin != nil && origin.Type == "user" {
		user = origin.SenderUser
	}
	if user == nil {
		user = msg.ForwardFrom
	}
	if user == nil {
		return nil
	}
	return &provenance.ForwardUser{
		ID:       user.ID,
		Username: strings.TrimSpace(user.Username),
		IsBot:    user.IsBot,
	}
}

// MessageText returns the text or, for media messages, the caption.
func MessageText(msg *Message) string {
	if msg == nil {
		return ""
	}
	if strings.TrimSpace(msg.Text) != "" {
		return msg.Text
	}
	return msg.Caption
}
